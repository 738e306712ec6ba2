package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"shakeup-scraper/names"
	"shakeup-scraper/parser"

	"gopkg.in/yaml.v3"
)

// Fetcher backends
const (
	BackendHTTP    = "http"
	BackendBrowser = "browser"
)

// Config represents the scraper configuration
type Config struct {
	Fetcher struct {
		Backend   string        `yaml:"backend"` // http or browser
		UserAgent string        `yaml:"user_agent"`
		Delay     time.Duration `yaml:"delay"`
		Timeout   time.Duration `yaml:"timeout"`
	} `yaml:"fetcher"`

	Parser struct {
		RowSelector  string `yaml:"row_selector"`
		RankSelector string `yaml:"rank_selector"`
	} `yaml:"parser"`

	Names struct {
		Pattern string `yaml:"pattern"`
	} `yaml:"names"`

	Batch struct {
		SkipMalformedURLs bool `yaml:"skip_malformed_urls"`
	} `yaml:"batch"`

	Cache struct {
		RedisURL string        `yaml:"redis_url"`
		TTL      time.Duration `yaml:"ttl"`
	} `yaml:"cache"`

	Storage struct {
		DatabaseURL string `yaml:"database_url"`
	} `yaml:"storage"`

	Sheets struct {
		SpreadsheetURL  string `yaml:"spreadsheet_url"`
		CredentialsPath string `yaml:"credentials_path"`
	} `yaml:"sheets"`

	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
}

// LoadConfig loads configuration from a YAML file on top of the defaults
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := GetDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads the config at path, falling back to defaults if the file does not exist
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if errors.Is(err, os.ErrNotExist) {
		return GetDefaultConfig(), nil
	}
	return cfg, err
}

// GetDefaultConfig returns a default configuration
func GetDefaultConfig() *Config {
	cfg := &Config{}
	cfg.Fetcher.Backend = BackendHTTP
	cfg.Fetcher.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	cfg.Fetcher.Delay = time.Second
	cfg.Fetcher.Timeout = 30 * time.Second
	cfg.Parser.RowSelector = parser.DefaultRowSelector
	cfg.Parser.RankSelector = parser.DefaultRankSelector
	cfg.Names.Pattern = names.DefaultPattern
	cfg.Batch.SkipMalformedURLs = false
	cfg.Cache.TTL = 24 * time.Hour
	cfg.Log.Level = "info"
	return cfg
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	switch c.Fetcher.Backend {
	case BackendHTTP, BackendBrowser:
	default:
		return fmt.Errorf("unknown fetcher backend %q", c.Fetcher.Backend)
	}
	if c.Fetcher.Delay < 0 || c.Fetcher.Timeout < 0 {
		return fmt.Errorf("fetcher delay and timeout must not be negative")
	}
	if c.Parser.RowSelector == "" || c.Parser.RankSelector == "" {
		return fmt.Errorf("parser selectors must not be empty")
	}
	if c.Names.Pattern == "" {
		return fmt.Errorf("names pattern must not be empty")
	}
	return nil
}
