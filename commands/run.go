package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"shakeup-scraper/batch"
	"shakeup-scraper/cache"
	"shakeup-scraper/config"
	"shakeup-scraper/db"
	"shakeup-scraper/fetcher"
	"shakeup-scraper/logging"
	"shakeup-scraper/models"
	"shakeup-scraper/names"
	"shakeup-scraper/parser"
	"shakeup-scraper/report"
	"shakeup-scraper/shakeup"
	"shakeup-scraper/sheets"

	"github.com/spf13/cobra"
)

func run(cmd *cobra.Command, opts *options) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	logging.Setup(logging.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
		Output: cmd.ErrOrStderr(),
	})
	logger := logging.NewLogger("cli")

	f, closeFetcher, err := buildFetcher(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFetcher()

	resolver, err := names.NewResolver(cfg.Names.Pattern)
	if err != nil {
		return err
	}
	calc := shakeup.NewCalculator(
		f,
		parser.NewLeaderboardParser(cfg.Parser.RowSelector, cfg.Parser.RankSelector),
		resolver,
		logging.NewLogger("shakeup"),
	)

	out := cmd.OutOrStdout()
	var results []models.ShakeupResult
	var source string

	if opts.url != "" {
		source = opts.url
		res, err := calc.Compute(ctx, opts.url)
		if err != nil {
			return err
		}
		results = []models.ShakeupResult{res}

		if cmd.Flags().Changed("format") {
			if err := report.Render(out, results, opts.format); err != nil {
				return err
			}
		} else {
			report.RenderRecord(out, res)
		}
	} else {
		source = opts.file
		urls, err := readURLFile(opts.file)
		if err != nil {
			return err
		}

		runner := batch.NewRunner(calc, resolver, batch.Options{
			SkipMalformedURLs: cfg.Batch.SkipMalformedURLs,
		}, logging.NewLogger("batch"))

		var failures []batch.Failure
		results, failures, err = runner.Run(ctx, urls)
		if err != nil {
			return err
		}
		logger.Info().Int("succeeded", len(results)).Int("skipped", len(failures)).Msg("batch finished")

		if err := report.Render(out, results, opts.format); err != nil {
			return err
		}
	}

	export(ctx, cfg, opts, source, results)
	return nil
}

// loadConfig reads the config file and applies explicitly set flags on top
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("skip-malformed") {
		cfg.Batch.SkipMalformedURLs = opts.skipMalformed
	}
	if flags.Changed("browser") && opts.browser {
		cfg.Fetcher.Backend = config.BackendBrowser
	}
	if opts.spreadsheet != "" {
		cfg.Sheets.SpreadsheetURL = opts.spreadsheet
	}
	if opts.credentials != "" {
		cfg.Sheets.CredentialsPath = opts.credentials
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if flags.Changed("log-pretty") {
		cfg.Log.Pretty = opts.logPretty
	}

	switch opts.format {
	case report.FormatTable, report.FormatCSV, report.FormatMarkdown:
	default:
		return nil, fmt.Errorf("unknown output format %q", opts.format)
	}

	return cfg, nil
}

func readURLFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open url list: %w", err)
	}
	defer file.Close()
	return batch.ReadURLs(file)
}

// buildFetcher creates the configured fetcher, wrapped with the page cache when one is configured
func buildFetcher(ctx context.Context, cfg *config.Config) (fetcher.Fetcher, func(), error) {
	var f fetcher.Fetcher
	closers := []func(){}
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch cfg.Fetcher.Backend {
	case config.BackendBrowser:
		rf, err := fetcher.NewRodFetcher(fetcher.RodOptions{
			WaitSelector: cfg.Parser.RowSelector,
			Timeout:      cfg.Fetcher.Timeout,
		}, logging.NewLogger("browser"))
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { rf.Close() })
		f = rf
	default:
		cf, err := fetcher.NewCollyFetcher(fetcher.CollyOptions{
			UserAgent: cfg.Fetcher.UserAgent,
			Delay:     cfg.Fetcher.Delay,
			Timeout:   cfg.Fetcher.Timeout,
		}, logging.NewLogger("fetcher"))
		if err != nil {
			return nil, nil, err
		}
		f = cf
	}

	if cfg.Cache.RedisURL != "" {
		logger := logging.NewLogger("cache")
		pageCache, err := cache.Open(ctx, cfg.Cache.RedisURL, cfg.Cache.TTL)
		if err != nil {
			// Scraping still works without the cache
			logger.Warn().Err(err).Msg("page cache unavailable")
		} else {
			closers = append(closers, func() { pageCache.Close() })
			f = fetcher.NewCachedFetcher(f, pageCache, logger)
		}
	}

	return f, closeAll, nil
}

// export saves results to the database and Google Sheets when configured.
// Failures are logged; the report has already been printed.
func export(ctx context.Context, cfg *config.Config, opts *options, source string, results []models.ShakeupResult) {
	if opts.saveToDB || cfg.Storage.DatabaseURL != "" {
		logger := logging.NewLogger("db")
		database, err := db.NewDB(ctx, cfg.Storage.DatabaseURL, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialize database")
		} else {
			if _, err := database.SaveResults(ctx, source, results); err != nil {
				logger.Warn().Err(err).Msg("failed to save results")
			}
			database.Close()
		}
	}

	if cfg.Sheets.SpreadsheetURL != "" {
		logger := logging.NewLogger("sheets")
		spreadsheetID := sheets.ExtractSpreadsheetID(cfg.Sheets.SpreadsheetURL)
		if spreadsheetID == "" {
			logger.Warn().Str("url", cfg.Sheets.SpreadsheetURL).Msg("could not extract spreadsheet ID")
			return
		}

		writer, err := sheets.NewWriter(ctx, spreadsheetID, cfg.Sheets.CredentialsPath, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialize Google Sheets writer")
			return
		}

		sheetName := fmt.Sprintf("shakeup_%s", time.Now().Format("20060102_150405"))
		if _, _, err := writer.CreateSheetAndWriteResults(ctx, sheetName, results, source); err != nil {
			logger.Warn().Err(err).Msg("failed to write to Google Sheets")
		}
	}
}
