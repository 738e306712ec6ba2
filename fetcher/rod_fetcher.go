package fetcher

import (
	"context"
	"fmt"
	"os"
	"time"

	"shakeup-scraper/models"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"
)

// RodOptions configures the headless browser fetcher
type RodOptions struct {
	// WaitSelector is awaited after navigation, e.g. the leaderboard row selector
	WaitSelector string
	Timeout      time.Duration
}

// RodFetcher implements the Fetcher interface using rod (headless browser),
// for leaderboards that are rendered client side
type RodFetcher struct {
	browser *rod.Browser
	opts    RodOptions
	logger  zerolog.Logger
}

// chromePaths are checked before letting rod download Chromium
var chromePaths = []string{
	"/usr/bin/google-chrome",
	"/usr/bin/google-chrome-stable",
	"/usr/bin/chromium",
	"/usr/bin/chromium-browser",
	"/snap/bin/chromium",
}

// NewRodFetcher launches a headless browser
func NewRodFetcher(opts RodOptions, logger zerolog.Logger) (*RodFetcher, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	l := launcher.New().
		Headless(true).
		NoSandbox(true).
		Leakless(false).
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		Set("no-first-run").
		Set("mute-audio")

	for _, path := range chromePaths {
		if _, err := os.Stat(path); err == nil {
			l = l.Bin(path)
			break
		}
	}

	browserURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(browserURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	logger.Info().Str("control_url", browserURL).Msg("headless browser started")

	return &RodFetcher{
		browser: browser,
		opts:    opts,
		logger:  logger,
	}, nil
}

// Fetch implements the Fetcher interface
func (rf *RodFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	page, err := rf.browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, models.NewFetchError(url, 0, fmt.Errorf("failed to open page: %w", err))
	}
	defer page.Close()

	page = page.Timeout(rf.opts.Timeout)

	if err := page.Navigate(url); err != nil {
		return nil, models.NewFetchError(url, 0, fmt.Errorf("failed to navigate: %w", err))
	}
	if err := page.WaitLoad(); err != nil {
		return nil, models.NewFetchError(url, 0, fmt.Errorf("page did not load: %w", err))
	}

	if rf.opts.WaitSelector != "" {
		// A missing table is reported by the parser, not here
		if _, err := page.Element(rf.opts.WaitSelector); err != nil {
			rf.logger.Warn().Str("url", url).Str("selector", rf.opts.WaitSelector).Err(err).
				Msg("leaderboard rows did not render before timeout")
		}
	}

	html, err := page.HTML()
	if err != nil {
		return nil, models.NewFetchError(url, 0, fmt.Errorf("failed to get HTML: %w", err))
	}

	return []byte(html), nil
}

// Close shuts the browser down
func (rf *RodFetcher) Close() error {
	return rf.browser.Close()
}
