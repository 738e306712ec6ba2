package shakeup

import (
	"context"
	"errors"

	"shakeup-scraper/fetcher"
	"shakeup-scraper/models"
	"shakeup-scraper/names"

	"github.com/rs/zerolog"
)

// RowParser turns leaderboard HTML into ranked rows
type RowParser interface {
	Parse(htmlContent string) ([]models.LeaderboardRow, error)
}

// NameResolver extracts the competition name from a leaderboard URL
type NameResolver interface {
	Resolve(url string) (string, error)
}

// Calculator computes the shakeup between a competition's private and public leaderboards
type Calculator struct {
	fetcher fetcher.Fetcher
	parser  RowParser
	names   NameResolver
	logger  zerolog.Logger
}

// NewCalculator creates a new Calculator
func NewCalculator(f fetcher.Fetcher, p RowParser, r NameResolver, logger zerolog.Logger) *Calculator {
	return &Calculator{
		fetcher: f,
		parser:  p,
		names:   r,
		logger:  logger,
	}
}

// Compute scrapes <root>/private and <root>/public and returns their shakeup.
// root is the leaderboard URL without the trailing /public or /private.
func (c *Calculator) Compute(ctx context.Context, root string) (models.ShakeupResult, error) {
	name, err := c.names.Resolve(root)
	if err != nil {
		return models.ShakeupResult{}, err
	}

	privateURL, publicURL := names.PageURLs(root)

	private, err := c.board(ctx, privateURL)
	if err != nil {
		return models.ShakeupResult{}, err
	}
	public, err := c.board(ctx, publicURL)
	if err != nil {
		return models.ShakeupResult{}, err
	}

	entries := Join(private, public)
	stats := Statistics(entries)

	c.logger.Debug().
		Str("competition", name).
		Int("private_rows", len(private)).
		Int("public_rows", len(public)).
		Int("joined", len(entries)).
		Msg("computed shakeup")

	return models.ShakeupResult{
		CompetitionName: name,
		ShakeupAll:      stats.All,
		ShakeupTop10Pct: stats.Top10Pct,
		RankCorrelation: stats.Correlation,
		Entries:         len(entries),
	}, nil
}

// board fetches and parses one leaderboard page
func (c *Calculator) board(ctx context.Context, url string) ([]models.LeaderboardRow, error) {
	body, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	rows, err := c.parser.Parse(string(body))
	if err != nil {
		var e *models.Error
		if errors.As(err, &e) && e.URL == "" {
			e.URL = url
		}
		// A page that did not parse must not be served again from the cache
		if inv, ok := c.fetcher.(fetcher.Invalidator); ok {
			if ierr := inv.Invalidate(ctx, url); ierr != nil {
				c.logger.Warn().Str("url", url).Err(ierr).Msg("failed to evict unparsable page")
			}
		}
		return nil, err
	}
	return rows, nil
}
