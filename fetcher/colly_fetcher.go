package fetcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shakeup-scraper/models"

	"github.com/gocolly/colly/v2"
	"github.com/rs/zerolog"
)

// CollyOptions configures the colly collector
type CollyOptions struct {
	UserAgent string
	Delay     time.Duration // pause between requests to the same domain
	Timeout   time.Duration
}

// CollyFetcher implements the Fetcher interface using colly
type CollyFetcher struct {
	collector *colly.Collector
	logger    zerolog.Logger
}

// NewCollyFetcher creates a new CollyFetcher instance
func NewCollyFetcher(opts CollyOptions, logger zerolog.Logger) (*CollyFetcher, error) {
	// Every status reaches OnResponse; Fetch decides which ones are failures
	collectorOpts := []colly.CollectorOption{
		colly.AllowURLRevisit(),
		colly.ParseHTTPErrorResponse(),
	}
	if opts.UserAgent != "" {
		collectorOpts = append(collectorOpts, colly.UserAgent(opts.UserAgent))
	}
	c := colly.NewCollector(collectorOpts...)

	if opts.Timeout > 0 {
		c.SetRequestTimeout(opts.Timeout)
	}

	if opts.Delay > 0 {
		if err := c.Limit(&colly.LimitRule{
			DomainGlob:  "*",
			Parallelism: 1,
			Delay:       opts.Delay,
		}); err != nil {
			return nil, fmt.Errorf("failed to set rate limit: %w", err)
		}
	}

	return &CollyFetcher{
		collector: c,
		logger:    logger,
	}, nil
}

// Fetch implements the Fetcher interface
func (cf *CollyFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, models.NewFetchError(url, 0, err)
	}

	// Clone per call so callbacks from earlier fetches never fire again
	c := cf.collector.Clone()

	var body []byte
	var status int

	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		cf.logger.Debug().Str("url", url).Int("status", status).Err(err).Msg("fetch failed")
	})

	start := time.Now()
	if err := c.Visit(url); err != nil {
		return nil, models.NewFetchError(url, status, err)
	}

	if status < 200 || status > 299 {
		return nil, models.NewFetchError(url, status, errors.New("unexpected response status"))
	}

	cf.logger.Debug().
		Str("url", url).
		Int("status", status).
		Int("bytes", len(body)).
		Dur("duration", time.Since(start)).
		Msg("fetched page")

	return body, nil
}
