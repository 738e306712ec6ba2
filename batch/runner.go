package batch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"shakeup-scraper/models"

	"github.com/rs/zerolog"
)

// ShakeupComputer computes the shakeup for one leaderboard root URL
type ShakeupComputer interface {
	Compute(ctx context.Context, root string) (models.ShakeupResult, error)
}

// NameResolver extracts the competition name used in skip diagnostics
type NameResolver interface {
	Resolve(url string) (string, error)
}

// Failure records a URL that was skipped
type Failure struct {
	CompetitionName string // empty when the URL itself was malformed
	URL             string
	Err             error
}

// Options controls which failures are skipped rather than aborting the batch
type Options struct {
	// SkipMalformedURLs skips URLs that do not follow the c/<name>/leaderboard
	// convention instead of aborting the whole batch
	SkipMalformedURLs bool
}

// Runner processes leaderboard URLs one after another
type Runner struct {
	calc   ShakeupComputer
	names  NameResolver
	opts   Options
	logger zerolog.Logger
}

// NewRunner creates a new batch Runner
func NewRunner(calc ShakeupComputer, resolver NameResolver, opts Options, logger zerolog.Logger) *Runner {
	return &Runner{
		calc:   calc,
		names:  resolver,
		opts:   opts,
		logger: logger,
	}
}

// Run computes the shakeup of every URL in order. Fetch and parse failures are
// logged and skipped; malformed URLs abort the batch unless SkipMalformedURLs is set.
// A cancelled context aborts the batch with the cancellation error.
// Results for successful URLs keep the input order.
func (r *Runner) Run(ctx context.Context, urls []string) ([]models.ShakeupResult, []Failure, error) {
	var results []models.ShakeupResult
	var failures []Failure

	for i, url := range urls {
		res, err := r.calc.Compute(ctx, url)
		if err == nil {
			r.logger.Info().
				Int("item", i+1).
				Int("total", len(urls)).
				Str("competition", res.CompetitionName).
				Int("entries", res.Entries).
				Msg("processed leaderboard")
			results = append(results, res)
			continue
		}

		// Cancellation is not a per-item failure
		if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return results, failures, fmt.Errorf("batch interrupted at %s: %w", url, err)
		}

		kind := models.KindOf(err)
		skip := kind == models.KindFetch || kind == models.KindParse ||
			(kind == models.KindNameFormat && r.opts.SkipMalformedURLs)
		if !skip {
			return results, failures, fmt.Errorf("batch aborted at %s: %w", url, err)
		}

		name, _ := r.names.Resolve(url)
		r.logger.Warn().
			Str("competition", name).
			Str("url", url).
			Str("error_kind", kind.String()).
			Err(err).
			Msgf("skipping %s", displayName(name, url))

		failures = append(failures, Failure{CompetitionName: name, URL: url, Err: err})
	}

	return results, failures, nil
}

func displayName(name, url string) string {
	if name == "" {
		return url
	}
	return name
}

// ReadURLs reads one URL per line, ignoring blank lines and # comments
func ReadURLs(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read url list: %w", err)
	}
	return urls, nil
}
