package fetcher

import (
	"context"

	"github.com/rs/zerolog"
)

// CachedFetcher serves pages from a PageCache and falls back to the wrapped Fetcher.
// Cache errors are logged and never fail a fetch.
type CachedFetcher struct {
	next   Fetcher
	cache  PageCache
	logger zerolog.Logger
}

// NewCachedFetcher wraps next with cache
func NewCachedFetcher(next Fetcher, cache PageCache, logger zerolog.Logger) *CachedFetcher {
	return &CachedFetcher{
		next:   next,
		cache:  cache,
		logger: logger,
	}
}

// Fetch implements the Fetcher interface
func (cf *CachedFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	body, ok, err := cf.cache.Get(ctx, url)
	switch {
	case err != nil:
		cf.logger.Warn().Str("url", url).Err(err).Msg("page cache read failed, fetching directly")
	case ok:
		cf.logger.Debug().Str("url", url).Bool("cache_hit", true).Msg("serving cached page")
		return body, nil
	}

	body, err = cf.next.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	if err := cf.cache.Set(ctx, url, body); err != nil {
		cf.logger.Warn().Str("url", url).Err(err).Msg("page cache write failed")
	}

	return body, nil
}

// Invalidate removes url from the cache, e.g. after its body failed to parse
func (cf *CachedFetcher) Invalidate(ctx context.Context, url string) error {
	if err := cf.cache.Delete(ctx, url); err != nil {
		return err
	}
	cf.logger.Debug().Str("url", url).Msg("evicted cached page")
	return nil
}
