package fetcher

import "context"

// Fetcher interface defines the contract for fetching implementations
type Fetcher interface {
	// Fetch retrieves the raw response body for url.
	// Transport failures and non-2xx responses are models.KindFetch errors.
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// PageCache stores fetched pages keyed by URL
type PageCache interface {
	Get(ctx context.Context, url string) ([]byte, bool, error)
	Set(ctx context.Context, url string, body []byte) error
	Delete(ctx context.Context, url string) error
}

// Invalidator is implemented by fetchers that keep copies of pages.
// Invalidate drops the stored copy of url so the next Fetch goes to the network.
type Invalidator interface {
	Invalidate(ctx context.Context, url string) error
}
