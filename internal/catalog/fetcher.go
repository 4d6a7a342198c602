package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// ErrUpstreamUnavailable signals that the snapshot source could not be
// reached. Handlers map it to a 502.
var ErrUpstreamUnavailable = errors.New("catalog: upstream unavailable")

// DefaultSnapshotTTL is how long a fetched snapshot is served from memory
// before the source is asked again.
const DefaultSnapshotTTL = 5 * time.Minute

// Fetcher retrieves the catalog snapshot over HTTP with a short in-process
// cache. A malformed or empty body yields an empty collection, not an error.
type Fetcher struct {
	url    string
	ttl    time.Duration
	client *http.Client

	mu        sync.Mutex
	cached    []Item
	fetchedAt time.Time
}

// NewFetcher creates a snapshot fetcher for the given URL.
func NewFetcher(url string, ttl time.Duration) *Fetcher {
	if ttl == 0 {
		ttl = DefaultSnapshotTTL
	}
	return &Fetcher{
		url:    url,
		ttl:    ttl,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Items returns the current snapshot, fetching it when the cache is stale.
func (f *Fetcher) Items(ctx context.Context) ([]Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.fetchedAt.IsZero() && time.Since(f.fetchedAt) < f.ttl {
		return f.cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: snapshot fetch returned status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		// A truncated body degrades to an empty collection.
		body = nil
	}

	f.cached = ParseItems(body)
	f.fetchedAt = time.Now()
	return f.cached, nil
}
