package catalog

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"modhub/internal/counters"
)

// ErrNotFound signals that no catalog item matches the requested identifier.
var ErrNotFound = errors.New("catalog: item not found")

// Service merges live counters from the store onto snapshot items.
type Service struct {
	fetcher *Fetcher
	store   counters.KV
}

// NewService creates a merge service over a fetcher and a counter store.
func NewService(fetcher *Fetcher, store counters.KV) *Service {
	return &Service{fetcher: fetcher, store: store}
}

// Stats is the aggregate view over the merged collection.
type Stats struct {
	Items          int              `json:"items"`
	TotalDownloads int64            `json:"totalDownloads"`
	Categories     map[string]int64 `json:"categories"`
	Games          map[string]int64 `json:"games"`
}

// Collection returns the full snapshot with live counters overlaid. Items
// are enriched concurrently relative to each other, and each item's four
// counter lookups run concurrently too.
func (s *Service) Collection(ctx context.Context) ([]Item, error) {
	items, err := s.fetcher.Items(ctx)
	if err != nil {
		return nil, err
	}

	merged := make([]Item, len(items))
	g, gctx := errgroup.WithContext(ctx)
	for i := range items {
		g.Go(func() error {
			merged[i] = s.enrich(gctx, items[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return merged, nil
}

// Item returns a single merged item, matching the id against both the id and
// legacy number fields.
func (s *Service) Item(ctx context.Context, id string) (*Item, error) {
	items, err := s.fetcher.Items(ctx)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].Matches(id) {
			it := s.enrich(ctx, items[i])
			return &it, nil
		}
	}
	return nil, ErrNotFound
}

// Stats computes the item count, the live-or-snapshot download total, and
// frequency tables by category and game. Missing categories and games fall
// into the "other" bucket. Everything derives from a single fetch.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	items, err := s.Collection(ctx)
	if err != nil {
		return nil, err
	}

	st := &Stats{
		Items:      len(items),
		Categories: make(map[string]int64),
		Games:      make(map[string]int64),
	}
	for i := range items {
		st.TotalDownloads += items[i].Downloads
		st.Categories[bucket(items[i].Category)]++
		st.Games[bucket(items[i].Game)]++
	}
	return st, nil
}

func bucket(name string) string {
	if name == "" {
		return "other"
	}
	return name
}

// enrich overlays the four live counters onto a snapshot item. Precedence is
// live value when present and parsable, else the snapshot baseline. Store
// read errors degrade to the snapshot value so a cache blip never fails a
// read-only request.
func (s *Service) enrich(ctx context.Context, it Item) Item {
	id := it.Key()
	if id == "" {
		return it
	}

	var likes, downloads, ratingCount string
	var likesOK, downloadsOK, ratingCountOK bool
	var rating string
	var ratingOK bool

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		likes, likesOK = s.read(gctx, counters.LikesKey(id))
		return nil
	})
	g.Go(func() error {
		downloads, downloadsOK = s.read(gctx, counters.DownloadsKey(id))
		return nil
	})
	g.Go(func() error {
		rating, ratingOK = s.read(gctx, counters.RatingKey(id))
		return nil
	})
	g.Go(func() error {
		ratingCount, ratingCountOK = s.read(gctx, counters.RatingCountKey(id))
		return nil
	})
	g.Wait()

	if likesOK {
		if n, ok := parseCount(likes); ok {
			it.Likes = n
		}
	}
	if downloadsOK {
		if n, ok := parseCount(downloads); ok {
			it.Downloads = n
		}
	}
	if ratingOK {
		if f, ok := parseRating(rating); ok {
			it.Rating = f
		}
	}
	if ratingCountOK {
		if n, ok := parseCount(ratingCount); ok {
			it.RatingCount = n
		}
	}
	return it
}

// read fetches a single counter key, treating errors as absent.
func (s *Service) read(ctx context.Context, key string) (string, bool) {
	val, ok, err := s.store.Get(ctx, key)
	if err != nil {
		slog.Warn("counter read failed", "key", key, "error", err)
		return "", false
	}
	if !ok || val == "" {
		return "", false
	}
	return val, true
}
