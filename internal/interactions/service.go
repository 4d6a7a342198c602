// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package interactions processes like, rate, and download-count requests.
// Repeat actions by the same client are rejected while an expiring marker in
// the counter store is alive; the counter updates themselves are plain
// read-increment-write with last-write-wins consistency.
package interactions

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"modhub/internal/counters"
)

var (
	// ErrInvalidRequest signals missing or out-of-range input.
	ErrInvalidRequest = errors.New("interactions: invalid request")

	// ErrRateLimited signals a repeated like within the marker window.
	ErrRateLimited = errors.New("interactions: already liked recently")

	// ErrAlreadyRated signals a repeated rating within the marker window.
	ErrAlreadyRated = errors.New("interactions: already rated")
)

const (
	likeWindow = 24 * time.Hour
	rateWindow = 7 * 24 * time.Hour
)

// Service applies interaction semantics on top of the counter store.
type Service struct {
	store counters.KV
}

// NewService creates an interaction service.
func NewService(store counters.KV) *Service {
	return &Service{store: store}
}

// RatingResult is the outcome of an accepted rating.
type RatingResult struct {
	Rating float64 `json:"rating"`
	Count  int64   `json:"ratingCount"`
}

// Like increments an item's like counter once per client per 24 hours and
// returns the new total.
func (s *Service) Like(ctx context.Context, itemID, client string) (int64, error) {
	if itemID == "" {
		return 0, fmt.Errorf("%w: itemId is required", ErrInvalidRequest)
	}

	marker := counters.MarkerKey("like", itemID, client)
	if _, ok, err := s.store.Get(ctx, marker); err != nil {
		return 0, err
	} else if ok {
		return 0, ErrRateLimited
	}

	if err := s.store.Put(ctx, marker, "1", likeWindow); err != nil {
		return 0, err
	}

	return s.increment(ctx, counters.LikesKey(itemID))
}

// Rate records a rating in [1,5] once per client per 7 days, updating the
// running average incrementally:
//
//	newCount   = oldCount + 1
//	newAverage = (oldAverage*oldCount + value) / newCount
//
// The stored average is rounded to one decimal, so repeated rounding can
// drift slightly over many ratings; that approximation is part of the
// contract.
func (s *Service) Rate(ctx context.Context, itemID string, value int, client string) (*RatingResult, error) {
	if itemID == "" {
		return nil, fmt.Errorf("%w: itemId is required", ErrInvalidRequest)
	}
	if value < 1 || value > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidRequest)
	}

	marker := counters.MarkerKey("rate", itemID, client)
	if _, ok, err := s.store.Get(ctx, marker); err != nil {
		return nil, err
	} else if ok {
		return nil, ErrAlreadyRated
	}

	if err := s.store.Put(ctx, marker, "1", rateWindow); err != nil {
		return nil, err
	}

	oldAverage, _ := s.readFloat(ctx, counters.RatingKey(itemID))
	oldCount, err := s.readInt(ctx, counters.RatingCountKey(itemID))
	if err != nil {
		return nil, err
	}

	newCount := oldCount + 1
	newAverage := float64(value)
	if oldCount > 0 {
		newAverage = (oldAverage*float64(oldCount) + float64(value)) / float64(newCount)
	}
	newAverage = math.Round(newAverage*10) / 10

	if err := s.store.Put(ctx, counters.RatingKey(itemID), strconv.FormatFloat(newAverage, 'f', 1, 64), 0); err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, counters.RatingCountKey(itemID), strconv.FormatInt(newCount, 10), 0); err != nil {
		return nil, err
	}

	return &RatingResult{Rating: newAverage, Count: newCount}, nil
}

// TrackDownload increments an item's download counter and returns the new
// total. Used both by the proxy and by clients reporting a direct download.
func (s *Service) TrackDownload(ctx context.Context, itemID string) (int64, error) {
	if itemID == "" {
		return 0, fmt.Errorf("%w: itemId is required", ErrInvalidRequest)
	}
	return s.increment(ctx, counters.DownloadsKey(itemID))
}

// increment performs the read-increment-write cycle on a counter key.
// Concurrent callers on the same key can lose an update; accepted.
func (s *Service) increment(ctx context.Context, key string) (int64, error) {
	current, err := s.readInt(ctx, key)
	if err != nil {
		return 0, err
	}
	next := current + 1
	if err := s.store.Put(ctx, key, strconv.FormatInt(next, 10), 0); err != nil {
		return 0, err
	}
	return next, nil
}

// readInt reads a counter key, defaulting to zero when absent or unparsable.
func (s *Service) readInt(ctx context.Context, key string) (int64, error) {
	val, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, nil
	}
	return n, nil
}

// readFloat reads a rating key, defaulting to zero when absent or unparsable.
func (s *Service) readFloat(ctx context.Context, key string) (float64, error) {
	val, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, nil
	}
	return f, nil
}
