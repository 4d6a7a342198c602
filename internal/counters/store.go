// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package counters provides the key-value store backing the live social
// counters (likes, downloads, rating, rating count) and the expiring
// rate-limit markers. Counters are plain string keys with no transactions;
// concurrent read-increment-write updates can lose an update under load,
// which is an accepted trade-off for informational counters.
package counters

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// KV is the minimal contract the services need from the counter store:
// optional get, and put with an optional TTL (zero means no expiry).
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string, ttl time.Duration) error
}

// Key builders for the counter and marker keyspaces.

// LikesKey returns the key holding the like count for an item.
func LikesKey(id string) string { return "likes:" + id }

// DownloadsKey returns the key holding the download count for an item.
func DownloadsKey(id string) string { return "downloads:" + id }

// RatingKey returns the key holding the running rating average for an item.
func RatingKey(id string) string { return "rating:" + id }

// RatingCountKey returns the key holding the number of accepted ratings.
func RatingCountKey(id string) string { return "rating_count:" + id }

// MarkerKey returns the rate-limit marker key for an (action, item, client)
// triple, e.g. "like:42:203.0.113.7".
func MarkerKey(action, id, client string) string {
	return action + ":" + id + ":" + client
}

// Connect creates a Redis client and verifies the connection with a ping.
func Connect(host, port, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	slog.Info("counter store connected", "addr", fmt.Sprintf("%s:%s", host, port))
	return client, nil
}

// Store is the Redis-backed implementation of KV.
type Store struct {
	client *redis.Client
}

// NewStore wraps a Redis client as a counter store.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Get retrieves a key. The second return is false when the key is absent.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("counters get %s: %w", key, err)
	}
	return val, true, nil
}

// Put stores a key. A zero TTL means the key never expires.
func (s *Store) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("counters put %s: %w", key, err)
	}
	return nil
}
