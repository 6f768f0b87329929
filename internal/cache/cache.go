// Package cache is the time-windowed memoization layer in front of the
// aggregator. It is a pure performance optimization: every failure path
// degrades to a miss, never to a request error.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"time"

	"jobscout-engine/internal/domain"
)

type Store interface {
	// Get returns the cached ranked records for key, or ok=false on miss
	// (including any backend failure).
	Get(ctx context.Context, key string) ([]domain.Listing, bool)
	// Set writes the records under key with the given TTL, best effort.
	Set(ctx context.Context, key string, records []domain.Listing, ttl time.Duration)
}

// entry is the stored envelope. InsertedAt is for debugging; expiry itself
// is the backend's TTL. Entries are written once and replaced or expire
// whole, never mutated.
type entry struct {
	InsertedAt time.Time        `json:"insertedAt"`
	Records    []domain.Listing `json:"records"`
}

// Key fingerprints a request into a namespaced cache key. Parts are hashed
// so keys stay short and opaque regardless of query length.
func Key(namespace string, parts ...string) string {
	h := sha1.Sum([]byte(strings.Join(parts, "|")))
	return namespace + ":" + hex.EncodeToString(h[:])
}

// Noop is the stand-in when no cache backend is configured; every lookup
// misses.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]domain.Listing, bool) { return nil, false }

func (Noop) Set(context.Context, string, []domain.Listing, time.Duration) {}
