// Package cache stores serialized pipeline artifacts between runs.
//
// Three backends implement [Cache]: [FileCache] for the CLI, [RedisCache]
// for servers sharing a cache, and [NullCache] when caching is disabled.
// Keys come from a [Keyer] so every stage names its artifacts the same way
// regardless of backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and true, or false on a miss.
	// Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Default TTLs per artifact. Coverings are a pure function of N, so they
// live longest; terrain and payloads depend on input files.
const (
	TTLCover   = 30 * 24 * time.Hour
	TTLTerrain = 7 * 24 * time.Hour
	TTLGlobe   = 7 * 24 * time.Hour
)
