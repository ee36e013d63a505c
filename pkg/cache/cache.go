// Package cache provides key-value caches for expensive, repeatable work
// such as generator responses.
//
// All implementations share the [Cache] interface. A miss is reported as
// (nil, false, nil); errors are reserved for I/O failures.
//
//   - [FileCache]: JSON entries on disk, for the CLI
//   - [MemoryCache]: in-process map with expiry, for the API server
//   - [NullCache]: caching disabled
//
// Keys are opaque strings; build them with [Key] to get fixed-length,
// namespaced keys.
package cache

import (
	"context"
	"time"
)

// Cache stores byte payloads with an optional time-to-live.
// Implementations are safe for concurrent use.
type Cache interface {
	// Get returns the cached value and whether it was found and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Default TTLs per cached artifact.
const (
	// TTLGeneration applies to raw generator responses.
	TTLGeneration = 7 * 24 * time.Hour
)
