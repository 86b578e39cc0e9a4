// Package cache provides byte-oriented caching for HTTP responses and
// the OpenAPI schema document.
//
// Three backends implement the [Cache] interface:
//   - file: entries stored on disk under the XDG cache directory (default)
//   - redis: shared cache for CI fleets or multiple machines
//   - null: no-op cache for --no-cache runs and tests
//
// Entries carry an optional time-to-live. A TTL of 0 means the entry
// never expires; callers that need stale-fallback semantics (the schema
// store) pair a non-expiring data entry with an expiring metadata entry.
package cache

import (
	"context"
	"time"
)

// Cache is the interface implemented by all cache backends.
// Implementations are safe for use by sequential CLI invocations that
// share a directory or server; no cross-process locking is provided.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss
	// (including expired entries).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of 0 stores it without expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any backend resources.
	Close() error
}
