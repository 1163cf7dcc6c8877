// Package store defines the storage abstraction behind a cache instance.
//
// A Store is a bounded associative container mapping key -> value with
// per-entry TTL. Implementations must be safe for concurrent use and must
// return values exactly as stored (byte-backed stores reverse any internal
// transform before returning).
//
// TTL semantics shared by all implementations:
//   - ttl > 0          entry expires that long after Put
//   - ttl == 0         use the store's default TTL (which may be "never")
//   - ttl == NoExpiration  entry never expires
package store

import (
	"context"
	"time"
)

// NoExpiration disables expiry for a single Put regardless of the store's
// default TTL.
const NoExpiration time.Duration = -1

// Store is a bounded key/value container with TTL.
type Store interface {
	// Get returns (value, true) on hit. An entry whose expiry has passed
	// is removed and reported as a miss; a hit marks the key
	// most-recently-used where the store tracks recency.
	Get(ctx context.Context, key string) (any, bool)

	// Put stores value under key, overwriting any previous entry and
	// resetting its expiry. evicted reports whether making room forced
	// out another live entry (capacity eviction; expired removals do not
	// count). err is non-nil only when the value cannot be represented by
	// the backend.
	Put(ctx context.Context, key string, value any, ttl time.Duration) (evicted bool, err error)

	// Delete removes a key (no error if absent).
	Delete(ctx context.Context, key string) error

	// Clear removes all entries.
	Clear(ctx context.Context) error

	// Len returns the number of currently held entries, which may include
	// entries that have expired but not yet been removed. Backends that do
	// not expose a live count return -1.
	Len() int

	// Close releases resources (background sweepers etc.).
	Close(ctx context.Context) error
}
