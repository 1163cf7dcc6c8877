// Package memocache implements the in-process cache layer of a
// natural-language-to-SQL assistant: named, independently configured
// LRU+TTL cache instances, deterministic key derivation from heterogeneous
// parameters, and a memoizing wrapper for expensive operations such as
// schema retrieval and SQL generation.
//
// Components:
//   - store.Store: bounded key/value store with TTL (lru by default;
//     Ristretto and BigCache adapters available).
//   - cachekey: order-independent key derivation plus query-text
//     normalization to raise hit rates on near-duplicate requests.
//   - Cache: one named store with cumulative hit/miss/set/eviction stats.
//   - Registry: lazily-populated name -> Cache map with a defaults table;
//     an explicit handle, not a package-level global.
//   - Memoize: wraps a function with read-through caching, an optional
//     "is this result cacheable" condition, and opt-in single-flight
//     deduplication.
//
// The cache is an optimization layer and fails open: a cache-side error
// never prevents the wrapped computation from running. Two concurrent
// misses for the same key may both compute and both write (last write
// wins) unless SingleFlight is enabled.
package memocache
