package memocache

import (
	"fmt"
	"time"

	"github.com/querymind/memocache/codec"
)

// Backend selects the storage engine behind a cache instance.
type Backend string

const (
	// BackendLRU is the default: exact LRU order, exact capacity,
	// per-entry TTL, in-process values (no serialization).
	BackendLRU Backend = "lru"

	// BackendRistretto trades exact semantics for admission-policy
	// throughput; capacity is approximate.
	BackendRistretto Backend = "ristretto"

	// BackendBigCache stores entries off-heap as bytes; values pass
	// through Config.Codec and MaxSize is approximated by memory limits.
	BackendBigCache Backend = "bigcache"
)

// Config describes one cache instance. It is immutable once the instance
// is created; later defaults-table updates never touch live instances.
type Config struct {
	// Backend defaults to BackendLRU.
	Backend Backend

	// MaxSize is the entry capacity. Must be > 0.
	MaxSize int

	// TTL is the default time-to-live for entries set without an explicit
	// TTL. Zero means entries do not expire by default.
	TTL time.Duration

	// SweepInterval enables proactive expiry for the lru backend.
	// 0 disables the sweeper (lazy expiry still applies).
	SweepInterval time.Duration

	// Codec serializes values for the bigcache backend; ignored by the
	// in-process backends. Defaults to codec.String.
	Codec codec.Codec
}

func (c Config) withDefaults() Config {
	c.Backend = coalesce(c.Backend, BackendLRU)
	return c
}

func (c Config) validate(cacheName string) error {
	switch c.Backend {
	case BackendLRU, BackendRistretto, BackendBigCache:
	default:
		return &ConfigError{Cache: cacheName, Reason: fmt.Sprintf("unknown backend %q", c.Backend)}
	}
	if c.MaxSize <= 0 {
		return &ConfigError{Cache: cacheName, Reason: fmt.Sprintf("MaxSize must be > 0, got %d", c.MaxSize)}
	}
	return nil
}
