package memocache

import (
	"context"
	"time"

	"github.com/querymind/memocache/store"
	bcstore "github.com/querymind/memocache/store/bigcache"
	lrustore "github.com/querymind/memocache/store/lru"
	ristore "github.com/querymind/memocache/store/ristretto"
)

// Cache is one named cache instance: a single store plus cumulative
// statistics. Instances are created through a Registry (or NewCache for
// standalone use) and are safe for concurrent use.
type Cache struct {
	name  string
	cfg   Config
	store store.Store
	log   Logger
	hooks Hooks
	stats counters
}

// NewCache builds a standalone instance from cfg. Most callers go through
// Registry.GetOrCreate instead.
func NewCache(name string, cfg Config, log Logger, hooks Hooks) (*Cache, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(name); err != nil {
		return nil, err
	}

	c := &Cache{
		name:  name,
		cfg:   cfg,
		log:   coalesce[Logger](log, NopLogger{}),
		hooks: coalesce[Hooks](hooks, NopHooks{}),
	}

	// Eviction/expiry flow back through callbacks so the counters cover
	// lazy expiry, sweep passes and ristretto's asynchronous evictions
	// alike.
	onEvict := func(key string) {
		c.stats.evictions.Add(1)
		c.hooks.EntryEvicted(c.name, key)
	}
	onExpire := func(key string) {
		c.stats.expirations.Add(1)
		c.hooks.EntryExpired(c.name, key)
	}

	var (
		s   store.Store
		err error
	)
	switch cfg.Backend {
	case BackendLRU:
		s, err = lrustore.New(lrustore.Config{
			MaxSize:       cfg.MaxSize,
			DefaultTTL:    cfg.TTL,
			SweepInterval: cfg.SweepInterval,
			OnEvict:       onEvict,
			OnExpire:      onExpire,
		})
	case BackendRistretto:
		s, err = ristore.New(ristore.Config{
			MaxEntries: int64(cfg.MaxSize),
			DefaultTTL: cfg.TTL,
			OnEvict:    onEvict,
			OnReject: func(key string) {
				c.hooks.SetRejected(c.name, key)
			},
		})
	case BackendBigCache:
		s, err = bcstore.New(bcstore.Config{
			Codec:      cfg.Codec,
			DefaultTTL: cfg.TTL,
			OnExpire:   onExpire,
		})
	}
	if err != nil {
		return nil, &ConfigError{Cache: name, Reason: err.Error()}
	}

	c.store = s
	c.log.Info("cache created", Fields{
		"cache":    name,
		"backend":  string(cfg.Backend),
		"max_size": cfg.MaxSize,
		"ttl":      cfg.TTL,
	})
	return c, nil
}

func (c *Cache) Name() string { return c.name }

// Config returns the immutable configuration the instance was created with.
func (c *Cache) Config() Config { return c.cfg }

// Get returns the live value for key. Absent and expired keys are misses;
// a miss is a valid outcome, not an error.
func (c *Cache) Get(ctx context.Context, key string) (any, bool) {
	v, ok := c.store.Get(ctx, key)
	if ok {
		c.stats.hits.Add(1)
		c.log.Debug("cache hit", Fields{"cache": c.name, "key": key})
		return v, true
	}
	c.stats.misses.Add(1)
	c.log.Debug("cache miss", Fields{"cache": c.name, "key": key})
	return nil, false
}

// Set stores value under key. ttl == 0 uses the instance default,
// store.NoExpiration disables expiry for this entry. A value the backend
// cannot represent returns *SerializationError and leaves the cache
// unchanged.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if _, err := c.store.Put(ctx, key, value, ttl); err != nil {
		serr := &SerializationError{Cache: c.name, Key: key, Err: err}
		c.hooks.EncodeError(c.name, key, err)
		c.log.Warn("cache set failed", Fields{"cache": c.name, "key": key, "err": err})
		return serr
	}
	c.stats.sets.Add(1)
	c.log.Debug("cache set", Fields{"cache": c.name, "key": key, "ttl": ttl})
	return nil
}

// Delete removes a key; absent keys are a no-op.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.store.Delete(ctx, key)
}

// Clear removes all entries. Statistics are kept; use ResetStats to zero
// them.
func (c *Cache) Clear(ctx context.Context) error {
	err := c.store.Clear(ctx)
	if err == nil {
		c.log.Info("cache cleared", Fields{"cache": c.name})
	}
	return err
}

// Len returns the current entry count, or -1 when the backend does not
// expose one.
func (c *Cache) Len() int { return c.store.Len() }

// Stats returns a read-only snapshot of the cumulative counters.
func (c *Cache) Stats() Stats { return c.stats.snapshot() }

// ResetStats zeroes the counters.
func (c *Cache) ResetStats() { c.stats.reset() }

// Close releases the underlying store (background sweepers etc.).
func (c *Cache) Close(ctx context.Context) error {
	return c.store.Close(ctx)
}
