// Package ristretto adapts dgraph-io/ristretto as a cache store.
//
// Ristretto trades exact LRU semantics for admission-policy throughput:
// capacity is approximate, a Put may be refused under pressure, and
// evictions are not attributable to a specific Put. Use it for large,
// high-churn caches; the lru store remains the default.
package ristretto

import (
	"context"
	"errors"
	"time"

	rc "github.com/dgraph-io/ristretto"

	"github.com/querymind/memocache/store"
)

type Config struct {
	// MaxEntries is the approximate entry capacity. Must be > 0.
	MaxEntries int64

	// DefaultTTL applies when Put is called with ttl == 0.
	// Zero means entries never expire by default.
	DefaultTTL time.Duration

	// OnEvict is called when ristretto drops an entry (capacity or TTL).
	// Optional.
	OnEvict func(key string)

	// OnReject is called when ristretto's admission policy refuses a Put.
	// The refused write is not an error; the entry is simply absent.
	// Optional.
	OnReject func(key string)

	Metrics bool
}

type Store struct {
	c          *rc.Cache
	defaultTTL time.Duration
	onReject   func(string)
}

// item wraps stored values so eviction callbacks can recover the original
// string key (ristretto only reports key hashes).
type item struct {
	key   string
	value any
}

var _ store.Store = (*Store)(nil)

func New(cfg Config) (*Store, error) {
	if cfg.MaxEntries <= 0 {
		return nil, errors.New("ristretto: MaxEntries must be > 0")
	}

	rcfg := &rc.Config{
		NumCounters: cfg.MaxEntries * 10, // admission counters per ristretto guidance
		MaxCost:     cfg.MaxEntries,      // cost 1 per entry => entry-count capacity
		BufferItems: 64,
		Metrics:     cfg.Metrics,
	}
	if cfg.OnEvict != nil {
		onEvict := cfg.OnEvict
		rcfg.OnEvict = func(it *rc.Item) {
			if w, ok := it.Value.(item); ok {
				onEvict(w.key)
			}
		}
	}

	c, err := rc.NewCache(rcfg)
	if err != nil {
		return nil, err
	}
	return &Store{c: c, defaultTTL: cfg.DefaultTTL, onReject: cfg.OnReject}, nil
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, false
	}
	w, ok := v.(item)
	if !ok {
		// self-heal: drop unexpected entry shape
		s.c.Del(key)
		return nil, false
	}
	return w.value, true
}

func (s *Store) Put(_ context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if ttl == 0 {
		ttl = s.defaultTTL
	}
	var ok bool
	if ttl > 0 {
		ok = s.c.SetWithTTL(key, item{key: key, value: value}, 1, ttl)
	} else {
		ok = s.c.Set(key, item{key: key, value: value}, 1)
	}
	if !ok && s.onReject != nil {
		s.onReject(key)
	}
	// Evictions happen asynchronously inside ristretto and are reported
	// through OnEvict, never through Put.
	return false, nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.c.Del(key)
	return nil
}

func (s *Store) Clear(_ context.Context) error {
	s.c.Clear()
	return nil
}

// Len is unknown for ristretto; it does not expose a live entry count.
func (s *Store) Len() int { return -1 }

func (s *Store) Close(_ context.Context) error {
	s.c.Wait()
	s.c.Close()
	return nil
}

// Metrics exposes ristretto's own metrics when enabled in Config.
// Not part of the store.Store contract.
func (s *Store) Metrics() *rc.Metrics { return s.c.Metrics }
