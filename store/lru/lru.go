// Package lru provides the default in-process store: a bounded LRU with
// per-entry TTL, lazy expiry on read and an optional background sweep.
package lru

import (
	"container/list"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/querymind/memocache/store"
)

// Config tunes one LRU store.
type Config struct {
	// MaxSize is the entry capacity. Must be > 0.
	MaxSize int

	// DefaultTTL applies when Put is called with ttl == 0.
	// Zero means entries never expire by default.
	DefaultTTL time.Duration

	// SweepInterval enables a periodic pass that removes expired entries
	// even if they are never read again. 0 disables the sweeper; lazy
	// expiry alone still upholds the TTL contract.
	SweepInterval time.Duration

	// OnEvict is called (outside the store lock) when a live entry is
	// pushed out by capacity. Optional.
	OnEvict func(key string)

	// OnExpire is called (outside the store lock) when an expired entry is
	// removed, whether lazily or by the sweeper. Optional.
	OnExpire func(key string)
}

// Store is a concurrency-safe LRU+TTL store.
//
// A map gives O(1) key lookup and a doubly-linked list maintains recency
// order (front = most recently used). All operations are O(1); the sweep
// pass is O(n) but runs off the hot path.
type Store struct {
	mu sync.Mutex

	maxSize    int
	defaultTTL time.Duration
	items      map[string]*list.Element
	lru        *list.List

	onEvict  func(string)
	onExpire func(string)

	ticker *time.Ticker
	stopCh chan struct{}
	wg     sync.WaitGroup
}

type entry struct {
	key       string
	value     any
	expiresAt time.Time // zero => never expires
}

var _ store.Store = (*Store)(nil)

// New constructs the store and starts the sweeper if configured.
func New(cfg Config) (*Store, error) {
	if cfg.MaxSize <= 0 {
		return nil, errors.New("lru: MaxSize must be > 0")
	}

	s := &Store{
		maxSize:    cfg.MaxSize,
		defaultTTL: cfg.DefaultTTL,
		items:      make(map[string]*list.Element, cfg.MaxSize),
		lru:        list.New(),
		onEvict:    cfg.OnEvict,
		onExpire:   cfg.OnExpire,
	}

	if cfg.SweepInterval > 0 {
		s.ticker = time.NewTicker(cfg.SweepInterval)
		s.stopCh = make(chan struct{})
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for {
				select {
				case <-s.ticker.C:
					s.Sweep()
				case <-s.stopCh:
					return
				}
			}
		}()
	}

	return s, nil
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	now := time.Now()

	s.mu.Lock()
	el, ok := s.items[key]
	if !ok {
		s.mu.Unlock()
		return nil, false
	}
	e := el.Value.(*entry)
	if expired(e, now) {
		s.removeLocked(el)
		s.mu.Unlock()
		if s.onExpire != nil {
			s.onExpire(key)
		}
		return nil, false
	}
	s.lru.MoveToFront(el)
	v := e.value
	s.mu.Unlock()
	return v, true
}

func (s *Store) Put(_ context.Context, key string, value any, ttl time.Duration) (bool, error) {
	now := time.Now()
	expiresAt := s.expiry(now, ttl)

	s.mu.Lock()
	if el, ok := s.items[key]; ok {
		e := el.Value.(*entry)
		e.value = value
		e.expiresAt = expiresAt
		s.lru.MoveToFront(el)
		s.mu.Unlock()
		return false, nil
	}

	// Make room. The LRU entry goes; if it happens to be expired its
	// removal is expiry, not a capacity eviction.
	var evictedKey, expiredKey string
	var evicted bool
	if s.lru.Len() >= s.maxSize {
		tail := s.lru.Back()
		te := tail.Value.(*entry)
		s.removeLocked(tail)
		if expired(te, now) {
			expiredKey = te.key
		} else {
			evictedKey = te.key
			evicted = true
		}
	}

	el := s.lru.PushFront(&entry{key: key, value: value, expiresAt: expiresAt})
	s.items[key] = el
	s.mu.Unlock()

	if evictedKey != "" && s.onEvict != nil {
		s.onEvict(evictedKey)
	}
	if expiredKey != "" && s.onExpire != nil {
		s.onExpire(expiredKey)
	}
	return evicted, nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	if el, ok := s.items[key]; ok {
		s.removeLocked(el)
	}
	s.mu.Unlock()
	return nil
}

func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	s.items = make(map[string]*list.Element, s.maxSize)
	s.lru.Init()
	s.mu.Unlock()
	return nil
}

func (s *Store) Len() int {
	s.mu.Lock()
	n := len(s.items)
	s.mu.Unlock()
	return n
}

// Sweep proactively removes all expired entries and returns how many were
// removed. Called periodically when SweepInterval is set; safe to call
// manually.
func (s *Store) Sweep() int {
	now := time.Now()

	s.mu.Lock()
	var removed []string
	for el := s.lru.Back(); el != nil; {
		prev := el.Prev()
		e := el.Value.(*entry)
		if expired(e, now) {
			s.removeLocked(el)
			removed = append(removed, e.key)
		}
		el = prev
	}
	s.mu.Unlock()

	if s.onExpire != nil {
		for _, k := range removed {
			s.onExpire(k)
		}
	}
	return len(removed)
}

// Close stops the sweeper. Safe to call when no sweeper was started.
func (s *Store) Close(_ context.Context) error {
	if s.stopCh != nil {
		close(s.stopCh)
		s.ticker.Stop()
		s.wg.Wait()
		s.stopCh = nil
	}
	return nil
}

func (s *Store) expiry(now time.Time, ttl time.Duration) time.Time {
	if ttl == 0 {
		ttl = s.defaultTTL
	}
	if ttl <= 0 { // covers store.NoExpiration and "no default"
		return time.Time{}
	}
	return now.Add(ttl)
}

func expired(e *entry, now time.Time) bool {
	return !e.expiresAt.IsZero() && !e.expiresAt.After(now)
}

func (s *Store) removeLocked(el *list.Element) {
	e := el.Value.(*entry)
	s.lru.Remove(el)
	delete(s.items, e.key)
}
