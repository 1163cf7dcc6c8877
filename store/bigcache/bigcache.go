// Package bigcache adapts allegro/bigcache as a cache store.
//
// BigCache keeps entries off-heap as raw bytes, so values pass through a
// codec.Codec and a round trip may not preserve concrete Go types (see the
// codec package). BigCache has no per-entry TTL of its own; this adapter
// frames every payload with an absolute expiry and enforces it on read,
// with the global LifeWindow acting as an upper bound.
package bigcache

import (
	"context"
	"errors"
	"time"

	bc "github.com/allegro/bigcache/v3"

	"github.com/querymind/memocache/codec"
	"github.com/querymind/memocache/internal/wire"
	"github.com/querymind/memocache/store"
)

type Config struct {
	// Codec serializes values to bytes. Defaults to codec.String, which
	// fits the usual payloads here (schema text, generated SQL).
	Codec codec.Codec

	// DefaultTTL applies when Put is called with ttl == 0.
	// Zero means entries only age out via LifeWindow.
	DefaultTTL time.Duration

	// LifeWindow is bigcache's global retention window and the hard upper
	// bound on any entry's lifetime. Defaults to 24h.
	LifeWindow time.Duration

	// OnExpire is called when a read finds an entry past its framed
	// expiry. Optional.
	OnExpire func(key string)

	CleanWindow        time.Duration
	MaxEntriesInWindow int
	MaxEntrySize       int
	HardMaxCacheSizeMB int // ~ memory limit; 0 = unlimited
}

type Store struct {
	c          *bc.BigCache
	codec      codec.Codec
	defaultTTL time.Duration
	onExpire   func(string)
}

var _ store.Store = (*Store)(nil)

func New(cfg Config) (*Store, error) {
	if cfg.Codec == nil {
		cfg.Codec = codec.String{}
	}
	if cfg.LifeWindow <= 0 {
		cfg.LifeWindow = 24 * time.Hour
	}

	conf := bc.DefaultConfig(cfg.LifeWindow)
	if cfg.CleanWindow > 0 {
		conf.CleanWindow = cfg.CleanWindow
	}
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}

	c, err := bc.NewBigCache(conf)
	if err != nil {
		return nil, err
	}
	return &Store{
		c:          c,
		codec:      cfg.Codec,
		defaultTTL: cfg.DefaultTTL,
		onExpire:   cfg.OnExpire,
	}, nil
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	raw, err := s.c.Get(key)
	if err != nil {
		return nil, false // ErrEntryNotFound and transient errors are both misses
	}

	expiresAt, payload, err := wire.DecodeEntry(raw)
	if err != nil {
		_ = s.c.Delete(key) // self-heal corrupt
		return nil, false
	}
	if expiresAt != 0 && time.Now().UnixNano() >= int64(expiresAt) {
		_ = s.c.Delete(key)
		if s.onExpire != nil {
			s.onExpire(key)
		}
		return nil, false
	}

	v, err := s.codec.Decode(payload)
	if err != nil {
		_ = s.c.Delete(key) // self-heal undecodable payload
		return nil, false
	}
	return v, true
}

func (s *Store) Put(_ context.Context, key string, value any, ttl time.Duration) (bool, error) {
	payload, err := s.codec.Encode(value)
	if err != nil {
		return false, err
	}

	if ttl == 0 {
		ttl = s.defaultTTL
	}
	var expiresAt uint64
	if ttl > 0 {
		expiresAt = uint64(time.Now().Add(ttl).UnixNano())
	}

	if err := s.c.Set(key, wire.EncodeEntry(expiresAt, payload)); err != nil {
		return false, err
	}
	// BigCache evicts internally by window/size; not attributable per Put.
	return false, nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	err := s.c.Delete(key)
	if err != nil && !errors.Is(err, bc.ErrEntryNotFound) {
		return err
	}
	return nil
}

func (s *Store) Clear(_ context.Context) error { return s.c.Reset() }

func (s *Store) Len() int { return s.c.Len() }

func (s *Store) Close(_ context.Context) error { return s.c.Close() }
