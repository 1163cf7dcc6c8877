package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/querymind/memocache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all. Evictions and expiries are
	// the hot events: every entry that ages out of a busy cache fires one.
	EvictEvery  uint64
	ExpireEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix (keys are derived
	// from user query text and should not land in logs verbatim).
	Redact func(string) string
}

// Hooks logs cache events through slog with per-event sampling.
type Hooks struct {
	l    *slog.Logger
	opts Options

	evictCtr  atomic.Uint64
	expireCtr atomic.Uint64
}

var _ memocache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) EntryEvicted(cache, key string) {
	if h.l == nil || !sample(h.opts.EvictEvery, &h.evictCtr) {
		return
	}
	h.l.Debug("memocache.entry_evicted",
		"cache", cache,
		"key", h.redact(key))
}

func (h *Hooks) EntryExpired(cache, key string) {
	if h.l == nil || !sample(h.opts.ExpireEvery, &h.expireCtr) {
		return
	}
	h.l.Debug("memocache.entry_expired",
		"cache", cache,
		"key", h.redact(key))
}

func (h *Hooks) SetRejected(cache, key string) {
	if h.l == nil {
		return
	}
	h.l.Warn("memocache.set_rejected",
		"cache", cache,
		"key", h.redact(key))
}

func (h *Hooks) EncodeError(cache, key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("memocache.encode_error",
		"cache", cache,
		"key", h.redact(key),
		"err", err)
}

func (h *Hooks) KeyDerivationFailed(prefix string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("memocache.key_derivation_failed",
		"prefix", prefix,
		"err", err)
}
