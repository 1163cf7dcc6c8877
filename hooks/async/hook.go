// Package asynchook decouples hook work from cache hot paths.
//
// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    EvictEvery:  10, // sample logs: ~every 10th eviction
//	    ExpireEvery: 1,  // log every expiry
//	})
//
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	reg := memocache.NewRegistry(memocache.RegistryOptions{
//	    Hooks: hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"

	"github.com/querymind/memocache"
)

type Hooks struct {
	inner memocache.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ memocache.Hooks = (*Hooks)(nil)

func New(inner memocache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) EntryEvicted(cache, key string) {
	h.try(func() { h.inner.EntryEvicted(cache, key) })
}
func (h *Hooks) EntryExpired(cache, key string) {
	h.try(func() { h.inner.EntryExpired(cache, key) })
}
func (h *Hooks) SetRejected(cache, key string) {
	h.try(func() { h.inner.SetRejected(cache, key) })
}
func (h *Hooks) EncodeError(cache, key string, err error) {
	h.try(func() { h.inner.EncodeError(cache, key, err) })
}
func (h *Hooks) KeyDerivationFailed(prefix string, err error) {
	h.try(func() { h.inner.KeyDerivationFailed(prefix, err) })
}
