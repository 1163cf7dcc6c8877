package memocache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/querymind/memocache/cachekey"
)

// MemoOptions configure one memoized function.
type MemoOptions[A, R any] struct {
	// Cache names the registry instance consulted by the wrapper.
	Cache string

	// KeyPrefix namespaces derived keys within the instance.
	KeyPrefix string

	// KeyFn maps the call argument to the parameters the key is derived
	// from. Callers normalize query text (cachekey.NormalizeText) and
	// strip sensitive fields here. Nil derives the key from the prefix
	// alone.
	KeyFn func(A) cachekey.Params

	// TTL for stored results; 0 uses the instance default.
	TTL time.Duration

	// Condition decides whether a computed result is worth caching
	// (e.g. reject empty retrieval text). Nil caches everything.
	Condition func(R) bool

	// SingleFlight collapses concurrent misses for the same key into one
	// invocation. Off by default: the stock behavior lets concurrent
	// misses compute independently (last write wins).
	SingleFlight bool
}

// Memoize wraps fn with read-through caching against reg.
//
// Each call derives a key, consults the named instance, and on a hit
// returns the cached value without invoking fn. On a miss fn runs outside
// any cache lock, its result is stored if Condition allows, and the
// result is returned either way. Errors from fn are never cached.
//
// The wrapper fails open: key-derivation or registry failures are logged
// and the call proceeds uncached. A cached value whose dynamic type is no
// longer R (possible after a byte-backed store round trip) is treated as
// a miss.
func Memoize[A, R any](reg *Registry, opts MemoOptions[A, R], fn func(context.Context, A) (R, error)) func(context.Context, A) (R, error) {
	var flight singleflight.Group

	return func(ctx context.Context, arg A) (R, error) {
		var params cachekey.Params
		if opts.KeyFn != nil {
			params = opts.KeyFn(arg)
		}
		key, err := cachekey.DeriveKey(opts.KeyPrefix, params)
		if err != nil {
			reg.hooks.KeyDerivationFailed(opts.KeyPrefix, err)
			reg.log.Warn("memoize: key derivation failed; running uncached", Fields{
				"cache": opts.Cache, "prefix": opts.KeyPrefix, "err": err,
			})
			return fn(ctx, arg)
		}

		c, err := reg.GetOrCreate(opts.Cache, nil)
		if err != nil {
			reg.log.Warn("memoize: cache unavailable; running uncached", Fields{
				"cache": opts.Cache, "err": err,
			})
			return fn(ctx, arg)
		}

		if v, ok := c.Get(ctx, key); ok {
			if r, ok := v.(R); ok {
				return r, nil
			}
			// Wrong dynamic type; fall through and recompute.
		}

		compute := func() (R, error) {
			r, err := fn(ctx, arg)
			if err != nil {
				return r, err
			}
			if opts.Condition == nil || opts.Condition(r) {
				if serr := c.Set(ctx, key, r, opts.TTL); serr != nil {
					// Result stands even when it cannot be stored.
					reg.log.Warn("memoize: store failed", Fields{
						"cache": opts.Cache, "key": key, "err": serr,
					})
				}
			}
			return r, nil
		}

		if !opts.SingleFlight {
			return compute()
		}

		v, err, _ := flight.Do(key, func() (any, error) {
			return compute()
		})
		if err != nil {
			var zero R
			return zero, err
		}
		return v.(R), nil
	}
}

// InvalidateOptions configure an invalidating wrapper.
type InvalidateOptions[A any] struct {
	// Cache names the registry instance to invalidate.
	Cache string

	// KeyFn maps the call argument to the key to delete. Nil clears the
	// whole instance instead.
	KeyFn func(A) string
}

// InvalidateAfter wraps a mutating operation so that a successful call
// removes the entries it made stale: one key when KeyFn is set, the whole
// instance otherwise. fn's result is returned unchanged; invalidation
// failures are logged, not propagated.
func InvalidateAfter[A, R any](reg *Registry, opts InvalidateOptions[A], fn func(context.Context, A) (R, error)) func(context.Context, A) (R, error) {
	return func(ctx context.Context, arg A) (R, error) {
		r, err := fn(ctx, arg)
		if err != nil {
			return r, err
		}

		c, cerr := reg.GetOrCreate(opts.Cache, nil)
		if cerr != nil {
			reg.log.Warn("invalidate: cache unavailable", Fields{"cache": opts.Cache, "err": cerr})
			return r, nil
		}
		if opts.KeyFn == nil {
			if cerr := c.Clear(ctx); cerr != nil {
				reg.log.Warn("invalidate: clear failed", Fields{"cache": opts.Cache, "err": cerr})
			}
			return r, nil
		}
		if cerr := c.Delete(ctx, opts.KeyFn(arg)); cerr != nil {
			reg.log.Warn("invalidate: delete failed", Fields{"cache": opts.Cache, "err": cerr})
		}
		return r, nil
	}
}
