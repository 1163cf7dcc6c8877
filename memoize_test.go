package memocache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/querymind/memocache/cachekey"
)

func newTestRegistry(t *testing.T, hooks Hooks) *Registry {
	t.Helper()
	reg := NewRegistry(RegistryOptions{Hooks: hooks})
	t.Cleanup(func() { _ = reg.Close(context.Background()) })
	return reg
}

func queryKey(q string) cachekey.Params {
	return cachekey.Params{"query": cachekey.String(cachekey.NormalizeText(q))}
}

// ==============================
// Read-through behavior
// ==============================

// Two sequential calls with the same argument invoke the function once.
func TestMemoizeSecondCallIsCached(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(t, nil)

	var calls atomic.Int64
	generate := Memoize(reg, MemoOptions[string, string]{
		Cache:     "sql_cache",
		KeyPrefix: "sql",
		KeyFn:     queryKey,
	}, func(_ context.Context, q string) (string, error) {
		calls.Add(1)
		return "SELECT * FROM users", nil
	})

	first, err := generate(ctx, "show me all users")
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := generate(ctx, "show me all users")
	if err != nil {
		t.Fatalf("second call: %v", err)
	}

	if first != second {
		t.Fatalf("results differ: %q vs %q", first, second)
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("fn invocations: got %d want 1", n)
	}
}

// Normalization folds case and whitespace into one key.
func TestMemoizeNormalizedVariantsShareEntry(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(t, nil)

	var calls atomic.Int64
	generate := Memoize(reg, MemoOptions[string, string]{
		Cache:     "sql_cache",
		KeyPrefix: "sql",
		KeyFn:     queryKey,
	}, func(_ context.Context, q string) (string, error) {
		calls.Add(1)
		return "result", nil
	})

	if _, err := generate(ctx, "  Find  Users "); err != nil {
		t.Fatalf("call: %v", err)
	}
	if _, err := generate(ctx, "find users"); err != nil {
		t.Fatalf("call: %v", err)
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("normalized variants should share one entry, got %d calls", n)
	}
}

func TestMemoizeDistinctArgsComputeSeparately(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(t, nil)

	var calls atomic.Int64
	generate := Memoize(reg, MemoOptions[string, string]{
		Cache:     "sql_cache",
		KeyPrefix: "sql",
		KeyFn:     queryKey,
	}, func(_ context.Context, q string) (string, error) {
		calls.Add(1)
		return "result for " + q, nil
	})

	_, _ = generate(ctx, "list orders")
	_, _ = generate(ctx, "list customers")
	if n := calls.Load(); n != 2 {
		t.Fatalf("distinct args should compute separately, got %d calls", n)
	}
}

// ==============================
// Conditional caching and errors
// ==============================

// A result rejected by Condition is recomputed on the next call.
func TestMemoizeConditionRejectsEmptyResult(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(t, nil)

	var calls atomic.Int64
	retrieve := Memoize(reg, MemoOptions[string, string]{
		Cache:     "dataset_info_cache",
		KeyPrefix: "info",
		KeyFn:     queryKey,
		Condition: func(r string) bool { return r != "" },
	}, func(_ context.Context, q string) (string, error) {
		calls.Add(1)
		return "", nil
	})

	_, _ = retrieve(ctx, "unknown table")
	_, _ = retrieve(ctx, "unknown table")
	if n := calls.Load(); n != 2 {
		t.Fatalf("empty result must not be cached, got %d calls", n)
	}
}

func TestMemoizeErrorsAreNeverCached(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(t, nil)

	boom := errors.New("upstream down")
	var calls atomic.Int64
	generate := Memoize(reg, MemoOptions[string, string]{
		Cache:     "sql_cache",
		KeyPrefix: "sql",
		KeyFn:     queryKey,
	}, func(_ context.Context, q string) (string, error) {
		if calls.Add(1) == 1 {
			return "", boom
		}
		return "recovered", nil
	})

	if _, err := generate(ctx, "q"); !errors.Is(err, boom) {
		t.Fatalf("first call should fail: %v", err)
	}
	r, err := generate(ctx, "q")
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if r != "recovered" {
		t.Fatalf("second call should recompute, got %q", r)
	}
	if n := calls.Load(); n != 2 {
		t.Fatalf("calls: got %d want 2", n)
	}
}

// ==============================
// Fail-open paths
// ==============================

// A key that cannot be derived runs the function uncached, every time.
func TestMemoizeFailsOpenOnKeyDerivation(t *testing.T) {
	ctx := context.Background()
	hooks := &recordingHooks{}
	reg := newTestRegistry(t, hooks)

	var calls atomic.Int64
	generate := Memoize(reg, MemoOptions[string, string]{
		Cache:     "sql_cache",
		KeyPrefix: "sql",
		KeyFn: func(string) cachekey.Params {
			return cachekey.Params{"bad": cachekey.Value{}}
		},
	}, func(_ context.Context, q string) (string, error) {
		calls.Add(1)
		return "ok", nil
	})

	for i := 0; i < 2; i++ {
		r, err := generate(ctx, "q")
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if r != "ok" {
			t.Fatalf("call %d: got %q", i, r)
		}
	}
	if n := calls.Load(); n != 2 {
		t.Fatalf("uncached calls: got %d want 2", n)
	}
	if hooks.keyErr != 2 {
		t.Fatalf("KeyDerivationFailed hook: got %d want 2", hooks.keyErr)
	}
}

// A cached value of the wrong dynamic type is treated as a miss.
func TestMemoizeWrongTypeIsMiss(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(t, nil)

	params := queryKey("q")
	key, err := cachekey.DeriveKey("sql", params)
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	c, err := reg.GetOrCreate("sql_cache", nil)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if err := c.Set(ctx, key, 12345, 0); err != nil { // int, not string
		t.Fatalf("Set: %v", err)
	}

	var calls atomic.Int64
	generate := Memoize(reg, MemoOptions[string, string]{
		Cache:     "sql_cache",
		KeyPrefix: "sql",
		KeyFn:     func(string) cachekey.Params { return params },
	}, func(_ context.Context, q string) (string, error) {
		calls.Add(1)
		return "fresh", nil
	})

	r, err := generate(ctx, "q")
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if r != "fresh" || calls.Load() != 1 {
		t.Fatalf("wrong-typed entry should recompute: r=%q calls=%d", r, calls.Load())
	}
}

// ==============================
// Single flight
// ==============================

func TestMemoizeSingleFlightCollapsesConcurrentMisses(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(t, nil)

	var calls atomic.Int64
	generate := Memoize(reg, MemoOptions[string, string]{
		Cache:        "sql_cache",
		KeyPrefix:    "sql",
		KeyFn:        queryKey,
		SingleFlight: true,
	}, func(_ context.Context, q string) (string, error) {
		calls.Add(1)
		time.Sleep(50 * time.Millisecond)
		return "shared", nil
	})

	const workers = 8
	results := make([]string, workers)

	var start, done sync.WaitGroup
	start.Add(1)
	done.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer done.Done()
			start.Wait()
			r, err := generate(ctx, "same query")
			if err != nil {
				t.Errorf("worker %d: %v", i, err)
				return
			}
			results[i] = r
		}(i)
	}
	start.Done()
	done.Wait()

	if n := calls.Load(); n != 1 {
		t.Fatalf("single flight should collapse to one invocation, got %d", n)
	}
	for i, r := range results {
		if r != "shared" {
			t.Fatalf("worker %d: got %q", i, r)
		}
	}
}

// ==============================
// Invalidation
// ==============================

func TestInvalidateAfterDeletesOneKey(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(t, nil)

	c, err := reg.GetOrCreate("schema_cache", nil)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	_ = c.Set(ctx, "schema:orders", "v1", 0)
	_ = c.Set(ctx, "schema:users", "v1", 0)

	update := InvalidateAfter(reg, InvalidateOptions[string]{
		Cache: "schema_cache",
		KeyFn: func(table string) string { return "schema:" + table },
	}, func(_ context.Context, table string) (string, error) {
		return "altered " + table, nil
	})

	if _, err := update(ctx, "orders"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, ok := c.Get(ctx, "schema:orders"); ok {
		t.Fatalf("stale entry should be gone")
	}
	if _, ok := c.Get(ctx, "schema:users"); !ok {
		t.Fatalf("unrelated entry should survive")
	}
}

func TestInvalidateAfterNilKeyFnClearsInstance(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(t, nil)

	c, err := reg.GetOrCreate("schema_cache", nil)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	_ = c.Set(ctx, "a", 1, 0)
	_ = c.Set(ctx, "b", 2, 0)

	migrate := InvalidateAfter(reg, InvalidateOptions[string]{
		Cache: "schema_cache",
	}, func(_ context.Context, ddl string) (string, error) {
		return "done", nil
	})

	if _, err := migrate(ctx, "drop table t"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("instance should be cleared")
	}
}

func TestInvalidateAfterSkipsOnError(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(t, nil)

	c, err := reg.GetOrCreate("schema_cache", nil)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	_ = c.Set(ctx, "a", 1, 0)

	boom := errors.New("migration failed")
	migrate := InvalidateAfter(reg, InvalidateOptions[string]{
		Cache: "schema_cache",
	}, func(_ context.Context, ddl string) (string, error) {
		return "", boom
	})

	if _, err := migrate(ctx, "ddl"); !errors.Is(err, boom) {
		t.Fatalf("error should propagate: %v", err)
	}
	if _, ok := c.Get(ctx, "a"); !ok {
		t.Fatalf("failed mutation must not invalidate")
	}
}
