package lru

import (
	"context"
	"testing"
	"time"
)

func newStore(t *testing.T, cfg Config) *Store {
	t.Helper()
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestNewRejectsInvalidCapacity(t *testing.T) {
	for _, size := range []int{0, -1} {
		if _, err := New(Config{MaxSize: size}); err == nil {
			t.Fatalf("MaxSize=%d should be rejected", size)
		}
	}
}

// ==============================
// Capacity / recency
// ==============================

// put A, put B, put C on a 2-entry store: A is evicted, B and C remain.
func TestEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, Config{MaxSize: 2})

	for _, k := range []string{"A", "B"} {
		if ev, err := s.Put(ctx, k, k, 0); err != nil || ev {
			t.Fatalf("Put(%s): evicted=%v err=%v", k, ev, err)
		}
	}
	ev, err := s.Put(ctx, "C", "C", 0)
	if err != nil {
		t.Fatalf("Put(C): %v", err)
	}
	if !ev {
		t.Fatalf("inserting C at capacity should report an eviction")
	}

	if _, ok := s.Get(ctx, "A"); ok {
		t.Fatalf("A should have been evicted")
	}
	for _, k := range []string{"B", "C"} {
		if _, ok := s.Get(ctx, k); !ok {
			t.Fatalf("%s should still be present", k)
		}
	}
}

// A read refreshes recency: put A, put B, get A, put C evicts B, not A.
func TestGetRefreshesRecency(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, Config{MaxSize: 2})

	_, _ = s.Put(ctx, "A", 1, 0)
	_, _ = s.Put(ctx, "B", 2, 0)
	if _, ok := s.Get(ctx, "A"); !ok {
		t.Fatalf("expected hit on A")
	}
	_, _ = s.Put(ctx, "C", 3, 0)

	if _, ok := s.Get(ctx, "B"); ok {
		t.Fatalf("B should have been evicted")
	}
	if v, ok := s.Get(ctx, "A"); !ok || v.(int) != 1 {
		t.Fatalf("A should survive, got %v ok=%v", v, ok)
	}
}

// Overwriting an existing key must not evict and must refresh recency.
func TestPutOverwriteRefreshes(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, Config{MaxSize: 2})

	_, _ = s.Put(ctx, "A", 1, 0)
	_, _ = s.Put(ctx, "B", 2, 0)
	if ev, err := s.Put(ctx, "A", 10, 0); err != nil || ev {
		t.Fatalf("overwrite should not evict: evicted=%v err=%v", ev, err)
	}
	_, _ = s.Put(ctx, "C", 3, 0) // B is now LRU

	if _, ok := s.Get(ctx, "B"); ok {
		t.Fatalf("B should have been evicted after A was refreshed")
	}
	if v, ok := s.Get(ctx, "A"); !ok || v.(int) != 10 {
		t.Fatalf("A should hold the new value, got %v ok=%v", v, ok)
	}
}

// ==============================
// TTL expiry
// ==============================

func TestTTLExpiry(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, Config{MaxSize: 4})

	_, _ = s.Put(ctx, "A", "v", 50*time.Millisecond)

	if _, ok := s.Get(ctx, "A"); !ok {
		t.Fatalf("A should hit before expiry")
	}
	time.Sleep(80 * time.Millisecond)
	if _, ok := s.Get(ctx, "A"); ok {
		t.Fatalf("A should miss after expiry")
	}
	if s.Len() != 0 {
		t.Fatalf("expired entry should be removed lazily, len=%d", s.Len())
	}
}

func TestDefaultTTLAndOverride(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, Config{MaxSize: 4, DefaultTTL: 40 * time.Millisecond})

	_, _ = s.Put(ctx, "short", 1, 0)          // inherits default
	_, _ = s.Put(ctx, "long", 2, time.Minute) // explicit override
	_, _ = s.Put(ctx, "forever", 3, -1)       // NoExpiration

	time.Sleep(70 * time.Millisecond)

	if _, ok := s.Get(ctx, "short"); ok {
		t.Fatalf("entry with default TTL should have expired")
	}
	if _, ok := s.Get(ctx, "long"); !ok {
		t.Fatalf("override TTL should still be alive")
	}
	if _, ok := s.Get(ctx, "forever"); !ok {
		t.Fatalf("NoExpiration entry should still be alive")
	}
}

// An expired LRU entry removed while making room counts as expiry, not a
// capacity eviction.
func TestExpiredTailNotCountedAsEviction(t *testing.T) {
	ctx := context.Background()

	var evicted, expirals []string
	s := newStore(t, Config{
		MaxSize:  2,
		OnEvict:  func(k string) { evicted = append(evicted, k) },
		OnExpire: func(k string) { expirals = append(expirals, k) },
	})

	_, _ = s.Put(ctx, "old", 1, 30*time.Millisecond)
	_, _ = s.Put(ctx, "live", 2, 0)
	time.Sleep(50 * time.Millisecond)

	ev, err := s.Put(ctx, "new", 3, 0)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if ev {
		t.Fatalf("removing the expired tail must not report an eviction")
	}
	if len(evicted) != 0 {
		t.Fatalf("OnEvict fired for expired tail: %v", evicted)
	}
	if len(expirals) != 1 || expirals[0] != "old" {
		t.Fatalf("OnExpire should fire once for 'old', got %v", expirals)
	}
}

// ==============================
// Sweep / delete / clear
// ==============================

func TestSweepRemovesExpired(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, Config{MaxSize: 8})

	_, _ = s.Put(ctx, "a", 1, 20*time.Millisecond)
	_, _ = s.Put(ctx, "b", 2, 20*time.Millisecond)
	_, _ = s.Put(ctx, "c", 3, 0)
	time.Sleep(40 * time.Millisecond)

	if n := s.Sweep(); n != 2 {
		t.Fatalf("Sweep removed %d entries, want 2", n)
	}
	if s.Len() != 1 {
		t.Fatalf("len=%d after sweep, want 1", s.Len())
	}
}

func TestBackgroundSweep(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, Config{MaxSize: 8, SweepInterval: 20 * time.Millisecond})

	_, _ = s.Put(ctx, "a", 1, 10*time.Millisecond)
	time.Sleep(80 * time.Millisecond)

	// Entry removed without any Get touching it.
	if s.Len() != 0 {
		t.Fatalf("background sweep did not run, len=%d", s.Len())
	}
}

func TestDeleteAndClear(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, Config{MaxSize: 4})

	_, _ = s.Put(ctx, "a", 1, 0)
	_, _ = s.Put(ctx, "b", 2, 0)

	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "missing"); err != nil {
		t.Fatalf("Delete absent key should not error: %v", err)
	}
	if _, ok := s.Get(ctx, "a"); ok {
		t.Fatalf("a should be gone")
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("Clear should empty the store, len=%d", s.Len())
	}
}
