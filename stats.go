package memocache

import "sync/atomic"

// Stats is a point-in-time snapshot of one cache's cumulative counters.
// Counters accumulate for the lifetime of the instance; Clear does not
// reset them, ResetStats does.
type Stats struct {
	Hits        uint64
	Misses      uint64
	Sets        uint64
	Evictions   uint64
	Expirations uint64
}

// Requests returns the total number of lookups.
func (s Stats) Requests() uint64 { return s.Hits + s.Misses }

// HitRate returns hits/(hits+misses), or 0 when there were no requests.
func (s Stats) HitRate() float64 {
	total := s.Requests()
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// counters is the live, atomically-updated backing for Stats.
type counters struct {
	hits        atomic.Uint64
	misses      atomic.Uint64
	sets        atomic.Uint64
	evictions   atomic.Uint64
	expirations atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Sets:        c.sets.Load(),
		Evictions:   c.evictions.Load(),
		Expirations: c.expirations.Load(),
	}
}

func (c *counters) reset() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.sets.Store(0)
	c.evictions.Store(0)
	c.expirations.Store(0)
}

// Summary aggregates statistics across every instance in a registry.
type Summary struct {
	Caches   int
	Entries  int // backends without a live count contribute nothing here
	Total    Stats
	PerCache map[string]Stats
}

// HitRate returns the aggregate hit rate across all caches.
func (s Summary) HitRate() float64 { return s.Total.HitRate() }
