package memocache

import (
	"context"
	"sort"
	"sync"
)

// RegistryOptions tune a Registry. The zero value is usable: NopLogger,
// NopHooks and the built-in defaults table.
type RegistryOptions struct {
	Logger Logger
	Hooks  Hooks

	// Defaults maps cache names to the configuration used when
	// GetOrCreate is called without an explicit config. Nil means
	// BuiltinDefaults(). Names absent from the table fall back to
	// FallbackConfig().
	Defaults map[string]Config
}

// Registry is the process-wide access point for named cache instances.
// It is an explicit handle: construct one and pass it to the components
// that need caching instead of reaching for a hidden global. Instances
// are created lazily on first reference and live until ClearAll/Close or
// process exit; nothing is persisted.
type Registry struct {
	mu        sync.Mutex
	instances map[string]*Cache
	defaults  map[string]Config
	log       Logger
	hooks     Hooks
}

func NewRegistry(opts RegistryOptions) *Registry {
	defaults := opts.Defaults
	if defaults == nil {
		defaults = BuiltinDefaults()
	}
	return &Registry{
		instances: make(map[string]*Cache),
		defaults:  defaults,
		log:       coalesce[Logger](opts.Logger, NopLogger{}),
		hooks:     coalesce[Hooks](opts.Hooks, NopHooks{}),
	}
}

// GetOrCreate returns the instance bound to name, creating it on first
// reference. Once a name is bound its configuration is fixed: later calls
// return the existing instance and ignore cfg (first caller wins).
// Creation is idempotent under concurrent calls for the same unseen name.
//
// Config resolution for a new name: explicit cfg if non-nil, else the
// defaults table, else FallbackConfig. An invalid config returns
// *ConfigError and leaves the registry unchanged.
func (r *Registry) GetOrCreate(name string, cfg *Config) (*Cache, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.instances[name]; ok {
		return c, nil
	}

	resolved := r.resolveLocked(name, cfg)
	c, err := NewCache(name, resolved, r.log, r.hooks)
	if err != nil {
		return nil, err
	}
	r.instances[name] = c
	return c, nil
}

func (r *Registry) resolveLocked(name string, cfg *Config) Config {
	if cfg != nil {
		return *cfg
	}
	if def, ok := r.defaults[name]; ok {
		return def
	}
	return FallbackConfig()
}

// SetDefault installs (or replaces) the defaults-table entry for name.
// Only instances created after the update see it; a live instance keeps
// the configuration it was created with.
func (r *Registry) SetDefault(name string, cfg Config) {
	r.mu.Lock()
	r.defaults[name] = cfg
	r.mu.Unlock()
	r.log.Info("cache default updated", Fields{"cache": name})
}

// ListNames returns the names of all live instances, sorted.
func (r *Registry) ListNames() []string {
	r.mu.Lock()
	names := make([]string, 0, len(r.instances))
	for name := range r.instances {
		names = append(names, name)
	}
	r.mu.Unlock()

	sort.Strings(names)
	return names
}

// Summary aggregates statistics across all live instances.
func (r *Registry) Summary() Summary {
	caches := r.snapshotInstances()

	sum := Summary{PerCache: make(map[string]Stats, len(caches))}
	for _, c := range caches {
		st := c.Stats()
		sum.Caches++
		if n := c.Len(); n > 0 {
			sum.Entries += n
		}
		sum.Total.Hits += st.Hits
		sum.Total.Misses += st.Misses
		sum.Total.Sets += st.Sets
		sum.Total.Evictions += st.Evictions
		sum.Total.Expirations += st.Expirations
		sum.PerCache[c.Name()] = st
	}
	return sum
}

// ClearAll empties every live instance. Statistics are preserved.
func (r *Registry) ClearAll(ctx context.Context) error {
	var firstErr error
	for _, c := range r.snapshotInstances() {
		if err := c.Clear(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ResetAllStats zeroes the counters of every live instance.
func (r *Registry) ResetAllStats() {
	for _, c := range r.snapshotInstances() {
		c.ResetStats()
	}
}

// Close closes every instance and empties the registry.
func (r *Registry) Close(ctx context.Context) error {
	r.mu.Lock()
	caches := make([]*Cache, 0, len(r.instances))
	for _, c := range r.instances {
		caches = append(caches, c)
	}
	r.instances = make(map[string]*Cache)
	r.mu.Unlock()

	var firstErr error
	for _, c := range caches {
		if err := c.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// snapshotInstances copies the instance list so per-cache work runs
// outside the registry lock.
func (r *Registry) snapshotInstances() []*Cache {
	r.mu.Lock()
	caches := make([]*Cache, 0, len(r.instances))
	for _, c := range r.instances {
		caches = append(caches, c)
	}
	r.mu.Unlock()
	return caches
}
