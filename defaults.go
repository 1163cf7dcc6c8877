package memocache

import "time"

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

// FallbackConfig is used when a cache name has no entry in the defaults
// table and the caller supplied no config.
func FallbackConfig() Config {
	return Config{Backend: BackendLRU, MaxSize: 100, TTL: time.Hour}
}

// BuiltinDefaults is the defaults table for the caches this layer was
// built around. Callers can extend or override it via RegistryOptions and
// Registry.SetDefault.
func BuiltinDefaults() map[string]Config {
	return map[string]Config{
		// Schema retrieval results per (dataset, normalized query).
		"schema_cache": {Backend: BackendLRU, MaxSize: 100, TTL: time.Hour},
		// Generated SQL per (dialect, normalized query).
		"sql_cache": {Backend: BackendLRU, MaxSize: 50, TTL: 2 * time.Hour},
		// Rendered prompt templates.
		"prompt_cache": {Backend: BackendLRU, MaxSize: 20, TTL: 24 * time.Hour},
		// Dataset metadata from the knowledge base.
		"dataset_info_cache": {Backend: BackendLRU, MaxSize: 50, TTL: time.Hour},
	}
}
