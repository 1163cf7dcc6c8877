package memocache

import "fmt"

// ConfigError reports an invalid cache configuration at instance creation.
// It is fatal to that GetOrCreate call and leaves the registry unchanged.
type ConfigError struct {
	Cache  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("memocache: cache %q: invalid config: %s", e.Cache, e.Reason)
}

// SerializationError reports a value the chosen backend cannot store.
// The cache is left unchanged (no partial writes).
type SerializationError struct {
	Cache string
	Key   string
	Err   error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("memocache: cache %q: set %q: cannot serialize value: %v", e.Cache, e.Key, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }
