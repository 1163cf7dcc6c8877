package memocache

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The cache calls them on hot paths.
type Hooks interface {
	// A live entry was pushed out by capacity.
	EntryEvicted(cache, key string)

	// An expired entry was removed (lazily on read, while making room,
	// or by a background sweep).
	EntryExpired(cache, key string)

	// The backend refused a write under pressure (admission policy).
	// Not an error; the entry is simply absent.
	SetRejected(cache, key string)

	// A value could not be serialized for a byte-backed store.
	EncodeError(cache, key string, err error)

	// A memoized call could not derive its cache key; the wrapped
	// function ran uncached (fail-open).
	KeyDerivationFailed(prefix string, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) EntryEvicted(string, string)       {}
func (NopHooks) EntryExpired(string, string)       {}
func (NopHooks) SetRejected(string, string)        {}
func (NopHooks) EncodeError(string, string, error) {}
func (NopHooks) KeyDerivationFailed(string, error) {}
