// Package codec provides value (de)serialization for byte-backed stores.
//
// In-process stores hold values directly and never touch a Codec; only
// backends that persist raw bytes (e.g. BigCache) need one. Note that a
// round trip through a Codec may not preserve the concrete Go type of the
// value: JSON decodes objects to map[string]any, Msgpack to
// map[string]any / []any, and so on. String is lossless for string values
// and is the usual choice when caching retrieved schema text or generated
// SQL.
package codec

// Codec encodes/decodes cache values to []byte for storage.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(b []byte) (any, error)
}
