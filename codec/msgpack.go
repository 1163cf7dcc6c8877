package codec

import "github.com/vmihailenco/msgpack/v5"

// Msgpack serializes values using vmihailenco/msgpack/v5.
// The zero value is ready to use.
//
// Msgpack is compact and fast; like JSON, Decode returns generic shapes
// rather than the original Go struct types.
type Msgpack struct{}

func (Msgpack) Encode(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}
func (Msgpack) Decode(b []byte) (any, error) {
	var v any
	err := msgpack.Unmarshal(b, &v)
	return v, err
}
