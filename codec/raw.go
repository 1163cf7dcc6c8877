package codec

import "fmt"

// Bytes is an identity codec for []byte values. Encode returns the input
// unchanged and errors for any other value type.
type Bytes struct{}

func (Bytes) Encode(v any) ([]byte, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("codec: Bytes cannot encode %T", v)
	}
	return b, nil
}
func (Bytes) Decode(b []byte) (any, error) { return b, nil }

// String is a trivial codec for Go string values. By convention this
// assumes UTF-8 and performs no validation. It is lossless: Decode always
// returns a string.
type String struct{}

func (String) Encode(v any) ([]byte, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("codec: String cannot encode %T", v)
	}
	return []byte(s), nil
}
func (String) Decode(b []byte) (any, error) { return string(b), nil }
