package codec

import "encoding/json"

// JSON serializes values with encoding/json. Decode yields generic JSON
// shapes (map[string]any, []any, float64, ...), not the original Go type.
type JSON struct{}

func (JSON) Encode(v any) ([]byte, error) { return json.Marshal(v) }
func (JSON) Decode(b []byte) (any, error) {
	var v any
	err := json.Unmarshal(b, &v)
	return v, err
}
