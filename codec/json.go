package codec

import "encoding/json"

// JSON serializes values with encoding/json. Maps decode as map[string]any,
// so prefer Msgpack or CBOR when the payload type must round-trip exactly.
type JSON[V any] struct{}

var _ Codec[struct{}] = JSON[struct{}]{}

func (JSON[V]) Encode(v V) ([]byte, error) { return json.Marshal(v) }

// Decode into V = any yields map[string]any, []any and float64 for numbers.
func (JSON[V]) Decode(b []byte) (V, error) {
	var v V
	err := json.Unmarshal(b, &v)
	return v, err
}
