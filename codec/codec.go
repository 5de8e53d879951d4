// Package codec holds the value serializers used by persistent backends.
//
// A codec only sees the wrapped call's return value. The entry timestamps are
// framed separately by the store, so any codec here can back any backend.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

// Default is the codec persistent bindings use when none is given.
func Default[V any]() Codec[V] { return Msgpack[V]{} }
