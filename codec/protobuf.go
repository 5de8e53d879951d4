package codec

import "google.golang.org/protobuf/proto"

// Protobuf stores generated protobuf messages, e.g. responses of a gRPC
// flavoured remote source. ctor must return a fresh, empty message.
type Protobuf[T proto.Message] struct {
	new func() T
}

var _ Codec[proto.Message] = Protobuf[proto.Message]{}

// NewProtobuf returns a codec for messages of type T,
// e.g. NewProtobuf(func() *pb.Entry { return &pb.Entry{} }).
func NewProtobuf[T proto.Message](ctor func() T) Protobuf[T] {
	return Protobuf[T]{new: ctor}
}

// Encode uses deterministic marshaling so equal messages store equal bytes.
func (c Protobuf[T]) Encode(v T) ([]byte, error) {
	return proto.MarshalOptions{Deterministic: true}.Marshal(v)
}

// Decode fills a fresh message from ctor. Unknown fields are kept.
func (c Protobuf[T]) Decode(b []byte) (T, error) {
	m := c.new()
	err := proto.Unmarshal(b, m)
	return m, err
}
