package main

import (
	"fmt"
	"sort"

	"github.com/unkn0wn-root/callcache/codec"
)

// dynamic lets a typed codec decode into any; the tool never knows the
// value type an operation stored.
type dynamic[V any] struct{ c codec.Codec[V] }

func (d dynamic[V]) Encode(v any) ([]byte, error) {
	tv, ok := v.(V)
	if !ok {
		return nil, fmt.Errorf("codec: want %T, got %T", *new(V), v)
	}
	return d.c.Encode(tv)
}

func (d dynamic[V]) Decode(b []byte) (any, error) { return d.c.Decode(b) }

var codecs = map[string]codec.Codec[any]{
	"msgpack": codec.Msgpack[any]{},
	"cbor":    codec.MustCBOR[any](false),
	"json":    codec.JSON[any]{},
	"string":  dynamic[string]{codec.String{}},
	"bytes":   dynamic[[]byte]{codec.Bytes{}},
}

func codecNames() []string {
	out := make([]string, 0, len(codecs))
	for n := range codecs {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func codecByName(name string) (codec.Codec[any], error) {
	c, ok := codecs[name]
	if !ok {
		return nil, fmt.Errorf("unknown codec %q (want one of %v)", name, codecNames())
	}
	return c, nil
}
