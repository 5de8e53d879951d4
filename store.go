package callcache

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	c "github.com/unkn0wn-root/callcache/codec"
	"github.com/unkn0wn-root/callcache/internal/wire"
	pr "github.com/unkn0wn-root/callcache/provider"
)

// Store is an open storage session for entries of type V.
type Store[V any] interface {
	// Get returns ErrNotFound when key is absent and an error matching
	// ErrCorrupt when the stored data cannot be read back as Entry[V].
	Get(ctx context.Context, key string) (Entry[V], error)
	Set(ctx context.Context, key string, e Entry[V]) error
	// Delete is a no-op for absent keys.
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Close(ctx context.Context) error
}

// Backend opens Store sessions. Memo opens one per operation and closes it
// before returning.
type Backend[V any] interface {
	Open(ctx context.Context) (Store[V], error)
}

// ==============================
// Volatile (by reference)
// ==============================

// MemoryStore is a process-lifetime map of entries. It is untyped so several
// operations with different value types can share one; each reads it through
// Volatile[V]. Values are kept by reference, not copied.
type MemoryStore struct {
	mu sync.RWMutex
	m  map[string]any
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[string]any)}
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

// Clear drops every entry.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	s.m = make(map[string]any)
	s.mu.Unlock()
}

func (s *MemoryStore) load(key string) (any, bool) {
	s.mu.RLock()
	v, ok := s.m[key]
	s.mu.RUnlock()
	return v, ok
}

func (s *MemoryStore) store(key string, v any) {
	s.mu.Lock()
	s.m[key] = v
	s.mu.Unlock()
}

func (s *MemoryStore) remove(key string) {
	s.mu.Lock()
	delete(s.m, key)
	s.mu.Unlock()
}

func (s *MemoryStore) keys() []string {
	s.mu.RLock()
	out := make([]string, 0, len(s.m))
	for k := range s.m {
		out = append(out, k)
	}
	s.mu.RUnlock()
	sort.Strings(out)
	return out
}

type volatile[V any] struct{ s *MemoryStore }

// Volatile views s as a Backend[V]. A nil s gets a fresh private store.
func Volatile[V any](s *MemoryStore) Backend[V] {
	if s == nil {
		s = NewMemoryStore()
	}
	return volatile[V]{s: s}
}

func (b volatile[V]) Open(context.Context) (Store[V], error) { return b, nil }

func (b volatile[V]) Get(_ context.Context, key string) (Entry[V], error) {
	v, ok := b.s.load(key)
	if !ok {
		return Entry[V]{}, ErrNotFound
	}
	e, ok := v.(Entry[V])
	if !ok {
		return Entry[V]{}, fmt.Errorf("%w: %q holds %T", ErrCorrupt, key, v)
	}
	return e, nil
}

func (b volatile[V]) Set(_ context.Context, key string, e Entry[V]) error {
	b.s.store(key, e)
	return nil
}

func (b volatile[V]) Delete(_ context.Context, key string) error {
	b.s.remove(key)
	return nil
}

func (b volatile[V]) Keys(context.Context) ([]string, error) { return b.s.keys(), nil }

func (b volatile[V]) Close(context.Context) error { return nil }

// ==============================
// Serialized (provider + codec)
// ==============================

type serialized[V any] struct {
	opener pr.Opener
	codec  c.Codec[V]
}

// Serialized stores entries as wire envelopes around codec payloads on a
// byte provider. A nil codec means msgpack.
func Serialized[V any](o pr.Opener, codec c.Codec[V]) Backend[V] {
	if codec == nil {
		codec = c.Default[V]()
	}
	return serialized[V]{opener: o, codec: codec}
}

func (b serialized[V]) Open(ctx context.Context) (Store[V], error) {
	p, err := b.opener.Open(ctx)
	if err != nil {
		return nil, err
	}
	return &serialSession[V]{p: p, codec: b.codec}, nil
}

type serialSession[V any] struct {
	p     pr.Provider
	codec c.Codec[V]
}

func (s *serialSession[V]) Get(ctx context.Context, key string) (Entry[V], error) {
	raw, ok, err := s.p.Get(ctx, key)
	if err != nil {
		return Entry[V]{}, err
	}
	if !ok {
		return Entry[V]{}, ErrNotFound
	}
	h, payload, err := wire.DecodeEntry(raw)
	if err != nil {
		return Entry[V]{}, fmt.Errorf("%w: %q", err, key)
	}
	v, err := s.codec.Decode(payload)
	if err != nil {
		return Entry[V]{}, fmt.Errorf("%w: %q: decode value: %v", ErrCorrupt, key, err)
	}
	return Entry[V]{Value: v, CreatedAt: stampFromHeader(h), ExpiresAt: expiryFromHeader(h)}, nil
}

func (s *serialSession[V]) Set(ctx context.Context, key string, e Entry[V]) error {
	payload, err := s.codec.Encode(e.Value)
	if err != nil {
		return fmt.Errorf("callcache: encode %q: %w", key, err)
	}
	return s.p.Set(ctx, key, wire.EncodeEntry(headerOf(e), payload))
}

func (s *serialSession[V]) Delete(ctx context.Context, key string) error {
	return s.p.Del(ctx, key)
}

func (s *serialSession[V]) Keys(ctx context.Context) ([]string, error) {
	return s.p.Keys(ctx)
}

func (s *serialSession[V]) Close(ctx context.Context) error {
	return s.p.Close(ctx)
}

func headerOf[V any](e Entry[V]) wire.Header {
	var h wire.Header
	if !e.CreatedAt.IsZero() {
		h.HasCreated = true
		h.DateOnly = e.CreatedAt.DateOnly()
		h.Created = e.CreatedAt.Time().UnixNano()
	}
	if !e.ExpiresAt.IsZero() {
		h.HasExpires = true
		h.Expires = e.ExpiresAt.UnixNano()
	}
	return h
}

func stampFromHeader(h wire.Header) Stamp {
	if !h.HasCreated {
		return Stamp{}
	}
	t := time.Unix(0, h.Created)
	if h.DateOnly {
		return DateOf(t.UTC())
	}
	return At(t)
}

func expiryFromHeader(h wire.Header) time.Time {
	if !h.HasExpires {
		return time.Time{}
	}
	return time.Unix(0, h.Expires)
}
