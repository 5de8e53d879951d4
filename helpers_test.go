package callcache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	pr "github.com/unkn0wn-root/callcache/provider"
)

// memProvider is a byte store that also counts sessions.
type memProvider struct {
	mu sync.Mutex
	m  map[string][]byte

	opened  atomic.Int64
	closed  atomic.Int64
	sets    atomic.Int64
	openErr error
	setErr  error
	delErr  error
	closeEr error
}

var (
	_ pr.Provider = (*memProvider)(nil)
	_ pr.Opener   = (*memProvider)(nil)
)

func newMemProvider() *memProvider { return &memProvider{m: make(map[string][]byte)} }

func (p *memProvider) Open(context.Context) (pr.Provider, error) {
	if p.openErr != nil {
		return nil, p.openErr
	}
	p.opened.Add(1)
	return p, nil
}

func (p *memProvider) Get(_ context.Context, key string) ([]byte, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.m[key]
	return v, ok, nil
}

func (p *memProvider) Set(_ context.Context, key string, value []byte) error {
	if p.setErr != nil {
		return p.setErr
	}
	p.mu.Lock()
	p.m[key] = append([]byte(nil), value...)
	p.mu.Unlock()
	p.sets.Add(1)
	return nil
}

func (p *memProvider) Del(_ context.Context, key string) error {
	if p.delErr != nil {
		return p.delErr
	}
	p.mu.Lock()
	delete(p.m, key)
	p.mu.Unlock()
	return nil
}

func (p *memProvider) Keys(context.Context) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.m))
	for k := range p.m {
		out = append(out, k)
	}
	return out, nil
}

func (p *memProvider) Close(context.Context) error {
	p.closed.Add(1)
	return p.closeEr
}

func (p *memProvider) put(key string, raw []byte) {
	p.mu.Lock()
	p.m[key] = raw
	p.mu.Unlock()
}

func (p *memProvider) has(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.m[key]
	return ok
}

// counter wraps a result function and counts invocations.
type counter[V any] struct {
	calls atomic.Int64
	f     func(args []any) (V, error)
}

func (c *counter[V]) Func() Func[V] {
	return func(_ context.Context, args ...any) (V, error) {
		c.calls.Add(1)
		return c.f(args)
	}
}

func (c *counter[V]) n() int64 { return c.calls.Load() }

// fakeClock is a settable Clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{now: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// recHooks records hook events in order.
type recHooks struct {
	mu     sync.Mutex
	events []string
}

func (h *recHooks) add(s string) {
	h.mu.Lock()
	h.events = append(h.events, s)
	h.mu.Unlock()
}

func (h *recHooks) Hit(k string)               { h.add("hit:" + k) }
func (h *recHooks) Miss(k string)              { h.add("miss:" + k) }
func (h *recHooks) Stale(k, r string)          { h.add("stale:" + r + ":" + k) }
func (h *recHooks) Stored(k string)            { h.add("stored:" + k) }
func (h *recHooks) Invalidated(p string, _ int) { h.add("invalidated:" + p) }

func (h *recHooks) has(s string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, e := range h.events {
		if e == s {
			return true
		}
	}
	return false
}

func mustMemo[V any](t *testing.T, opts Options[V]) Memo[V] {
	t.Helper()
	m, err := New[V](opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

var tBase = time.Date(2024, time.March, 10, 15, 30, 0, 0, time.FixedZone("CET", 3600))
