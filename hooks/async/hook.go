// Package asynchook runs another Hooks implementation off the call path.
// Events are dropped when the queue is full.
//
// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{HitEvery: 10})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	m, _ := callcache.New[Gene](callcache.Options[Gene]{
//	    Name:  "get",
//	    Func:  fetchGene,
//	    Hooks: hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/callcache"
)

type Hooks struct {
	inner   callcache.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Uint64
}

var _ callcache.Hooks = (*Hooks)(nil)

func New(inner callcache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers. Events after Close are dropped.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		close(h.q)
		h.mu.Unlock()
		h.wg.Wait()
	})
}

// Dropped reports how many events were discarded.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.dropped.Add(1)
		return
	}
	select {
	case h.q <- f:
	default: // drop
		h.dropped.Add(1)
	}
}

func (h *Hooks) Hit(k string)      { h.try(func() { h.inner.Hit(k) }) }
func (h *Hooks) Miss(k string)     { h.try(func() { h.inner.Miss(k) }) }
func (h *Hooks) Stale(k, r string) { h.try(func() { h.inner.Stale(k, r) }) }
func (h *Hooks) Stored(k string)   { h.try(func() { h.inner.Stored(k) }) }
func (h *Hooks) Invalidated(p string, n int) {
	h.try(func() { h.inner.Invalidated(p, n) })
}
