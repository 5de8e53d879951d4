package callcache

import (
	"fmt"
	"sync"

	c "github.com/unkn0wn-root/callcache/codec"
	pr "github.com/unkn0wn-root/callcache/provider"
)

// ScopeOptions describe what a host (an API client, typically) shares with
// the operations bound to it.
type ScopeOptions struct {
	// Provider is the shared byte store. nil => a private MemoryStore,
	// created on first Bind and owned by the Scope.
	Provider pr.Opener

	// LastModified is the host's change signal. Only operations bound with
	// UsesLastModified consult it.
	LastModified LastModifiedFunc

	Policy Policy
	Logger Logger
	Hooks  Hooks
	Clock  Clock
}

// Scope binds cached operations to one host. Each name is bound once; later
// Binds of the same name return the same Memo.
type Scope struct {
	opts ScopeOptions

	mu     sync.Mutex
	memory *MemoryStore
	bound  map[string]any
}

func NewScope(opts ScopeOptions) *Scope {
	return &Scope{opts: opts, bound: make(map[string]any)}
}

// Persistent reports whether bound operations share a provider.
func (s *Scope) Persistent() bool { return s.opts.Provider != nil }

// Memory returns the scope's private store, creating it on first use.
// It stays unused when the scope has a Provider.
func (s *Scope) Memory() *MemoryStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memoryLocked()
}

func (s *Scope) memoryLocked() *MemoryStore {
	if s.memory == nil {
		s.memory = NewMemoryStore()
	}
	return s.memory
}

// BindOptions are per-operation settings for Bind.
type BindOptions[V any] struct {
	Codec            c.Codec[V] // persistent scopes only; nil => msgpack
	UsesLastModified bool
	MinTimestamp     MinTimestampFunc
}

// Bind returns the cached form of fn under name within s.
func Bind[V any](s *Scope, name string, fn Func[V], opts BindOptions[V]) (Memo[V], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.bound[name]; ok {
		m, ok := b.(Memo[V])
		if !ok {
			return nil, fmt.Errorf("%w: %s is %T", ErrBindType, name, b)
		}
		return m, nil
	}

	var backend Backend[V]
	if s.opts.Provider != nil {
		backend = Serialized[V](s.opts.Provider, opts.Codec)
	} else {
		backend = Volatile[V](s.memoryLocked())
	}

	var lm LastModifiedFunc
	if opts.UsesLastModified {
		lm = s.opts.LastModified
	}

	m, err := New[V](Options[V]{
		Name:         name,
		Func:         fn,
		Backend:      backend,
		Policy:       s.opts.Policy,
		LastModified: lm,
		MinTimestamp: opts.MinTimestamp,
		Logger:       s.opts.Logger,
		Hooks:        s.opts.Hooks,
		Clock:        s.opts.Clock,
	})
	if err != nil {
		return nil, err
	}
	s.bound[name] = m
	return m, nil
}
