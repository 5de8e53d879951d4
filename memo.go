package callcache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/unkn0wn-root/callcache/internal/util"
)

var epoch = time.Unix(0, 0)

type memo[V any] struct {
	name         string
	fn           Func[V]
	backend      Backend[V]
	policy       Policy
	lastModified LastModifiedFunc
	minTimestamp MinTimestampFunc
	log          Logger
	hooks        Hooks
	clock        Clock
}

var _ Memo[struct{}] = (*memo[struct{}])(nil)

func newMemo[V any](opts Options[V]) (*memo[V], error) {
	if opts.Func == nil {
		return nil, fmt.Errorf("callcache: func is required")
	}
	if opts.Name == "" {
		return nil, fmt.Errorf("callcache: name is required")
	}
	if !util.ValidName(opts.Name) {
		return nil, fmt.Errorf("callcache: invalid name %q: parentheses are reserved for keys", opts.Name)
	}

	m := &memo[V]{
		name:         opts.Name,
		fn:           opts.Func,
		backend:      opts.Backend,
		policy:       opts.Policy,
		lastModified: opts.LastModified,
		minTimestamp: opts.MinTimestamp,
	}
	if m.backend == nil {
		m.backend = Volatile[V](nil)
	}
	m.log = coalesce[Logger](opts.Logger, NopLogger{})
	m.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	m.clock = coalesce[Clock](opts.Clock, realClock{})
	return m, nil
}

func (m *memo[V]) Name() string { return m.name }

func (m *memo[V]) KeyFromArgs(args ...any) string { return util.Key(m.name, args) }

func (m *memo[V]) MinTimestamp(args ...any) time.Time {
	if m.minTimestamp == nil {
		return epoch
	}
	return m.minTimestamp(args)
}

// open runs f on a fresh session and always closes it. A close error is
// reported only if f succeeded.
func (m *memo[V]) open(ctx context.Context, f func(Store[V]) error) (err error) {
	st, err := m.backend.Open(ctx)
	if err != nil {
		m.log.Error("backend open failed", Fields{"op": m.name, "err": err})
		return fmt.Errorf("callcache: open backend for %s: %w", m.name, err)
	}
	defer func() {
		if cerr := st.Close(ctx); cerr != nil && err == nil {
			err = fmt.Errorf("callcache: close backend for %s: %w", m.name, cerr)
		}
	}()
	return f(st)
}

func (m *memo[V]) Call(ctx context.Context, args ...any) (V, error) {
	key := m.KeyFromArgs(args...)
	var out V
	err := m.open(ctx, func(st Store[V]) error {
		e, err := st.Get(ctx, key)
		switch {
		case err == nil:
			v, err := m.verdict(ctx, e, args)
			if err != nil {
				return err
			}
			if v.Valid {
				m.hooks.Hit(key)
				out = e.Value
				return nil
			}
			m.hooks.Stale(key, v.Reason)
			m.log.Debug("stale entry", Fields{"key": key, "reason": v.Reason, "created": e.CreatedAt.String()})
		case errors.Is(err, ErrNotFound):
			m.hooks.Miss(key)
			m.log.Debug("cache miss", Fields{"key": key})
		case errors.Is(err, ErrCorrupt):
			m.hooks.Stale(key, "corrupt")
			m.log.Warn("unreadable entry, recomputing", Fields{"key": key, "err": err})
		default:
			m.log.Error("backend read failed", Fields{"key": key, "err": err})
			return err
		}

		v, err := m.fn(ctx, args...)
		if err != nil {
			return err
		}
		if err := st.Set(ctx, key, Entry[V]{Value: v, CreatedAt: At(m.clock.Now())}); err != nil {
			m.log.Error("backend write failed", Fields{"key": key, "err": err})
			return err
		}
		m.hooks.Stored(key)
		out = v
		return nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return out, nil
}

func (m *memo[V]) Memoize(ctx context.Context, value V, at Stamp, args ...any) error {
	if at.IsZero() {
		at = At(m.clock.Now())
	}
	key := m.KeyFromArgs(args...)
	return m.open(ctx, func(st Store[V]) error {
		if err := st.Set(ctx, key, Entry[V]{Value: value, CreatedAt: at}); err != nil {
			return err
		}
		m.hooks.Stored(key)
		return nil
	})
}

func (m *memo[V]) IsEntryValid(ctx context.Context, e Entry[V], args ...any) (bool, error) {
	v, err := m.verdict(ctx, e, args)
	return v.Valid, err
}

func (m *memo[V]) verdict(ctx context.Context, e Entry[V], args []any) (Verdict, error) {
	now := m.clock.Now()
	floor := m.MinTimestamp(args...)

	// cheap checks first so a broken entry never costs a remote round-trip
	if _, ok := e.CreatedAt.Resolve(now.Location()); !ok {
		return invalid(ReasonNoTimestamp), nil
	}

	var lm Stamp
	if m.lastModified != nil {
		var err error
		lm, err = m.lastModified(ctx, args)
		if err != nil {
			return Verdict{}, fmt.Errorf("callcache: last modified for %s: %w", m.name, err)
		}
	}
	return m.policy.Check(now, e.CreatedAt, floor, lm), nil
}

func (m *memo[V]) HasKey(ctx context.Context, key string) (bool, error) {
	var has bool
	err := m.open(ctx, func(st Store[V]) error {
		_, err := st.Get(ctx, key)
		switch {
		case err == nil, errors.Is(err, ErrCorrupt):
			has = true
		case errors.Is(err, ErrNotFound):
		default:
			return err
		}
		return nil
	})
	return has, err
}

func (m *memo[V]) InvalidateKey(ctx context.Context, key string) error {
	err := m.open(ctx, func(st Store[V]) error {
		if err := st.Delete(ctx, key); err != nil {
			return &InvalidateError{Key: key, Err: err}
		}
		return nil
	})
	if err == nil {
		m.hooks.Invalidated(key, 1)
		m.log.Debug("invalidated key", Fields{"key": key})
	}
	return err
}

func (m *memo[V]) InvalidateArgs(ctx context.Context, args ...any) error {
	return m.InvalidateKey(ctx, m.KeyFromArgs(args...))
}

func (m *memo[V]) InvalidateAll(ctx context.Context) (int, error) {
	prefix := util.Prefix(m.name)
	removed := 0
	err := m.open(ctx, func(st Store[V]) error {
		keys, err := st.Keys(ctx)
		if err != nil {
			return err
		}
		for _, k := range keys {
			if !strings.HasPrefix(k, prefix) {
				continue
			}
			if err := st.Delete(ctx, k); err != nil {
				return &InvalidateError{Key: k, Removed: removed, Err: err}
			}
			removed++
		}
		return nil
	})
	m.hooks.Invalidated(prefix, removed)
	m.log.Debug("invalidated all", Fields{"prefix": prefix, "removed": removed})
	return removed, err
}
