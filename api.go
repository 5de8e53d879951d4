package callcache

import (
	"context"
	"time"
)

// Func is the expensive operation being cached. It must be deterministic for
// fixed arguments and free of side effects.
type Func[V any] func(ctx context.Context, args ...any) (V, error)

// LastModifiedFunc reports when the data behind a call last changed at the
// source. A zero Stamp means "unknown" and leaves the decision to the Mode.
type LastModifiedFunc func(ctx context.Context, args []any) (Stamp, error)

// MinTimestampFunc returns the oldest creation time acceptable for a call.
type MinTimestampFunc func(args []any) time.Time

// Memo is a cached operation.
type Memo[V any] interface {
	Name() string

	// Call returns the stored value for args if the policy accepts it,
	// otherwise calls the wrapped Func once and stores the result.
	Call(ctx context.Context, args ...any) (V, error)

	// Memoize stores value as the result for args, stamped at (zero => now).
	Memoize(ctx context.Context, value V, at Stamp, args ...any) error

	KeyFromArgs(args ...any) string
	HasKey(ctx context.Context, key string) (bool, error)
	IsEntryValid(ctx context.Context, e Entry[V], args ...any) (bool, error)
	MinTimestamp(args ...any) time.Time

	InvalidateKey(ctx context.Context, key string) error
	InvalidateArgs(ctx context.Context, args ...any) error
	// InvalidateAll deletes every entry of this operation and returns how many were removed.
	InvalidateAll(ctx context.Context) (int, error)
}

// Options configure one cached operation.
// Only Name and Func are required; others have sensible defaults.
type Options[V any] struct {
	// Required
	Name string // operation identity, the key prefix; must not contain '(' or ')'
	Func Func[V]

	Backend      Backend[V]       // nil => private Volatile store
	Policy       Policy           // zero => ModeNone
	LastModified LastModifiedFunc // nil => no signal, policy Mode decides
	MinTimestamp MinTimestampFunc // nil => Unix epoch
	Logger       Logger           // nil => NopLogger
	Hooks        Hooks            // nil => NopHooks
	Clock        Clock            // nil => time.Now
}

func New[V any](opts Options[V]) (Memo[V], error) {
	return newMemo[V](opts)
}
