package callcache

import (
	"errors"
	"fmt"

	"github.com/unkn0wn-root/callcache/internal/wire"
)

var (
	// ErrNotFound is returned by Store.Get when the key is absent.
	// It is a normal branch, not a failure.
	ErrNotFound = errors.New("callcache: not found")

	// ErrCorrupt is returned by Store.Get when the stored data is not an entry
	// this cache wrote (bad envelope, undecodable payload, foreign type).
	// Memo treats it like a stale entry.
	ErrCorrupt = wire.ErrCorrupt

	ErrBindType = errors.New("callcache: operation already bound with another value type")
)

// InvalidateError reports a failed delete during invalidation.
// Removed counts the keys deleted before the failure.
type InvalidateError struct {
	Key     string
	Removed int
	Err     error
}

func (e *InvalidateError) Error() string {
	if e.Removed > 0 {
		return fmt.Sprintf("invalidate %q failed after %d removed: %v", e.Key, e.Removed, e.Err)
	}
	return fmt.Sprintf("invalidate %q: %v", e.Key, e.Err)
}

func (e *InvalidateError) Unwrap() error { return e.Err }
