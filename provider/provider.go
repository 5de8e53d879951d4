// Package provider defines the byte-level storage used by persistent cache backends.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly the
// same []byte that was previously passed to Set for a key. The entry envelope
// written by callcache is validated on read; foreign or mangled bytes are
// treated as a stale entry and overwritten on the next miss.
//
// A Provider is a session: callcache opens one per operation through an Opener
// and closes it when the operation returns, including on error.
package provider

import (
	"context"
)

// Provider is an open key/value session. Keys are the cache keys themselves,
// values are opaque entry envelopes.
type Provider interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key, replacing any previous value. A nil error
	// means the write is durable for this backend (committed, acknowledged).
	Set(ctx context.Context, key string, value []byte) error

	// Del removes a key. Missing keys are not an error.
	Del(ctx context.Context, key string) error

	// Keys lists every key in the session's namespace. Used for prefix invalidation.
	Keys(ctx context.Context) ([]string, error)

	// Close ends the session.
	Close(ctx context.Context) error
}

// Opener creates sessions. Several cached operations may share one Opener,
// and with it one file or keyspace.
type Opener interface {
	Open(ctx context.Context) (Provider, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context) (Provider, error)

func (f OpenerFunc) Open(ctx context.Context) (Provider, error) { return f(ctx) }
