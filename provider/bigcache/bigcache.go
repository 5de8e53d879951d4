// Package bigcache is a volatile backend that keeps serialized entries off the
// Go heap. Unlike the by-reference memory store, values go through the codec,
// so callers get a copy on every hit.
//
// The underlying bigcache is configured never to evict: the life window is
// effectively infinite, there is no clean window and no hard size cap.
// Stale entries are only replaced by the cache policy.
package bigcache

import (
	"context"
	"errors"
	"math"
	"time"

	bc "github.com/allegro/bigcache/v3"

	pr "github.com/unkn0wn-root/callcache/provider"
)

const (
	neverExpire = time.Duration(math.MaxInt64)

	// initial allocation is roughly MaxEntriesInWindow*MaxEntrySize bytes,
	// bigcache's own defaults preallocate ~300MB
	defaultMaxEntries   = 10_000
	defaultMaxEntrySize = 512
)

type Provider struct {
	c *bc.BigCache
}

var (
	_ pr.Provider = (*Provider)(nil)
	_ pr.Opener   = (*Provider)(nil)
)

type Config struct {
	Shards             int // power of two; 0 => bigcache default
	MaxEntriesInWindow int
	MaxEntrySize       int
}

func New(ctx context.Context, cfg Config) (*Provider, error) {
	conf := bc.DefaultConfig(neverExpire)
	conf.CleanWindow = 0
	conf.HardMaxCacheSize = 0
	if cfg.Shards > 0 {
		conf.Shards = cfg.Shards
	}
	conf.MaxEntriesInWindow = defaultMaxEntries
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	conf.MaxEntrySize = defaultMaxEntrySize
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	c, err := bc.New(ctx, conf)
	if err != nil {
		return nil, err
	}
	return &Provider{c: c}, nil
}

// Open returns the provider itself; sessions share the one in-process cache.
func (p *Provider) Open(context.Context) (pr.Provider, error) { return p, nil }

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	b, err := p.c.Get(key)
	if errors.Is(err, bc.ErrEntryNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (p *Provider) Set(_ context.Context, key string, value []byte) error {
	return p.c.Set(key, value)
}

func (p *Provider) Del(_ context.Context, key string) error {
	err := p.c.Delete(key)
	if errors.Is(err, bc.ErrEntryNotFound) {
		return nil
	}
	return err
}

func (p *Provider) Keys(_ context.Context) ([]string, error) {
	keys := make([]string, 0, p.c.Len())
	it := p.c.Iterator()
	for it.SetNext() {
		e, err := it.Value()
		if err != nil {
			return nil, err
		}
		keys = append(keys, e.Key())
	}
	return keys, nil
}

// Close ends a session. The cache itself lives until Shutdown.
func (p *Provider) Close(context.Context) error { return nil }

// Shutdown stops bigcache's background workers and drops all entries.
func (p *Provider) Shutdown() error { return p.c.Close() }
