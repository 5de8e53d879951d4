package redis

import (
	"context"
	"errors"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	pr "github.com/unkn0wn-root/callcache/provider"
)

var ErrNilClient = errors.New("redis provider: nil client")

const (
	defaultPrefix = "callcache"
	scanCount     = 512
)

// Redis keeps entries in a Redis keyspace under "<prefix>:". It is persistent
// across process restarts. Entries never expire; staleness is decided by the
// cache policy on read.
type Redis struct {
	rdb         goredis.UniversalClient
	prefix      string
	closeClient bool
}

var (
	_ pr.Provider = (*Redis)(nil)
	_ pr.Opener   = (*Redis)(nil)
)

type Config struct {
	Client      goredis.UniversalClient
	Prefix      string // "" => "callcache"
	CloseClient bool   // set true only if this provider exclusively owns the client
}

func New(cfg Config) (*Redis, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Redis{rdb: cfg.Client, prefix: prefix + ":", closeClient: cfg.CloseClient}, nil
}

// Open returns the provider itself; the client is already connected.
func (p *Redis) Open(context.Context) (pr.Provider, error) { return p, nil }

func (p *Redis) key(k string) string { return p.prefix + k }

func (p *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := p.rdb.Get(ctx, p.key(key)).Bytes()
	if err == goredis.Nil {
		return nil, false, nil // miss
	}
	if err != nil {
		return nil, false, err // transport/server error
	}
	return b, true, nil
}

func (p *Redis) Set(ctx context.Context, key string, value []byte) error {
	return p.rdb.Set(ctx, p.key(key), value, 0).Err()
}

func (p *Redis) Del(ctx context.Context, key string) error {
	return p.rdb.Del(ctx, p.key(key)).Err()
}

// Keys walks the prefix with SCAN, so large unrelated keyspaces are not loaded at once.
func (p *Redis) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := p.rdb.Scan(ctx, 0, escapeGlob(p.prefix)+"*", scanCount).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), p.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

// Close ends a session. The client stays open; see Shutdown.
func (p *Redis) Close(context.Context) error { return nil }

// Shutdown releases the underlying redis client only when this provider owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (p *Redis) Shutdown(context.Context) error {
	if p.closeClient {
		if err := p.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}

func escapeGlob(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)
	return r.Replace(s)
}
