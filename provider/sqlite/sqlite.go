// Package sqlite is the persistent, single-file backend. It uses the pure Go
// modernc.org/sqlite driver so the cache works without cgo.
//
// Layout: one table `cache(key TEXT UNIQUE, value TEXT)` with an index on key.
// Every Set and Del runs in autocommit mode, so a committed entry survives a
// crash of the process between two calls.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	pr "github.com/unkn0wn-root/callcache/provider"
)

const (
	driverName = "sqlite"

	// DefaultBusyTimeout is how long a session waits on another process holding the file lock.
	DefaultBusyTimeout = 5 * time.Second

	dirPerms = 0o755
)

var ErrNoPath = errors.New("sqlite provider: empty path")

const (
	schemaTable = `
CREATE TABLE IF NOT EXISTS cache
    (key TEXT UNIQUE,
     value TEXT
    )`
	schemaIndex = `
CREATE INDEX IF NOT EXISTS cache_index
ON cache (key)`

	qGet    = `SELECT value FROM cache WHERE key=?`
	qSet    = `INSERT OR REPLACE INTO cache VALUES (?, ?)`
	qDel    = `DELETE FROM cache WHERE key=?`
	qKeys   = `SELECT key FROM cache`
	pragmaT = `PRAGMA busy_timeout = %d`
)

type Config struct {
	Path        string        // database file; parent directories are created
	BusyTimeout time.Duration // 0 => DefaultBusyTimeout
}

// File opens sessions on one database file.
type File struct {
	path        string
	busyTimeout time.Duration
}

var _ pr.Opener = (*File)(nil)

func New(cfg Config) (*File, error) {
	if cfg.Path == "" {
		return nil, ErrNoPath
	}
	bt := cfg.BusyTimeout
	if bt <= 0 {
		bt = DefaultBusyTimeout
	}
	return &File{path: cfg.Path, busyTimeout: bt}, nil
}

func (f *File) Path() string { return f.path }

// Open connects to the file and makes sure the schema exists.
func (f *File) Open(ctx context.Context) (pr.Provider, error) {
	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, dirPerms); err != nil {
			return nil, fmt.Errorf("sqlite provider: create dir: %w", err)
		}
	}
	db, err := sql.Open(driverName, f.path)
	if err != nil {
		return nil, fmt.Errorf("sqlite provider: open %s: %w", f.path, err)
	}
	// one connection per session keeps the pragma and the autocommit
	// semantics on the same handle
	db.SetMaxOpenConns(1)

	stmts := []string{
		fmt.Sprintf(pragmaT, f.busyTimeout.Milliseconds()),
		schemaTable,
		schemaIndex,
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite provider: init %s: %w", f.path, err)
		}
	}
	return &session{db: db}, nil
}

type session struct {
	db *sql.DB
}

func (s *session) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var b []byte
	err := s.db.QueryRowContext(ctx, qGet, key).Scan(&b)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (s *session) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, qSet, key, value)
	return err
}

func (s *session) Del(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, qDel, key)
	return err
}

func (s *session) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, qKeys)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (s *session) Close(_ context.Context) error {
	return s.db.Close()
}
