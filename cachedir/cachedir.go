// Package cachedir locates the on-disk cache and clears it.
package cachedir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"
)

const (
	// EnvDir overrides the default cache directory.
	EnvDir = "CALLCACHE_CACHE_DIR"

	appDir = "callcache"
	ext    = ".sqlite3"

	dirPerms = 0o755
)

// Patterns are the file kinds Clear removes: sqlite caches plus the raw
// downloads (.keg, .xml, .png) that hosts keep next to them.
var Patterns = []string{"*" + ext, "*.keg", "*.xml", "*.png"}

var ErrUnsafePath = errors.New("cachedir: non-default cache path")

// UnsafePathError is returned by Clear for a directory other than the default.
type UnsafePathError struct {
	Path    string
	Default string
}

func (e *UnsafePathError) Error() string {
	return fmt.Sprintf("cachedir: %q is not the default cache path %q; remove its contents manually", e.Path, e.Default)
}

func (e *UnsafePathError) Is(target error) bool { return target == ErrUnsafePath }

// DefaultDir resolves the base cache directory.
// Precedence:
//  1. CALLCACHE_CACHE_DIR, if set and non-empty
//  2. BuiltinDir()
func DefaultDir() (string, error) {
	if d, ok := os.LookupEnv(EnvDir); ok && d != "" {
		return d, nil
	}
	return BuiltinDir()
}

// BuiltinDir is os.UserCacheDir()/callcache. It ignores CALLCACHE_CACHE_DIR.
func BuiltinDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("cachedir: resolve user cache dir: %w", err)
	}
	return filepath.Join(base, appDir), nil
}

// File is the database file for one cache name inside dir.
func File(dir, name string) string {
	return filepath.Join(dir, name+ext)
}

// Ensure creates dir if needed.
func Ensure(dir string) error {
	if err := os.MkdirAll(dir, dirPerms); err != nil {
		return fmt.Errorf("cachedir: create %s: %w", dir, err)
	}
	return nil
}

// Report summarizes a Clear.
type Report struct {
	Files int
	Bytes int64
}

// Clear removes the cache files in path. It refuses any path that does not
// resolve to BuiltinDir, so neither cache.path nor CALLCACHE_CACHE_DIR can
// point it at an unrelated directory. A missing directory is an empty report.
func Clear(path string) (Report, error) {
	def, err := BuiltinDir()
	if err != nil {
		return Report{}, err
	}
	if realpath(path) != realpath(def) {
		return Report{}, &UnsafePathError{Path: path, Default: def}
	}

	var rep Report
	for _, pat := range Patterns {
		matches, err := filepath.Glob(filepath.Join(path, pat))
		if err != nil {
			return rep, fmt.Errorf("cachedir: glob %s: %w", pat, err)
		}
		for _, m := range matches {
			info, err := os.Lstat(m)
			if err != nil || info.IsDir() {
				continue
			}
			if err := os.Remove(m); err != nil {
				return rep, fmt.Errorf("cachedir: remove %s: %w", m, err)
			}
			log.Debugf("removed cache file %s", m)
			rep.Files++
			rep.Bytes += info.Size()
		}
	}
	return rep, nil
}

// realpath resolves symlinks where possible and falls back to the absolute,
// cleaned path for directories that do not exist yet.
func realpath(p string) string {
	if r, err := filepath.EvalSymlinks(p); err == nil {
		p = r
	}
	if a, err := filepath.Abs(p); err == nil {
		return a
	}
	return filepath.Clean(p)
}
