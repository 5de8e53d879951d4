// Package config reads the cache settings: cache.invalidate and cache.path.
//
// Sources, later ones winning:
//  1. built-in defaults (invalidate: none, path: cachedir.DefaultDir())
//  2. a YAML file: CALLCACHE_CONFIG, else the first callcache.yaml found in
//     $XDG_CONFIG_HOME, $APPDATA, $HOME
//  3. CALLCACHE_INVALIDATE and CALLCACHE_PATH
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"gopkg.in/yaml.v3"

	"github.com/unkn0wn-root/callcache"
	"github.com/unkn0wn-root/callcache/cachedir"
)

const (
	EnvConfig     = "CALLCACHE_CONFIG"
	EnvInvalidate = "CALLCACHE_INVALIDATE"
	EnvPath       = "CALLCACHE_PATH"

	KeyInvalidate = "cache.invalidate"
	KeyPath       = "cache.path"

	fileName = "callcache.yaml"
)

type Config struct {
	// Source is the file the settings came from; empty when none was found.
	Source string
	Data   map[string]any

	Invalidate callcache.Mode
	Path       string
}

// Policy is the invalidation policy the settings describe.
func (c Config) Policy() callcache.Policy {
	return callcache.Policy{Mode: c.Invalidate}
}

// Load resolves the configuration file and applies defaults and env overrides.
// A missing file is not an error.
func Load() (Config, error) {
	path, err := configPath()
	if err != nil {
		return Config{}, err
	}
	return LoadFile(path)
}

// LoadFile is Load with an explicit file; an empty path skips the file.
func LoadFile(path string) (Config, error) {
	var cfg Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		var data map[string]any
		if err := yaml.Unmarshal(b, &data); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
		cfg.Source = path
		cfg.Data = data
	}

	rawMode := cfg.String(KeyInvalidate, "")
	if v, ok := os.LookupEnv(EnvInvalidate); ok && v != "" {
		rawMode = v
	}
	mode, err := callcache.ParseMode(rawMode)
	if err != nil {
		log.WithField("value", rawMode).Warnf("unknown %s, using %q", KeyInvalidate, callcache.ModeNone)
	}
	cfg.Invalidate = mode

	cfg.Path = cfg.String(KeyPath, "")
	if v, ok := os.LookupEnv(EnvPath); ok && v != "" {
		cfg.Path = v
	}
	if cfg.Path == "" {
		def, err := cachedir.DefaultDir()
		if err != nil {
			return Config{}, err
		}
		cfg.Path = def
	}
	cfg.Path = expandHome(cfg.Path)
	return cfg, nil
}

// Get traverses Data using a dotted key path.
func (c Config) Get(key string) (any, bool) {
	var current any = c.Data
	for _, part := range strings.Split(key, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// String returns the value at key rendered as a string, or def when absent.
func (c Config) String(key, def string) string {
	v, ok := c.Get(key)
	if !ok || v == nil {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func configPath() (string, error) {
	if p, ok := os.LookupEnv(EnvConfig); ok && p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("config: %s: %w", EnvConfig, err)
		}
		return p, nil
	}

	candidates := []string{
		os.Getenv("XDG_CONFIG_HOME"),
		os.Getenv("APPDATA"),
		os.Getenv("HOME"),
	}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		file := filepath.Join(c, fileName)
		info, err := os.Stat(file)
		if err == nil && !info.IsDir() {
			log.Debugf("using config file: %s", file)
			return file, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			log.WithError(err).Warnf("skipping config candidate %s", file)
		}
	}
	return "", nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
