// Package sloghooks reports cache outcomes to a log/slog logger.
package sloghooks

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/callcache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	HitEvery  uint64
	MissEvery uint64
	// Optional key redactor. Defaults to a SHA-256 prefix, since keys embed
	// call arguments.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	hitCtr  atomic.Uint64
	missCtr atomic.Uint64
}

var _ callcache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) Hit(key string) {
	if h.l == nil || !sample(h.opts.HitEvery, &h.hitCtr) {
		return
	}
	h.l.Debug("callcache.hit", "key", h.redact(key))
}

func (h *Hooks) Miss(key string) {
	if h.l == nil || !sample(h.opts.MissEvery, &h.missCtr) {
		return
	}
	h.l.Debug("callcache.miss", "key", h.redact(key))
}

func (h *Hooks) Stale(key, reason string) {
	if h.l == nil {
		return
	}
	level := slog.LevelDebug
	if reason == "corrupt" {
		level = slog.LevelWarn
	}
	h.l.Log(context.Background(), level, "callcache.stale",
		"key", h.redact(key),
		"reason", reason)
}

func (h *Hooks) Stored(key string) {
	if h.l == nil {
		return
	}
	h.l.Debug("callcache.stored", "key", h.redact(key))
}

// Invalidated logs the prefix in clear for bulk invalidation, where it is
// just the operation name.
func (h *Hooks) Invalidated(prefix string, removed int) {
	if h.l == nil {
		return
	}
	p := prefix
	if len(p) == 0 || p[len(p)-1] != '(' {
		p = h.redact(prefix)
	}
	h.l.Info("callcache.invalidated",
		"prefix", p,
		"removed", removed)
}
