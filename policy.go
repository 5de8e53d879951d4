package callcache

import (
	"fmt"
	"strings"
	"time"
)

// Mode is the global invalidation setting (cache.invalidate).
type Mode string

const (
	// ModeNone keeps entries without a global comparison. It is the default
	// for an unset setting and the fallback for an unrecognized one.
	ModeNone Mode = "none"
	// ModeAlways distrusts every entry unless a last-modified signal vouches for it.
	ModeAlways Mode = "always"
	// ModeSession keeps entries produced since this process started.
	ModeSession Mode = "session"
	// ModeDaily keeps entries produced since local midnight.
	ModeDaily Mode = "daily"
	// ModeWeekly keeps entries produced within the last 7 days.
	ModeWeekly Mode = "weekly"
)

const week = 7 * 24 * time.Hour

// Verdict reasons.
const (
	ReasonNoTimestamp  = "no_timestamp"
	ReasonMinTimestamp = "min_timestamp"
	ReasonLastModified = "last_modified"
	ReasonNone         = "none"
)

var sessionStart = time.Now()

// SessionStart is the process start marker used by ModeSession.
func SessionStart() time.Time { return sessionStart }

// ParseMode maps a configuration value to a Mode. Empty means ModeNone.
// An unknown value returns ModeNone together with an error so the caller can
// report the typo instead of silently trusting every entry.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", ModeNone:
		return ModeNone, nil
	case ModeAlways, ModeSession, ModeDaily, ModeWeekly:
		return m, nil
	default:
		return ModeNone, fmt.Errorf("callcache: unknown invalidation mode %q", s)
	}
}

func (m Mode) String() string { return string(m) }

// Policy decides whether an entry is still fresh.
type Policy struct {
	Mode Mode // "" behaves as ModeNone

	// Session overrides SessionStart() for ModeSession; mostly for tests
	// and for hosts that define their own session boundary.
	Session time.Time
}

// Verdict is the outcome of Policy.Check. Reason names the rule that decided.
type Verdict struct {
	Valid  bool
	Reason string
}

func valid(reason string) Verdict   { return Verdict{Valid: true, Reason: reason} }
func invalid(reason string) Verdict { return Verdict{Valid: false, Reason: reason} }

// Check evaluates, in order: a usable creation stamp, the per-call floor,
// the last-modified signal (when non-zero it alone sets the threshold), then
// the Mode. The threshold is inclusive: created == threshold is fresh.
func (p Policy) Check(now time.Time, created Stamp, floor time.Time, lastModified Stamp) Verdict {
	loc := now.Location()

	c, ok := created.Resolve(loc)
	if !ok {
		return invalid(ReasonNoTimestamp)
	}
	if floor.After(c) {
		return invalid(ReasonMinTimestamp)
	}

	if lm, ok := lastModified.Resolve(loc); ok {
		if c.Before(lm) {
			return invalid(ReasonLastModified)
		}
		return valid(ReasonLastModified)
	}

	mode := coalesce(p.Mode, ModeNone)
	var threshold time.Time
	switch mode {
	case ModeAlways:
		return invalid(string(ModeAlways))
	case ModeSession:
		threshold = coalesce(p.Session, SessionStart())
	case ModeDaily:
		y, m, d := now.Date()
		threshold = time.Date(y, m, d, 0, 0, 0, 0, loc)
	case ModeWeekly:
		threshold = now.Add(-week)
	default:
		return valid(ReasonNone)
	}
	if c.Before(threshold) {
		return invalid(string(mode))
	}
	return valid(string(mode))
}
