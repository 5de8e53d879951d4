package callcache

import "time"

// Stamp is a recorded point in time: either a full timestamp or a bare
// calendar date. The zero Stamp means "no usable time" and never validates.
type Stamp struct {
	t        time.Time
	dateOnly bool
}

// At stamps a full timestamp. A zero t gives the zero Stamp.
func At(t time.Time) Stamp { return Stamp{t: t} }

// Date stamps a calendar day with no time of day.
func Date(year int, month time.Month, day int) Stamp {
	return Stamp{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), dateOnly: true}
}

// DateOf stamps the calendar day of t in t's location.
func DateOf(t time.Time) Stamp {
	y, m, d := t.Date()
	return Date(y, m, d)
}

func (s Stamp) IsZero() bool   { return s.t.IsZero() }
func (s Stamp) DateOnly() bool { return s.dateOnly }

// Time returns the raw recorded time. For dates it is UTC midnight of the day;
// use Resolve for comparisons.
func (s Stamp) Time() time.Time { return s.t }

// Resolve turns s into a comparable instant. A bare date resolves to 01:01:01
// of that day in loc, which is where date-stamped entries have always been
// placed; entries written at 00:xx on the same day therefore compare older.
func (s Stamp) Resolve(loc *time.Location) (time.Time, bool) {
	if s.t.IsZero() {
		return time.Time{}, false
	}
	if !s.dateOnly {
		return s.t, true
	}
	if loc == nil {
		loc = time.Local
	}
	y, m, d := s.t.Date()
	return time.Date(y, m, d, 1, 1, 1, 0, loc), true
}

// Equal reports whether both stamps record the same kind and instant.
func (s Stamp) Equal(o Stamp) bool {
	return s.dateOnly == o.dateOnly && s.t.Equal(o.t)
}

func (s Stamp) String() string {
	switch {
	case s.t.IsZero():
		return "<none>"
	case s.dateOnly:
		return s.t.Format(time.DateOnly)
	default:
		return s.t.Format(time.RFC3339Nano)
	}
}

// Entry is one stored result.
type Entry[V any] struct {
	Value V

	// CreatedAt is set by Memo when the value is stored.
	CreatedAt Stamp

	// ExpiresAt is an optional absolute expiry; zero means none.
	// Stored and returned, but no policy consults it yet.
	ExpiresAt time.Time
}
