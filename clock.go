package callcache

import "time"

// Clock provides the current time for entry stamps and policy thresholds.
// The default implementation uses time.Now().
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}
