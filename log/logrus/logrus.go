// Package logrus adapts a *logrus.Entry to callcache.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"

	"github.com/unkn0wn-root/callcache"
)

var _ callcache.Logger = Logger{}

type Logger struct{ E *logrus.Entry }

// New tags every line with component=callcache.
func New(l *logrus.Logger) Logger {
	return Logger{E: l.WithField("component", "callcache")}
}

func (l Logger) Debug(msg string, f callcache.Fields) { l.with(f).Debug(msg) }
func (l Logger) Info(msg string, f callcache.Fields)  { l.with(f).Info(msg) }
func (l Logger) Warn(msg string, f callcache.Fields)  { l.with(f).Warn(msg) }
func (l Logger) Error(msg string, f callcache.Fields) { l.with(f).Error(msg) }

func (l Logger) with(f callcache.Fields) *logrus.Entry {
	if len(f) == 0 {
		return l.E
	}
	// an "err" field goes where logrus formatters expect errors
	if err, ok := f["err"].(error); ok {
		rest := make(logrus.Fields, len(f)-1)
		for k, v := range f {
			if k != "err" {
				rest[k] = v
			}
		}
		return l.E.WithError(err).WithFields(rest)
	}
	return l.E.WithFields(logrus.Fields(f))
}
