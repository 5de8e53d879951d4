// Package apex adapts an apex/log Interface to callcache.Logger.
package apex

import (
	"github.com/apex/log"

	"github.com/unkn0wn-root/callcache"
)

var _ callcache.Logger = Logger{}

type Logger struct{ L log.Interface }

func (a Logger) Debug(msg string, f callcache.Fields) { a.with(f).Debug(msg) }
func (a Logger) Info(msg string, f callcache.Fields)  { a.with(f).Info(msg) }
func (a Logger) Warn(msg string, f callcache.Fields)  { a.with(f).Warn(msg) }
func (a Logger) Error(msg string, f callcache.Fields) { a.with(f).Error(msg) }

func (a Logger) with(f callcache.Fields) *log.Entry {
	return a.L.WithFields(log.Fields(f))
}
