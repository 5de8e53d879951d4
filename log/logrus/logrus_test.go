package logrus

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/unkn0wn-root/callcache"
)

func TestLevelsAndFields(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.DebugLevel)
	l := New(base)

	l.Debug("cache miss", callcache.Fields{"key": "k"})
	l.Info("info", nil)
	l.Warn("unreadable entry, recomputing", callcache.Fields{"key": "k", "err": errors.New("boom")})
	l.Error("backend write failed", callcache.Fields{"key": "k"})

	entries := hook.AllEntries()
	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4", len(entries))
	}
	want := []logrus.Level{logrus.DebugLevel, logrus.InfoLevel, logrus.WarnLevel, logrus.ErrorLevel}
	for i, e := range entries {
		if e.Level != want[i] {
			t.Fatalf("entry %d level=%v want %v", i, e.Level, want[i])
		}
		if e.Data["component"] != "callcache" {
			t.Fatalf("entry %d missing component field: %v", i, e.Data)
		}
	}

	warn := entries[2]
	err, ok := warn.Data[logrus.ErrorKey].(error)
	if !ok || err.Error() != "boom" {
		t.Fatalf("error not attached under %q: %v", logrus.ErrorKey, warn.Data)
	}
	if warn.Data["key"] != "k" {
		t.Fatalf("key field lost: %v", warn.Data)
	}
}

func TestLevelFilter(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.WarnLevel)
	l := New(base)

	l.Debug("dropped", nil)
	l.Info("dropped", nil)
	l.Warn("kept", nil)

	if len(hook.AllEntries()) != 1 || hook.LastEntry().Message != "kept" {
		t.Fatalf("level filter not honored: %v", hook.AllEntries())
	}
}
