package sloghooks

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func newLogged(opts Options) (*Hooks, *bytes.Buffer) {
	var buf bytes.Buffer
	l := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(l, opts), &buf
}

func records(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("unmarshal %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestRedactsKeys(t *testing.T) {
	h, buf := newLogged(Options{})
	h.Miss(`get("secret-token")`)

	recs := records(t, buf)
	if len(recs) != 1 || recs[0]["msg"] != "callcache.miss" {
		t.Fatalf("unexpected records: %v", recs)
	}
	key, _ := recs[0]["key"].(string)
	if len(key) != 16 || strings.Contains(buf.String(), "secret-token") {
		t.Fatalf("key not redacted: %q", key)
	}
}

func TestCustomRedactor(t *testing.T) {
	h, buf := newLogged(Options{Redact: func(string) string { return "x" }})
	h.Stored("k")
	if recs := records(t, buf); recs[0]["key"] != "x" {
		t.Fatalf("custom redactor not used: %v", recs)
	}
}

func TestSampling(t *testing.T) {
	h, buf := newLogged(Options{HitEvery: 3})
	for i := 0; i < 9; i++ {
		h.Hit("k")
	}
	if n := len(records(t, buf)); n != 3 {
		t.Fatalf("got %d hit records, want 3", n)
	}
}

func TestStaleLevels(t *testing.T) {
	h, buf := newLogged(Options{})
	h.Stale("k", "daily")
	h.Stale("k", "corrupt")
	recs := records(t, buf)
	if recs[0]["level"] != "DEBUG" || recs[1]["level"] != "WARN" || recs[1]["reason"] != "corrupt" {
		t.Fatalf("unexpected records: %v", recs)
	}
}

func TestInvalidatedPrefix(t *testing.T) {
	h, buf := newLogged(Options{})
	h.Invalidated("get(", 4)
	h.Invalidated(`get("x")`, 1)
	recs := records(t, buf)
	if recs[0]["prefix"] != "get(" || recs[0]["removed"] != float64(4) {
		t.Fatalf("bulk prefix should be logged in clear: %v", recs[0])
	}
	if recs[1]["prefix"] == `get("x")` {
		t.Fatalf("single key should be redacted: %v", recs[1])
	}
}

func TestNilLogger(t *testing.T) {
	h := New(nil, Options{})
	h.Hit("k")
	h.Miss("k")
	h.Stale("k", "r")
	h.Stored("k")
	h.Invalidated("k(", 0)
}
