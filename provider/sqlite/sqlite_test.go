package sqlite

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func newFile(t *testing.T) *File {
	t.Helper()
	f, err := New(Config{Path: filepath.Join(t.TempDir(), "nested", "kegg.sqlite3")})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return f
}

func TestNewRequiresPath(t *testing.T) {
	if _, err := New(Config{}); !errors.Is(err, ErrNoPath) {
		t.Fatalf("expected ErrNoPath, got %v", err)
	}
}

func TestSetGetDelKeys(t *testing.T) {
	ctx := context.Background()
	f := newFile(t)

	s, err := f.Open(ctx)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close(ctx)

	if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get miss: ok=%v err=%v", ok, err)
	}

	blob := []byte{0, 1, 2, 0xff, 'a'}
	if err := s.Set(ctx, "a(1)", blob); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(ctx, "a(2)", []byte("two")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := s.Get(ctx, "a(1)")
	if err != nil || !ok || !bytes.Equal(got, blob) {
		t.Fatalf("Get: ok=%v err=%v got=%x", ok, err, got)
	}

	// replace keeps the key unique
	if err := s.Set(ctx, "a(1)", []byte("new")); err != nil {
		t.Fatalf("Set replace: %v", err)
	}
	keys, err := s.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "a(1)" || keys[1] != "a(2)" {
		t.Fatalf("Keys=%v", keys)
	}

	if err := s.Del(ctx, "a(1)"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if err := s.Del(ctx, "a(1)"); err != nil {
		t.Fatalf("Del of missing key must be a no-op: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "a(1)"); ok {
		t.Fatalf("deleted key still present")
	}
}

func TestCommittedAcrossSessions(t *testing.T) {
	ctx := context.Background()
	f := newFile(t)

	w, err := f.Open(ctx)
	if err != nil {
		t.Fatalf("Open writer: %v", err)
	}
	if err := w.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// a second session sees the row before the writer is closed
	r, err := f.Open(ctx)
	if err != nil {
		t.Fatalf("Open reader: %v", err)
	}
	got, ok, err := r.Get(ctx, "k")
	if err != nil || !ok || string(got) != "v" {
		t.Fatalf("reader Get: ok=%v err=%v got=%q", ok, err, got)
	}
	_ = r.Close(ctx)
	_ = w.Close(ctx)

	// and after a full reopen
	again, err := f.Open(ctx)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer again.Close(ctx)
	if _, ok, _ := again.Get(ctx, "k"); !ok {
		t.Fatalf("entry lost after reopen")
	}
}

func TestSchemaIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFile(t)
	for i := 0; i < 3; i++ {
		s, err := f.Open(ctx)
		if err != nil {
			t.Fatalf("Open #%d: %v", i, err)
		}
		if err := s.Close(ctx); err != nil {
			t.Fatalf("Close #%d: %v", i, err)
		}
	}
	if _, err := os.Stat(f.Path()); err != nil {
		t.Fatalf("database file not created: %v", err)
	}
}

func TestOpenFailsOnDirectory(t *testing.T) {
	dir := t.TempDir()
	f, err := New(Config{Path: dir})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s, err := f.Open(context.Background())
	if err == nil {
		_ = s.Close(context.Background())
		t.Fatalf("expected open error for a directory path")
	}
}
