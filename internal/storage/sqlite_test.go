package storage

import (
	"path/filepath"
	"testing"
)

func tempStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "laguz.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSetAndGet(t *testing.T) {
	s := tempStore(t)
	blob := []byte(`{"notes":{}}`)
	if err := s.Set(KeyNotes, blob); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := s.Get(KeyNotes)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != string(blob) {
		t.Errorf("blob mismatch: got %q", got)
	}
}

func TestGetAbsentKey(t *testing.T) {
	s := tempStore(t)
	got, err := s.Get("missing")
	if err != nil {
		t.Fatalf("Get of absent key must not error: %v", err)
	}
	if got != nil {
		t.Errorf("got %q, want nil", got)
	}
}

func TestSetReplaces(t *testing.T) {
	s := tempStore(t)
	_ = s.Set(KeyNotes, []byte("one"))
	if err := s.Set(KeyNotes, []byte("two")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, _ := s.Get(KeyNotes)
	if string(got) != "two" {
		t.Errorf("got %q, want last write", got)
	}
}

func TestClear(t *testing.T) {
	s := tempStore(t)
	_ = s.Set(KeyDatabase, []byte("grid"))
	if err := s.Clear(KeyDatabase); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	got, err := s.Get(KeyDatabase)
	if err != nil || got != nil {
		t.Errorf("after clear: blob=%q err=%v", got, err)
	}
	// Clearing again is a no-op.
	if err := s.Clear(KeyDatabase); err != nil {
		t.Errorf("Clear of absent key: %v", err)
	}
}

func TestKeysAreIndependent(t *testing.T) {
	s := tempStore(t)
	_ = s.Set(KeyNotes, []byte("n"))
	_ = s.Set(KeyDatabase, []byte("d"))
	_ = s.Clear(KeyNotes)
	got, _ := s.Get(KeyDatabase)
	if string(got) != "d" {
		t.Errorf("database blob affected by notes clear: %q", got)
	}
}
