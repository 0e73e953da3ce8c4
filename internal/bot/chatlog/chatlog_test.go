package chatlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "dispatch.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndTail(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	entries := []Entry{
		{ID: "a", Ts: base, TraceID: "d_1", User: "viewer", Command: "title", Message: "hello", Result: ResultOK},
		{ID: "b", Ts: base.Add(time.Second), TraceID: "d_2", User: "viewer", Command: "nope", Message: "", Result: ResultUnknown},
		{ID: "c", Ts: base.Add(2 * time.Second), TraceID: "d_3", User: "rando", Command: "title", Message: "x", Result: ResultDenied},
	}
	for _, e := range entries {
		if err := store.Record(ctx, e); err != nil {
			t.Fatalf("Record(%s): %v", e.ID, err)
		}
	}

	got, err := store.Tail(ctx, 2)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// Newest first.
	if got[0].ID != "c" || got[1].ID != "b" {
		t.Errorf("order = %s, %s", got[0].ID, got[1].ID)
	}
	if got[0].Result != ResultDenied || got[0].User != "rando" {
		t.Errorf("entry = %+v", got[0])
	}
}

func TestRecordDefaultsTimestamp(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Record(ctx, Entry{ID: "x", TraceID: "d_x", User: "u", Command: "c", Message: "m", Result: ResultOK}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	got, err := store.Tail(ctx, 1)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(got) != 1 || got[0].Ts.IsZero() {
		t.Errorf("entries = %+v", got)
	}
}

func TestRecordStoresErrorMessage(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Record(ctx, Entry{ID: "e", TraceID: "d_e", User: "u", Command: "plus5", Message: "abc", Result: ResultError, Err: "value error"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	got, err := store.Tail(ctx, 1)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if got[0].Err != "value error" {
		t.Errorf("Err = %q", got[0].Err)
	}
}
