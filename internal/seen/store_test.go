package seen

import (
	"path/filepath"
	"testing"
	"time"
)

func TestStoreRoundTrip(t *testing.T) {
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer store.Close()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	state := NewState()
	state.Record("aaaa", now)
	state.Record("bbbb", now.Add(time.Minute))

	if err := store.Save(state); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("expected 2 keys, got %d", loaded.Len())
	}

	first, ok := loaded.FirstSeen("aaaa")
	if !ok {
		t.Fatal("expected key aaaa to be present")
	}
	if !first.Equal(now) {
		t.Fatalf("expected first-seen %v, got %v", now, first)
	}
}

func TestStoreSaveKeepsFirstSeen(t *testing.T) {
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer store.Close()

	first := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	state := NewState()
	state.Record("aaaa", first)
	if err := store.Save(state); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A fresh state with a later timestamp for the same key must not
	// overwrite the persisted row.
	later := NewState()
	later.Record("aaaa", first.Add(48*time.Hour))
	if err := store.Save(later); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := loaded.FirstSeen("aaaa")
	if !got.Equal(first) {
		t.Fatalf("expected the original first-seen %v, got %v", first, got)
	}
}

func TestStoreMissingFileIsEmptyState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "seen.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer store.Close()

	state, err := store.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Len() != 0 {
		t.Fatalf("expected an empty state, got %d keys", state.Len())
	}
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	state := NewState()
	state.Record("aaaa", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	if err := store.Save(state); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	store.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer reopened.Close()

	loaded, err := reopened.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !loaded.Has("aaaa") {
		t.Fatal("expected the key to survive a reopen")
	}
}

func TestStateRecordIsImmutable(t *testing.T) {
	state := NewState()
	first := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	state.Record("k", first)
	state.Record("k", first.Add(time.Hour))

	got, _ := state.FirstSeen("k")
	if !got.Equal(first) {
		t.Fatalf("expected the first timestamp to stick, got %v", got)
	}
	if state.Len() != 1 {
		t.Fatalf("expected 1 key, got %d", state.Len())
	}
}
