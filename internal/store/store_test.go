package store

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_New(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer s.Close()

	if s == nil {
		t.Fatal("expected non-nil store")
	}
}

func TestStore_New_InvalidPath(t *testing.T) {
	_, err := New("/nonexistent/path/test.db")
	if err == nil {
		t.Error("expected error for invalid path")
	}
}

func TestStore_GetItem_Miss(t *testing.T) {
	s := newTestStore(t)

	value, found, err := s.GetItem(context.Background(), "-146")
	if err != nil {
		t.Errorf("GetItem failed: %v", err)
	}
	if found {
		t.Error("expected not found for empty store")
	}
	if value != "" {
		t.Errorf("expected empty value, got %q", value)
	}
}

func TestStore_SetItem_GetItem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SetItem(ctx, "-146", "bonjour le monde"); err != nil {
		t.Fatalf("SetItem failed: %v", err)
	}

	value, found, err := s.GetItem(ctx, "-146")
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if !found {
		t.Fatal("expected to find stored item")
	}
	if value != "bonjour le monde" {
		t.Errorf("expected 'bonjour le monde', got %q", value)
	}
}

func TestStore_SetItem_Overwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SetItem(ctx, "42", "first"); err != nil {
		t.Fatalf("SetItem failed: %v", err)
	}
	if err := s.SetItem(ctx, "42", "second"); err != nil {
		t.Fatalf("SetItem failed: %v", err)
	}

	value, _, err := s.GetItem(ctx, "42")
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if value != "second" {
		t.Errorf("expected 'second', got %q", value)
	}

	entries, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 entry after overwrite, got %d", len(entries))
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if err := s.SetItem(ctx, "98", "Привіт"); err != nil {
		t.Fatalf("SetItem failed: %v", err)
	}
	s.Close()

	reopened, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer reopened.Close()

	value, found, err := reopened.GetItem(ctx, "98")
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if !found || value != "Привіт" {
		t.Errorf("expected 'Привіт' after reopen, got %q (found=%v)", value, found)
	}
}

func TestStore_RemoveItem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SetItem(ctx, "1", "one"); err != nil {
		t.Fatalf("SetItem failed: %v", err)
	}
	if err := s.RemoveItem(ctx, "1"); err != nil {
		t.Fatalf("RemoveItem failed: %v", err)
	}

	_, found, err := s.GetItem(ctx, "1")
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if found {
		t.Error("expected item to be removed")
	}
}

func TestStore_Clear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, k := range []string{"1", "2", "3"} {
		if err := s.SetItem(ctx, k, "v"+k); err != nil {
			t.Fatalf("SetItem failed: %v", err)
		}
	}

	n, err := s.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 cleared entries, got %d", n)
	}

	entries, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty store, got %d entries", len(entries))
	}
}

func TestStore_Stats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SetItem(ctx, "1", "abc"); err != nil {
		t.Fatalf("SetItem failed: %v", err)
	}
	if err := s.SetItem(ctx, "2", "de"); err != nil {
		t.Fatalf("SetItem failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, _, err := s.GetItem(ctx, "1"); err != nil {
			t.Fatalf("GetItem failed: %v", err)
		}
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalEntries != 2 {
		t.Errorf("expected 2 entries, got %d", stats.TotalEntries)
	}
	if stats.TotalHits != 3 {
		t.Errorf("expected 3 hits, got %d", stats.TotalHits)
	}
	if stats.TotalBytes != 5 {
		t.Errorf("expected 5 bytes, got %d", stats.TotalBytes)
	}
}

func TestStore_Stats_Empty(t *testing.T) {
	s := newTestStore(t)

	stats, err := s.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalEntries != 0 || stats.TotalHits != 0 {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}

func TestStore_GetItem_ClosedDatabase(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	s.Close()

	if _, _, err := s.GetItem(context.Background(), "1"); err == nil {
		t.Error("expected error from closed database")
	}
}

func TestStore_GetItem_ReadOnly(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := s.SetItem(ctx, "98", "bonjour"); err != nil {
		t.Fatalf("SetItem failed: %v", err)
	}
	s.Close()

	ro, err := New("file:" + dbPath + "?mode=ro")
	if err != nil {
		t.Fatalf("read-only open failed: %v", err)
	}
	defer ro.Close()

	value, found, err := ro.GetItem(ctx, "98")
	if !found || value != "bonjour" {
		t.Fatalf("expected 'bonjour' from a read-only store, got %q (found=%v, err=%v)", value, found, err)
	}
	if err == nil {
		t.Error("expected the hit counter update to fail on a read-only store")
	}
}
