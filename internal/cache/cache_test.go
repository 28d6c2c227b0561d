package cache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/valpere/mstranslate/internal/fingerprint"
	"github.com/valpere/mstranslate/internal/store"
)

type failingBackend struct {
	gets, sets int
}

func (b *failingBackend) GetItem(ctx context.Context, key string) (string, bool, error) {
	b.gets++
	return "", false, errors.New("quota exceeded")
}

func (b *failingBackend) SetItem(ctx context.Context, key, value string) error {
	b.sets++
	return errors.New("quota exceeded")
}

func newStoreCache(t *testing.T) (*Cache, *store.Store) {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return New(s, nil), s
}

func TestCache_RoundTrip(t *testing.T) {
	c, _ := newStoreCache(t)
	ctx := context.Background()

	values := []string{"bonjour le monde", "x", "Привіт світ", "line one\nline two"}
	for i, v := range values {
		key := "text" + string(rune('a'+i)) + "-fr"
		c.Put(ctx, key, v)

		got, found := c.Get(ctx, key)
		if !found {
			t.Fatalf("expected hit for %q", key)
		}
		if got != v {
			t.Errorf("Get(%q) = %q, want %q", key, got, v)
		}
	}
}

func TestCache_Miss(t *testing.T) {
	c, _ := newStoreCache(t)

	if _, found := c.Get(context.Background(), "hello-fr"); found {
		t.Error("expected miss on empty cache")
	}
}

func TestCache_StoresUnderFingerprint(t *testing.T) {
	c, s := newStoreCache(t)
	ctx := context.Background()

	c.Put(ctx, "hello world-fr", "bonjour le monde")

	value, found, err := s.GetItem(ctx, fingerprint.Key("hello world-fr"))
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if !found || value != "bonjour le monde" {
		t.Errorf("expected value under fingerprint key, got %q (found=%v)", value, found)
	}
}

func TestCache_Overwrite(t *testing.T) {
	c, _ := newStoreCache(t)
	ctx := context.Background()

	c.Put(ctx, "hello-fr", "salut")
	c.Put(ctx, "hello-fr", "bonjour")

	got, _ := c.Get(ctx, "hello-fr")
	if got != "bonjour" {
		t.Errorf("expected overwritten value 'bonjour', got %q", got)
	}
}

func TestCache_BackendFailureDegradesToMiss(t *testing.T) {
	backend := &failingBackend{}
	c := New(backend, nil)
	ctx := context.Background()

	c.Put(ctx, "hello-fr", "bonjour")
	if _, found := c.Get(ctx, "hello-fr"); found {
		t.Error("expected miss when backend fails")
	}
	if backend.gets != 1 || backend.sets != 1 {
		t.Errorf("expected one get and one set attempt, got %d/%d", backend.gets, backend.sets)
	}
}

func TestCache_NilBackend(t *testing.T) {
	c := New(nil, nil)
	ctx := context.Background()

	c.Put(ctx, "hello-fr", "bonjour")
	if _, found := c.Get(ctx, "hello-fr"); found {
		t.Error("expected miss with no backend")
	}
}

type readOnlyBackend struct {
	values map[string]string
}

func (b readOnlyBackend) GetItem(ctx context.Context, key string) (string, bool, error) {
	v, ok := b.values[key]
	if !ok {
		return "", false, nil
	}
	return v, true, errors.New("attempt to write a readonly database")
}

func (b readOnlyBackend) SetItem(ctx context.Context, key, value string) error {
	return errors.New("attempt to write a readonly database")
}

func TestCache_HitSurvivesBookkeepingFailure(t *testing.T) {
	c := New(readOnlyBackend{values: map[string]string{
		fingerprint.Key("hello world-fr"): "bonjour le monde",
	}}, nil)

	value, ok := c.Get(context.Background(), "hello world-fr")
	if !ok || value != "bonjour le monde" {
		t.Errorf("expected cached 'bonjour le monde', got %q (hit=%v)", value, ok)
	}
}

func TestCache_ReadOnlyStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	New(s, nil).Put(ctx, "hello world-fr", "bonjour le monde")
	s.Close()

	ro, err := store.New("file:" + dbPath + "?mode=ro")
	if err != nil {
		t.Fatalf("read-only open failed: %v", err)
	}
	defer ro.Close()

	value, ok := New(ro, nil).Get(ctx, "hello world-fr")
	if !ok || value != "bonjour le monde" {
		t.Errorf("expected hit from read-only store, got %q (hit=%v)", value, ok)
	}
}
