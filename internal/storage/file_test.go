package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func TestFileStore_LoadMissingReturnsNotFound(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if _, err := store.Load(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFileStore_SaveThenLoad(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx := context.Background()
	user := uuid.New()
	blob := []byte(`{"lessons":{}}`)

	if err := store.Save(ctx, user, blob); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load(ctx, user)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != string(blob) {
		t.Fatalf("blob changed on round trip: %s", got)
	}

	// overwrite replaces the old content
	if err := store.Save(ctx, user, []byte(`{"v":2}`)); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	got, _ = store.Load(ctx, user)
	if string(got) != `{"v":2}` {
		t.Fatalf("overwrite didn't take: %s", got)
	}
}

func TestFileStore_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := store.Save(context.Background(), uuid.New(), []byte("{}")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	tmps, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	if len(tmps) != 0 {
		t.Fatalf("temp files left behind: %v", tmps)
	}
}

func TestFileStore_Reset(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx := context.Background()
	user := uuid.New()

	if err := store.Save(ctx, user, []byte("{}")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Reset(ctx, user); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if _, err := store.Load(ctx, user); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after reset, got %v", err)
	}

	// resetting a user with no blob is fine
	if err := store.Reset(ctx, uuid.New()); err != nil {
		t.Fatalf("Reset on missing blob: %v", err)
	}
}

func TestFileStore_ResetAll(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx := context.Background()

	users := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	for _, u := range users {
		if err := store.Save(ctx, u, []byte("{}")); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	// an unrelated file in the same directory must survive
	unrelated := filepath.Join(dir, "profiles.json")
	if err := os.WriteFile(unrelated, []byte("[]"), 0o644); err != nil {
		t.Fatalf("writing unrelated file: %v", err)
	}

	if err := store.ResetAll(ctx); err != nil {
		t.Fatalf("ResetAll: %v", err)
	}
	for _, u := range users {
		if _, err := store.Load(ctx, u); !errors.Is(err, ErrNotFound) {
			t.Fatalf("blob for %s survived ResetAll: %v", u, err)
		}
	}
	if _, err := os.Stat(unrelated); err != nil {
		t.Fatalf("unrelated file removed by ResetAll: %v", err)
	}
}
