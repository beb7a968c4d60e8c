package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileStore keeps one JSON file per user under a data directory.
// Good enough for a single-machine deployment and for tests.
type FileStore struct {
	dir string
}

// NewFileStore creates the data directory if needed and returns the store
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(userID uuid.UUID) string {
	return filepath.Join(s.dir, "progress-"+userID.String()+".json")
}

// Load reads the user's blob from disk
func (s *FileStore) Load(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	data, err := os.ReadFile(s.path(userID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading progress blob: %w", err)
	}
	return data, nil
}

// Save writes to a temp file first and renames it into place, so readers
// never observe a partially written blob
func (s *FileStore) Save(ctx context.Context, userID uuid.UUID, blob []byte) error {
	target := s.path(userID)
	tmp, err := os.CreateTemp(s.dir, "progress-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing progress blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing progress blob: %w", err)
	}
	return nil
}

// Reset deletes the user's blob file
func (s *FileStore) Reset(ctx context.Context, userID uuid.UUID) error {
	err := os.Remove(s.path(userID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing progress blob: %w", err)
	}
	return nil
}

// ResetAll removes every progress file in the data directory
func (s *FileStore) ResetAll(ctx context.Context) error {
	matches, err := filepath.Glob(filepath.Join(s.dir, "progress-*.json"))
	if err != nil {
		return fmt.Errorf("listing progress blobs: %w", err)
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", m, err)
		}
	}
	return nil
}

// Close is a no-op for the file backend
func (s *FileStore) Close() error { return nil }
