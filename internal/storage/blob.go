package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound means no blob has ever been saved for that user
var ErrNotFound = errors.New("progress blob not found")

// BlobStore persists one opaque progress blob per user. The progress service
// owns the blob contents; the store just has to keep each Save atomic so a
// half-written blob can never be read back.
type BlobStore interface {
	// Load returns the saved blob for a user, ErrNotFound if none exists
	Load(ctx context.Context, userID uuid.UUID) ([]byte, error)

	// Save replaces the user's blob atomically
	Save(ctx context.Context, userID uuid.UUID, blob []byte) error

	// Reset deletes the user's blob. Deleting a missing blob is not an error.
	Reset(ctx context.Context, userID uuid.UUID) error

	// ResetAll wipes every stored blob - factory reset support
	ResetAll(ctx context.Context) error

	// Close releases any underlying resources
	Close() error
}
