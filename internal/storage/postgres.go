package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// PostgresStore keeps one row per user in a progress_blobs table.
// The whole blob lives in a single jsonb column - per-entity tables are not
// worth it while every operation rewrites the full state anyway.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an open connection. The store takes ownership and
// closes it on Close.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the blob table if it doesn't exist yet
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS progress_blobs (
			user_id    uuid PRIMARY KEY,
			blob       jsonb NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("creating progress_blobs table: %w", err)
	}
	return nil
}

// Load reads the user's blob row
func (s *PostgresStore) Load(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT blob FROM progress_blobs WHERE user_id = $1`, userID).Scan(&blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading progress blob: %w", err)
	}
	return blob, nil
}

// Save upserts the user's blob row - the upsert is atomic on the primary key
func (s *PostgresStore) Save(ctx context.Context, userID uuid.UUID, blob []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO progress_blobs (user_id, blob, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE SET blob = EXCLUDED.blob, updated_at = now()`,
		userID, blob)
	if err != nil {
		return fmt.Errorf("saving progress blob: %w", err)
	}
	return nil
}

// Reset deletes the user's blob row
func (s *PostgresStore) Reset(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM progress_blobs WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("resetting progress blob: %w", err)
	}
	return nil
}

// ResetAll wipes the whole table
func (s *PostgresStore) ResetAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM progress_blobs`)
	if err != nil {
		return fmt.Errorf("resetting progress blobs: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
