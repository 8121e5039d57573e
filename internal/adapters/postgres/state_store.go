package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/around-app/around/internal/core/domain"
)

// StateStore implements ports.StateStore on the client_state table.
type StateStore struct {
	db *DB
}

// NewStateStore creates a new StateStore.
func NewStateStore(db *DB) *StateStore {
	return &StateStore{db: db}
}

// Get returns the value stored under key.
func (s *StateStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.Pool.QueryRow(ctx, `SELECT value FROM client_state WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return value, nil
}

// Put inserts or overwrites the value under key.
func (s *StateStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.Pool.Exec(ctx, `
		INSERT INTO client_state (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *StateStore) Delete(ctx context.Context, key string) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM client_state WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStateNotFound
	}
	return nil
}
