package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/campus-hub/campus-student-hub/internal/domain/session"
)

// schemaSQL creates the snapshot table. Idempotent, run at store creation.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS hub_kv (
    key        TEXT PRIMARY KEY,
    value      BYTEA NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Store implements the session.Store port on a single key-value table.
// Multi-key atomicity comes from a plain transaction.
type Store struct {
	conn *Connection
}

// NewStore creates a new Store and ensures the snapshot table exists.
func NewStore(ctx context.Context, conn *Connection) (*Store, error) {
	if _, err := conn.Pool().Exec(ctx, schemaSQL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaFailed, err)
	}
	return &Store{conn: conn}, nil
}

// Get returns the value for key, or session.ErrStoreMiss if absent.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.conn.Pool().QueryRow(ctx,
		`SELECT value FROM hub_kv WHERE key = $1`, key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, session.ErrStoreMiss
		}
		return nil, fmt.Errorf("postgres: get %q: %w", key, err)
	}
	return value, nil
}

// Set writes a single key with upsert semantics.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.conn.Pool().Exec(ctx,
		`INSERT INTO hub_kv (key, value, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("postgres: set %q: %w", key, err)
	}
	return nil
}

// SetMulti writes all pairs in one transaction: either every key becomes
// visible or none does.
func (s *Store) SetMulti(ctx context.Context, pairs map[string][]byte) error {
	if len(pairs) == 0 {
		return nil
	}

	tx, err := s.conn.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for key, value := range pairs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO hub_kv (key, value, updated_at) VALUES ($1, $2, now())
			 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
			key, value,
		); err != nil {
			return fmt.Errorf("postgres: set %q: %w", key, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

// Delete removes the given keys. Missing keys are not an error.
func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := s.conn.Pool().Exec(ctx,
		`DELETE FROM hub_kv WHERE key = ANY($1)`, keys,
	)
	if err != nil {
		return fmt.Errorf("postgres: delete: %w", err)
	}
	return nil
}

// Purge removes every key with the given prefix.
func (s *Store) Purge(ctx context.Context, prefix string) error {
	_, err := s.conn.Pool().Exec(ctx,
		`DELETE FROM hub_kv WHERE key LIKE $1 || '%'`, prefix,
	)
	if err != nil {
		return fmt.Errorf("postgres: purge %q: %w", prefix, err)
	}
	return nil
}
