package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgKV is a PostgreSQL-backed blob store.
type PgKV struct {
	pool *pgxpool.Pool
}

// NewPgKV creates a PgKV over an existing pool.
func NewPgKV(pool *pgxpool.Pool) *PgKV {
	return &PgKV{pool: pool}
}

// OpenPgKV connects to databaseURL and ensures the blob table exists.
func OpenPgKV(ctx context.Context, databaseURL string) (*PgKV, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("postgres storage requires database_url")
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	kv := NewPgKV(pool)
	if err := kv.EnsureTable(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure blob table: %w", err)
	}
	return kv, nil
}

// EnsureTable creates the blob table if it doesn't exist.
func (s *PgKV) EnsureTable(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS flowtask_blobs (
			name       TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	return err
}

// Get retrieves the blob called name.
func (s *PgKV) Get(ctx context.Context, name string) (string, bool, error) {
	var value string
	err := s.pool.QueryRow(ctx, `SELECT value FROM flowtask_blobs WHERE name = $1`, name).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get blob %s: %w", name, err)
	}
	return value, true, nil
}

// Set upserts the blob called name.
func (s *PgKV) Set(ctx context.Context, name, value string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO flowtask_blobs (name, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		name, value)
	if err != nil {
		return fmt.Errorf("set blob %s: %w", name, err)
	}
	return nil
}

// Close closes the underlying pool.
func (s *PgKV) Close() error {
	s.pool.Close()
	return nil
}
