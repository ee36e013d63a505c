// Package postgres is a store.Store backed by a PostgreSQL table.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matzehuels/journey/pkg/store"
)

// DefaultTable is the table used when none is configured.
const DefaultTable = "journeys"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS %[1]s (
    key        TEXT PRIMARY KEY,
    data       JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PGStore implements store.Store using PostgreSQL via pgx.
type PGStore struct {
	db    *pgxpool.Pool
	table string
}

// New creates a PGStore over an existing pool. An empty table selects
// [DefaultTable]. Close closes the pool.
func New(db *pgxpool.Pool, table string) *PGStore {
	if table == "" {
		table = DefaultTable
	}
	return &PGStore{db: db, table: pgx.Identifier{table}.Sanitize()}
}

// Connect opens a pool for dsn, creates the table if needed and returns the
// store.
func Connect(ctx context.Context, dsn, table string) (*PGStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres store: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres store: ping: %w", err)
	}
	s := New(pool, table)
	if err := s.CreateSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// CreateSchema creates the journeys table if it does not exist.
func (s *PGStore) CreateSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, fmt.Sprintf(schemaSQL, s.table)); err != nil {
		return fmt.Errorf("postgres store: create schema: %w", err)
	}
	return nil
}

// DropSchema drops the journeys table.
func (s *PGStore) DropSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, "DROP TABLE IF EXISTS "+s.table); err != nil {
		return fmt.Errorf("postgres store: drop schema: %w", err)
	}
	return nil
}

func (s *PGStore) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(ctx,
		fmt.Sprintf(`SELECT data FROM %s WHERE key = $1`, s.table), key,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("postgres store: get %s: %w", key, err)
	}
	return data, nil
}

func (s *PGStore) Set(ctx context.Context, key string, data []byte) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (key, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = EXCLUDED.updated_at
	`, s.table)
	if _, err := s.db.Exec(ctx, query, key, string(data)); err != nil {
		return fmt.Errorf("postgres store: set %s: %w", key, err)
	}
	return nil
}

func (s *PGStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE key = $1`, s.table), key); err != nil {
		return fmt.Errorf("postgres store: delete %s: %w", key, err)
	}
	return nil
}

func (s *PGStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, fmt.Sprintf(`SELECT key FROM %s ORDER BY key COLLATE "C"`, s.table))
	if err != nil {
		return nil, fmt.Errorf("postgres store: list: %w", err)
	}
	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("postgres store: scan keys: %w", err)
	}
	return keys, nil
}

// Close closes the pool.
func (s *PGStore) Close() error {
	s.db.Close()
	return nil
}

var _ store.Store = (*PGStore)(nil)
