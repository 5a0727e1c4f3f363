package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DefaultSnapshotTable is the table created by the db package migrations.
const DefaultSnapshotTable = "cache_snapshots"

// Querier is the subset of *pgxpool.Pool used by PostgresStore.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore implements BlobStore as rows of a key/bytea table.
type PostgresStore struct {
	db    Querier
	table string
}

// NewPostgres creates a store over the given pool.
// An empty table name selects DefaultSnapshotTable.
func NewPostgres(db Querier, table string) *PostgresStore {
	if table == "" {
		table = DefaultSnapshotTable
	}
	return &PostgresStore{
		db:    db,
		table: pgx.Identifier{table}.Sanitize(),
	}
}

// Read returns the blob stored under key.
func (s *PostgresStore) Read(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(ctx,
		fmt.Sprintf(`SELECT data FROM %s WHERE key = $1`, s.table),
		key,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrReadFailed, err)
	}
	return data, nil
}

// Write upserts the blob stored under key.
func (s *PostgresStore) Write(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return ErrInvalidKey
	}

	_, err := s.db.Exec(ctx,
		fmt.Sprintf(`INSERT INTO %s (key, data, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`, s.table),
		key, data,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return nil
}

// Delete removes the row stored under key.
func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE key = $1`, s.table), key)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	return nil
}

var _ BlobStore = (*PostgresStore)(nil)
