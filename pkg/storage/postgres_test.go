package storage_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/30675137/Cinema-Bussiness-Center-Platform-sub009/pkg/storage"
)

// fakeQuerier emulates the snapshot table in memory.
type fakeQuerier struct {
	rows    map[string][]byte
	queries []string
	failErr error
	mu      sync.Mutex
}

func newFakeQuerier() *fakeQuerier {
	return &fakeQuerier{rows: make(map[string][]byte)}
}

type fakeRow struct {
	data []byte
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]byte)) = r.data
	return nil
}

func (q *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.queries = append(q.queries, sql)
	if q.failErr != nil {
		return fakeRow{err: q.failErr}
	}
	data, ok := q.rows[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{data: data}
}

func (q *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.queries = append(q.queries, sql)
	if q.failErr != nil {
		return pgconn.CommandTag{}, q.failErr
	}
	key := args[0].(string)
	switch {
	case strings.HasPrefix(sql, "INSERT"):
		q.rows[key] = args[1].([]byte)
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	case strings.HasPrefix(sql, "DELETE"):
		delete(q.rows, key)
		return pgconn.NewCommandTag("DELETE 1"), nil
	}
	return pgconn.CommandTag{}, errors.New("unexpected statement")
}

func TestPostgresStore(t *testing.T) {
	t.Parallel()

	t.Run("contract", func(t *testing.T) {
		t.Parallel()
		testBlobStore(t, storage.NewPostgres(newFakeQuerier(), ""))
	})

	t.Run("uses sanitized table name", func(t *testing.T) {
		t.Parallel()

		q := newFakeQuerier()
		s := storage.NewPostgres(q, "custom_snapshots")
		_, _ = s.Read(context.Background(), "k")

		require.Len(t, q.queries, 1)
		require.Contains(t, q.queries[0], `"custom_snapshots"`)
	})

	t.Run("default table", func(t *testing.T) {
		t.Parallel()

		q := newFakeQuerier()
		s := storage.NewPostgres(q, "")
		require.NoError(t, s.Write(context.Background(), "k", []byte("v")))
		require.Contains(t, q.queries[0], `"cache_snapshots"`)
	})

	t.Run("wraps driver errors", func(t *testing.T) {
		t.Parallel()

		q := newFakeQuerier()
		q.failErr = errors.New("connection reset")
		s := storage.NewPostgres(q, "")

		_, err := s.Read(context.Background(), "k")
		require.ErrorIs(t, err, storage.ErrReadFailed)

		err = s.Write(context.Background(), "k", []byte("v"))
		require.ErrorIs(t, err, storage.ErrWriteFailed)

		err = s.Delete(context.Background(), "k")
		require.ErrorIs(t, err, storage.ErrDeleteFailed)
	})

	t.Run("rejects empty key", func(t *testing.T) {
		t.Parallel()
		err := storage.NewPostgres(newFakeQuerier(), "").Write(context.Background(), "", nil)
		require.ErrorIs(t, err, storage.ErrInvalidKey)
	})
}
