package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClientOptions(t *testing.T) {
	t.Parallel()

	t.Run("rejects bad urls", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			url  string
			want error
		}{
			{"", ErrEmptyConnectionURL},
			{"http://localhost:6379", ErrFailedToParseURL},
			{"localhost:6379", ErrFailedToParseURL},
			{"postgresql://localhost:6379", ErrFailedToParseURL},
			{"redis://localhost:notaport", ErrFailedToParseURL},
			{"redis://localhost:6379/notanumber", ErrFailedToParseURL},
		}
		for _, tt := range tests {
			opts, err := clientOptions(Config{URL: tt.url})
			require.ErrorIs(t, err, tt.want, tt.url)
			require.Nil(t, opts)
		}
	})

	t.Run("zero config gets defaults", func(t *testing.T) {
		t.Parallel()

		opts, err := clientOptions(Config{URL: "redis://localhost:6379/2"})
		require.NoError(t, err)
		require.Equal(t, "localhost:6379", opts.Addr)
		require.Equal(t, 2, opts.DB)
		require.Equal(t, DefaultPoolSize, opts.PoolSize)
		require.Equal(t, DefaultMinIdleConns, opts.MinIdleConns)
		require.Equal(t, DefaultMaxIdleTime, opts.ConnMaxIdleTime)
		require.Equal(t, DefaultMaxActiveTime, opts.ConnMaxLifetime)
		require.Equal(t, DefaultReadTimeout, opts.ReadTimeout)
		require.Equal(t, DefaultWriteTimeout, opts.WriteTimeout)
		require.Equal(t, DefaultDialTimeout, opts.DialTimeout)
	})

	t.Run("explicit settings win", func(t *testing.T) {
		t.Parallel()

		opts, err := clientOptions(Config{
			URL:           "rediss://cache.internal:6380",
			PoolSize:      16,
			MinIdleConns:  2,
			MaxIdleTime:   time.Minute,
			MaxActiveTime: time.Hour,
			ReadTimeout:   time.Second,
			WriteTimeout:  2 * time.Second,
			DialTimeout:   500 * time.Millisecond,
		})
		require.NoError(t, err)
		require.NotNil(t, opts.TLSConfig)
		require.Equal(t, 16, opts.PoolSize)
		require.Equal(t, 2, opts.MinIdleConns)
		require.Equal(t, time.Minute, opts.ConnMaxIdleTime)
		require.Equal(t, time.Hour, opts.ConnMaxLifetime)
		require.Equal(t, time.Second, opts.ReadTimeout)
		require.Equal(t, 2*time.Second, opts.WriteTimeout)
		require.Equal(t, 500*time.Millisecond, opts.DialTimeout)
	})
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("invalid url fails before dialing", func(t *testing.T) {
		t.Parallel()

		client, err := Open(context.Background(), Config{URL: "http://localhost"}, nil)
		require.ErrorIs(t, err, ErrFailedToParseURL)
		require.Nil(t, client)
	})

	t.Run("cancelled context stops retrying", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		start := time.Now()
		client, err := Open(ctx, Config{
			URL:           "redis://127.0.0.1:1/0",
			RetryAttempts: 5,
			RetryInterval: 10 * time.Second,
			DialTimeout:   100 * time.Millisecond,
		}, nil)
		require.ErrorIs(t, err, ErrConnectionFailed)
		require.ErrorIs(t, err, context.Canceled)
		require.Nil(t, client)
		require.Less(t, time.Since(start), 5*time.Second)
	})
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	err := Healthcheck(nil)(context.Background())
	require.ErrorIs(t, err, ErrHealthcheckFailed)
}

func TestShutdown(t *testing.T) {
	t.Parallel()

	closer := &recordingCloser{err: errors.New("already closed")}
	err := Shutdown(closer)(context.Background())
	require.EqualError(t, err, "already closed")
	require.True(t, closer.closed)
}

func TestWait(t *testing.T) {
	t.Parallel()

	require.NoError(t, wait(context.Background(), 10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, wait(ctx, time.Hour), context.Canceled)
}

type recordingCloser struct {
	closed bool
	err    error
}

func (c *recordingCloser) Close() error {
	c.closed = true
	return c.err
}
