package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestContextHandler(t *testing.T) {
	t.Parallel()

	newLog := func(buf *bytes.Buffer) *slog.Logger {
		return slog.New(NewContextHandler(slog.NewJSONHandler(buf, nil), StoreExtractor, nil))
	}
	ctx := WithStore(context.Background(), "redis")

	t.Run("record attribute wins over context", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		newLog(&buf).InfoContext(ctx, "saved", slog.String("store", "s3"))

		require.Equal(t, 1, strings.Count(buf.String(), `"store"`), buf.String())
		require.Contains(t, buf.String(), `"store":"s3"`)
	})

	t.Run("bound attribute wins over context", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		newLog(&buf).With("store", "file").InfoContext(ctx, "saved")

		require.Equal(t, 1, strings.Count(buf.String(), `"store"`), buf.String())
		require.Contains(t, buf.String(), `"store":"file"`)
	})

	t.Run("bound attribute inside a group", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		newLog(&buf).WithGroup("cache").With("store", "file").InfoContext(ctx, "saved")

		require.Equal(t, 1, strings.Count(buf.String(), `"store"`), buf.String())
		require.Contains(t, buf.String(), `"cache":{"store":"file"}`)
	})

	t.Run("group opened after binding starts fresh", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		newLog(&buf).With("store", "file").WithGroup("cache").InfoContext(ctx, "saved")

		require.Contains(t, buf.String(), `"store":"file"`)
		require.Contains(t, buf.String(), `"cache":{"store":"redis"}`)
	})

	t.Run("context attribute added when absent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		newLog(&buf).InfoContext(ctx, "saved", slog.Int("items", 3))
		require.Contains(t, buf.String(), `"store":"redis"`)
	})
}

func TestFanout(t *testing.T) {
	t.Parallel()

	var first, second bytes.Buffer
	failing := errHandler{err: errors.New("sink down")}
	f := fanout{
		slog.NewJSONHandler(&first, nil),
		failing,
		slog.NewJSONHandler(&second, &slog.HandlerOptions{Level: slog.LevelError}),
	}

	log := slog.New(f).With("cache", "products")
	require.True(t, log.Enabled(context.Background(), slog.LevelInfo))

	log.Info("loaded")
	require.Contains(t, first.String(), `"cache":"products"`)
	require.Empty(t, second.String(), "below level")

	err := f.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelError, "boom", 0))
	require.ErrorIs(t, err, failing.err)
	require.Contains(t, second.String(), "boom", "later sinks still run")
}

type errHandler struct{ err error }

func (h errHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h errHandler) Handle(context.Context, slog.Record) error { return h.err }
func (h errHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h errHandler) WithGroup(string) slog.Handler             { return h }
