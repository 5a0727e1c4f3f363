package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/30675137/Cinema-Bussiness-Center-Platform-sub009/pkg/logger"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("injects context attributes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.Config{Output: &buf},
			logger.CommandExtractor,
			logger.StoreExtractor,
		)

		ctx := logger.WithCommand(context.Background(), "purge")
		ctx = logger.WithStore(ctx, "redis")
		log.InfoContext(ctx, "loaded")

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		require.Equal(t, "loaded", rec["msg"])
		require.Equal(t, "purge", rec["command"])
		require.Equal(t, "redis", rec["store"])
	})

	t.Run("skips missing attributes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.Config{Output: &buf}, logger.CommandExtractor, nil)
		log.InfoContext(context.Background(), "plain")

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		require.NotContains(t, rec, "command")
	})

	t.Run("respects level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.Config{Output: &buf, Level: "warn", Format: "text"})
		log.Info("hidden")
		require.Empty(t, buf.String())

		log.Warn("shown")
		require.Contains(t, buf.String(), "shown")
	})
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	require.Equal(t, slog.LevelDebug, logger.ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, logger.ParseLevel("warning"))
	require.Equal(t, slog.LevelError, logger.ParseLevel("error"))
	require.Equal(t, slog.LevelInfo, logger.ParseLevel("bogus"))
}

func TestNewWithSentry_NoDSN(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.NewWithSentry(logger.SentryConfig{}, logger.Config{Output: &buf})
	log.Error("boom")
	require.Contains(t, buf.String(), "boom")
}

func TestNewNope(t *testing.T) {
	t.Parallel()

	log := logger.NewNope()
	require.False(t, log.Enabled(context.Background(), slog.LevelError))
}
