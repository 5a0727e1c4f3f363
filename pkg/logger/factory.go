package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config controls the handler built by New and NewWithSentry.
type Config struct {
	// Output defaults to os.Stdout.
	Output io.Writer
	// Format is "json" (default) or "text".
	Format string `yaml:"format"`
	// Level is one of debug, info, warn, error. Defaults to info.
	Level string `yaml:"level"`
}

// New creates a structured logger with optional context extractors.
func New(cfg Config, extractors ...ContextExtractor) *slog.Logger {
	return slog.New(NewContextHandler(newBaseHandler(cfg), extractors...))
}

// ParseLevel maps a level name to a slog.Level, falling back to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newBaseHandler(cfg Config) slog.Handler {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.NewTextHandler(out, opts)
	}
	return slog.NewJSONHandler(out, opts)
}
