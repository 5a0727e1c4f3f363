package logger

import (
	"context"
	"log/slog"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig holds Sentry integration configuration.
type SentryConfig struct {
	DSN         string `yaml:"dsn"`
	Environment string `yaml:"environment"`
	// MinLevel determines which log levels reach Sentry (warn or error).
	MinLevel slog.Level `yaml:"-"`
}

// NewWithSentry creates a logger that writes to the base handler and to Sentry.
// If DSN is empty, only the base handler is used.
// Context extractors are applied to both destinations.
func NewWithSentry(cfg SentryConfig, base Config, extractors ...ContextExtractor) *slog.Logger {
	stdoutHandler := newBaseHandler(base)

	// If no DSN, fall back to stdout only
	if cfg.DSN == "" {
		return slog.New(NewContextHandler(stdoutHandler, extractors...))
	}

	// Initialize Sentry SDK
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: environment(cfg.Environment),
		EnableLogs:  true,
	}); err != nil {
		// Graceful degradation: log to stdout if Sentry init fails
		slog.New(stdoutHandler).Error("failed to initialize Sentry", slog.String("error", err.Error()))
		return slog.New(NewContextHandler(stdoutHandler, extractors...))
	}

	// Determine which levels to send to Sentry
	eventLevel := []slog.Level{slog.LevelError}
	logLevel := []slog.Level{slog.LevelWarn, slog.LevelError}
	if cfg.MinLevel == slog.LevelError {
		logLevel = []slog.Level{slog.LevelError}
	}

	sentryHandler := sentryslog.Option{
		EventLevel: eventLevel, // Errors create Issues in Sentry
		LogLevel:   logLevel,   // Logs stored for context/search
	}.NewSentryHandler(context.Background())

	// Combine stdout + Sentry handlers
	combinedHandler := fanout{stdoutHandler, sentryHandler}

	// Wrap with decorator so context extractors work for both destinations
	return slog.New(NewContextHandler(combinedHandler, extractors...))
}

func environment(env string) string {
	if env == "" {
		return "production"
	}
	return env
}
