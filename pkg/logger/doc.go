// Package logger builds the slog loggers used across the cache subsystem.
//
// It wraps the standard log/slog handlers with two additions: context
// extractors that copy request-scoped values (command name, store driver) into every
// record, and optional Sentry fan-out for warnings and errors.
//
// # Basic Usage
//
//	log := logger.New(logger.Config{Level: "debug"},
//		logger.CommandExtractor,
//		logger.StoreExtractor,
//	)
//
//	ctx := logger.WithCommand(context.Background(), "purge")
//	log.WarnContext(ctx, "snapshot load failed", slog.Any("error", err))
//	// {"level":"WARN","msg":"snapshot load failed","error":"...","command":"purge"}
//
// # Sentry Integration
//
//	log := logger.NewWithSentry(logger.SentryConfig{
//		DSN:      os.Getenv("SENTRY_DSN"),
//		MinLevel: slog.LevelWarn,
//	}, logger.Config{})
//
// An empty DSN, or a failed Sentry initialization, falls back to the base
// handler only, so the same code path works in development and production.
//
// # Library Defaults
//
// Library packages default to [NewNope] so nothing is printed unless the
// caller injects a logger.
package logger
