package logger

import (
	"context"
	"log/slog"
)

type ctxKey struct{ name string }

var (
	commandKey = ctxKey{"command"}
	storeKey   = ctxKey{"store"}
)

// WithCommand stores the running command name on ctx for CommandExtractor.
func WithCommand(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, commandKey, name)
}

// WithStore stores the snapshot store driver on ctx for StoreExtractor.
func WithStore(ctx context.Context, driver string) context.Context {
	return context.WithValue(ctx, storeKey, driver)
}

// CommandExtractor adds a "command" attribute when the context carries one.
func CommandExtractor(ctx context.Context) (slog.Attr, bool) {
	return stringAttr(ctx, commandKey, "command")
}

// StoreExtractor adds a "store" attribute when the context carries one.
func StoreExtractor(ctx context.Context) (slog.Attr, bool) {
	return stringAttr(ctx, storeKey, "store")
}

func stringAttr(ctx context.Context, key ctxKey, attr string) (slog.Attr, bool) {
	if ctx == nil {
		return slog.Attr{}, false
	}
	if v, ok := ctx.Value(key).(string); ok && v != "" {
		return slog.String(attr, v), true
	}
	return slog.Attr{}, false
}
