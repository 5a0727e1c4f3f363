package cache

import (
	"log/slog"
	"time"

	"github.com/30675137/Cinema-Bussiness-Center-Platform-sub009/pkg/logger"
)

// Option configures a Cache.
type Option func(*options)

type options struct {
	clock  func() time.Time
	logger *slog.Logger
}

func defaultOptions() *options {
	return &options{
		clock:  time.Now,
		logger: logger.NewNope(),
	}
}

// WithClock replaces time.Now as the source of write and expiry times.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}

// WithLogger sets the logger for persistence failures and cleanup sweeps.
// Default: no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
