package scheduler

import (
	"log/slog"

	"github.com/30675137/Cinema-Bussiness-Center-Platform-sub009/pkg/logger"
)

// Option configures a Scheduler.
type Option func(*options)

type options struct {
	logger *slog.Logger
	name   string
}

func defaultOptions() *options {
	return &options{
		logger: logger.NewNope(),
		name:   "scheduler",
	}
}

// WithLogger sets the logger used to report panics and dead schedules.
// Default: no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithName labels log records produced by the scheduler.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}
