package redis

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/30675137/Cinema-Bussiness-Center-Platform-sub009/pkg/logger"
)

// Open creates a Redis client from cfg and pings it, retrying with a
// linear backoff. Failed attempts are logged to log; nil discards them.
//
// Example:
//
//	client, err := redis.Open(ctx, redis.Config{
//	    URL:      "redis://localhost:6379/0",
//	    PoolSize: 8,
//	}, log)
func Open(ctx context.Context, cfg Config, log *slog.Logger) (redis.UniversalClient, error) {
	opts, err := clientOptions(cfg)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNope()
	}
	cfg.applyDefaults()

	for i := range max(cfg.RetryAttempts, 1) {
		client := redis.NewClient(opts)

		err := client.Ping(ctx).Err()
		if err == nil {
			return client, nil
		}
		_ = client.Close()

		log.WarnContext(ctx, "redis connection attempt failed",
			slog.Int("attempt", i+1),
			slog.String("addr", opts.Addr),
			slog.Any("error", err),
		)

		if err := wait(ctx, time.Duration(i+1)*cfg.RetryInterval); err != nil {
			return nil, errors.Join(ErrConnectionFailed, err)
		}
	}

	return nil, ErrConnectionFailed
}

// clientOptions validates cfg.URL and maps cfg onto go-redis options.
func clientOptions(cfg Config) (*redis.Options, error) {
	if cfg.URL == "" {
		return nil, ErrEmptyConnectionURL
	}
	if !strings.HasPrefix(cfg.URL, "redis://") && !strings.HasPrefix(cfg.URL, "rediss://") {
		return nil, ErrFailedToParseURL
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseURL, err)
	}

	cfg.applyDefaults()
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.ConnMaxIdleTime = cfg.MaxIdleTime
	opts.ConnMaxLifetime = cfg.MaxActiveTime
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout
	opts.DialTimeout = cfg.DialTimeout
	return opts, nil
}

func wait(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
