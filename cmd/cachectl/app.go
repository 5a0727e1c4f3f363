package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/30675137/Cinema-Bussiness-Center-Platform-sub009/internal/config"
	"github.com/30675137/Cinema-Bussiness-Center-Platform-sub009/internal/server"
	"github.com/30675137/Cinema-Bussiness-Center-Platform-sub009/pkg/cache"
	"github.com/30675137/Cinema-Bussiness-Center-Platform-sub009/pkg/db"
	"github.com/30675137/Cinema-Bussiness-Center-Platform-sub009/pkg/health"
	"github.com/30675137/Cinema-Bussiness-Center-Platform-sub009/pkg/logger"
	"github.com/30675137/Cinema-Bussiness-Center-Platform-sub009/pkg/redis"
	"github.com/30675137/Cinema-Bussiness-Center-Platform-sub009/pkg/storage"
)

// app holds everything a command needs: configuration, logger, the durable
// store and a registry whose local caches persist to it.
type app struct {
	cfg      config.Config
	log      *slog.Logger
	store    storage.BlobStore
	registry *cache.Registry
	checks   health.Checks
	closers  []server.Hook
}

func newApp(cmd *cobra.Command) (*app, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	cfg.Log.Output = cmd.ErrOrStderr()

	log := logger.NewWithSentry(cfg.Sentry, cfg.Log, logger.CommandExtractor, logger.StoreExtractor)

	a := &app{cfg: cfg, log: log, checks: health.Checks{}}
	ctx := a.context(cmd)
	if err := a.openStore(ctx); err != nil {
		return nil, errors.Join(err, a.close(ctx))
	}
	a.checks["store"] = health.StoreCheck(a.store, "_cachectl_health")

	codec, err := cfg.CacheCodec()
	if err != nil {
		return nil, errors.Join(err, a.close(ctx))
	}
	a.registry = cache.NewRegistry(
		cache.WithLocalStore(a.store),
		cache.WithCodec(codec),
		cache.WithRegistryLogger(log),
	)
	a.closers = append(a.closers, func(context.Context) error {
		a.registry.ClearAll()
		return nil
	})

	return a, nil
}

func (a *app) openStore(ctx context.Context) error {
	sc := a.cfg.Store

	switch sc.Driver {
	case config.DriverFile:
		store, err := storage.NewDirStore(sc.Dir)
		if err != nil {
			return err
		}
		a.store = store

	case config.DriverRedis:
		client, err := redis.Open(ctx, sc.Redis, a.log)
		if err != nil {
			return err
		}
		a.store = storage.NewRedis(client,
			storage.WithRedisPrefix(sc.Prefix),
			storage.WithRedisTTL(sc.TTL),
		)
		a.checks["redis"] = redis.Healthcheck(client)
		a.closers = append(a.closers, redis.Shutdown(client))

	case config.DriverS3:
		s3cfg := sc.S3
		if s3cfg.Prefix == "" {
			s3cfg.Prefix = sc.Prefix
		}
		store, err := storage.NewS3(s3cfg)
		if err != nil {
			return err
		}
		a.store = store
		a.checks["s3"] = store.Healthcheck()

	case config.DriverPostgres:
		pool, err := db.Connect(ctx, sc.Postgres, a.log)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, db.Shutdown(pool))
		if err := db.Migrate(ctx, pool, sc.Postgres, a.log); err != nil {
			return err
		}
		a.store = storage.NewPostgres(pool, storage.DefaultSnapshotTable)
		a.checks["postgres"] = db.Healthcheck(pool)

	default:
		return fmt.Errorf("%w: unknown store driver %q", config.ErrInvalidConfig, sc.Driver)
	}

	return nil
}

// context decorates the command context with attributes picked up by the
// logger's extractors.
func (a *app) context(cmd *cobra.Command) context.Context {
	return logger.WithStore(logger.WithCommand(cmd.Context(), cmd.Name()), a.cfg.Store.Driver)
}

// openCache returns a registry cache holding arbitrary decoded values.
// Background cleanup is disabled so one-shot commands see exactly what
// was persisted.
func (a *app) openCache(ctx context.Context, name, kind string) (*cache.Cache[any], error) {
	k, err := cache.ParseKind(kind)
	if err != nil {
		return nil, err
	}
	cfg := a.cfg.Cache
	cfg.AutoCleanup = false
	return cache.Instance[any](ctx, a.registry, name, k, cfg)
}

// close runs closers in reverse order.
func (a *app) close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// shutdownHooks returns closers in the order server.Run should call them.
func (a *app) shutdownHooks() []server.Hook {
	hooks := make([]server.Hook, 0, len(a.closers))
	for i := len(a.closers) - 1; i >= 0; i-- {
		hooks = append(hooks, a.closers[i])
	}
	return hooks
}
