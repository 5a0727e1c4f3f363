// Package server runs an HTTP handler until the process is signalled,
// then shuts it down and runs cleanup hooks.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/30675137/Cinema-Bussiness-Center-Platform-sub009/pkg/logger"
)

const (
	defaultAddress           = ":9090"
	defaultShutdownTimeout   = 10 * time.Second
	defaultReadTimeout       = 5 * time.Second
	defaultReadHeaderTimeout = 2 * time.Second
	defaultWriteTimeout      = 15 * time.Second
	defaultIdleTimeout       = 60 * time.Second
)

// Hook runs during shutdown with the shutdown deadline.
type Hook func(ctx context.Context) error

// Config describes the server to run.
type Config struct {
	Handler         http.Handler
	Address         string
	Logger          *slog.Logger
	ReadTimeout     time.Duration
	ShutdownTimeout time.Duration
	ShutdownHooks   []Hook
}

// Run serves cfg.Handler until ctx is cancelled or SIGINT/SIGTERM arrives.
// Shutdown hooks run in order after the listener closes; their errors are
// joined with any shutdown error.
func Run(ctx context.Context, cfg Config) error {
	ln, err := net.Listen("tcp", orDefault(cfg.Address, defaultAddress))
	if err != nil {
		return err
	}
	return Serve(ctx, ln, cfg)
}

// Serve is Run on an existing listener.
func Serve(ctx context.Context, ln net.Listener, cfg Config) error {
	log := cfg.Logger
	if log == nil {
		log = logger.NewNope()
	}

	server := &http.Server{
		Handler:           cfg.Handler,
		ReadTimeout:       orDefault(cfg.ReadTimeout, defaultReadTimeout),
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.WithoutCancel(ctx), orDefault(cfg.ShutdownTimeout, defaultShutdownTimeout))
	defer shutdownCancel()

	var errs []error
	if err := server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}

	for _, hook := range cfg.ShutdownHooks {
		if err := hook(shutdownCtx); err != nil {
			errs = append(errs, err)
			log.Error("shutdown hook failed", slog.Any("error", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	log.Info("shutdown completed")
	return nil
}

func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
