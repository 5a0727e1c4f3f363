package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/30675137/Cinema-Bussiness-Center-Platform-sub009/internal/server"
	"github.com/30675137/Cinema-Bussiness-Center-Platform-sub009/pkg/cache"
	"github.com/30675137/Cinema-Bussiness-Center-Platform-sub009/pkg/health"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve cache stats, Prometheus metrics and health probes over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			ctx := a.context(cmd)

			for _, ref := range a.cfg.Caches {
				kind, err := cache.ParseKind(ref.Kind)
				if err != nil {
					return errors.Join(err, a.close(ctx))
				}
				if _, err := cache.Instance[any](ctx, a.registry, ref.Name, kind, a.cfg.Cache); err != nil {
					return errors.Join(err, a.close(ctx))
				}
				a.log.InfoContext(ctx, "cache opened",
					slog.String("cache", ref.Name),
					slog.String("kind", string(kind)),
				)
			}

			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			return server.Run(ctx, server.Config{
				Handler:         a.router(),
				Address:         addr,
				Logger:          a.log,
				ReadTimeout:     a.cfg.Server.ReadTimeout,
				ShutdownTimeout: a.cfg.Server.ShutdownTimeout,
				ShutdownHooks:   a.shutdownHooks(),
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

// router exposes the registry over HTTP.
func (a *app) router() http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		cache.NewCollector(a.registry),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	checks := health.Checks{"persist": health.PersistCheck(a.registry, 0)}
	for name, check := range a.checks {
		checks[name] = check
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)

	r.Get("/livez", health.LivenessHandler())
	r.Get("/readyz", health.ReadinessHandler(checks,
		health.WithTimeout(a.cfg.Server.HealthTimeout),
		health.WithLogger(a.log),
	))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Get("/stats", a.handleStats)
	r.Get("/stats/{name}", a.handleCacheStats)

	return r
}

func (a *app) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.registry.AllStats())
}

// handleCacheStats looks a cache up by registry key, e.g. /stats/local:products.
func (a *app) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	for _, ns := range a.registry.AllStats() {
		if ns.Name == name {
			writeJSON(w, http.StatusOK, ns)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "cache not found"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
