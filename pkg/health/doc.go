// Package health runs dependency checks for the cachectl HTTP server.
//
// [Run] executes [Checks] concurrently under one timeout and aggregates the
// results into a [Response]. [LivenessHandler] and [ReadinessHandler] expose
// them over HTTP; both answer with JSON when the request has ?format=json or
// an Accept header containing application/json, and with plain text
// otherwise.
//
// Check constructors for the cache stack:
//
//   - [StoreCheck] round-trips a probe blob through a storage.BlobStore.
//   - [PersistCheck] fails when a registry's caches report snapshot failures.
//
// Connection packages provide their own closures, for example
// redis.Healthcheck and db.Healthcheck:
//
//	r := chi.NewRouter()
//	r.Get("/livez", health.LivenessHandler())
//	r.Get("/readyz", health.ReadinessHandler(health.Checks{
//		"store":   health.StoreCheck(store, "_health"),
//		"persist": health.PersistCheck(reg, 0),
//		"redis":   redis.Healthcheck(client),
//	}, health.WithTimeout(2*time.Second), health.WithLogger(log)))
package health
