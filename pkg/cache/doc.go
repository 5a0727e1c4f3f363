// Package cache provides a generic in-memory cache with lazy expiration,
// a soft size bound, tag and prefix invalidation, hit/miss statistics and
// optional snapshot persistence.
//
// # Cache
//
// [Cache] stores [Entry] values keyed by string. Every entry records its
// write time in Unix milliseconds and, unless written with [WithNoExpiry],
// an absolute expiration time:
//
//	c := cache.New[string](ctx, "greetings", nil, cache.DefaultConfig())
//	defer c.Close()
//
//	c.Set("en", "hello", cache.WithTTL(time.Minute), cache.WithTags("i18n"))
//	v, ok := c.Get("en")
//
// Expired entries are removed lazily by [Cache.Get] and [Cache.Has], and in
// bulk by [Cache.Cleanup]. Get counts a hit or a miss; Has never does.
// Stats.TotalItems counts stored entries, so it includes expired entries
// that nothing has removed yet.
//
// # Eviction
//
// Config.MaxEntries is a soft bound: Set never evicts. Cleanup removes
// expired entries and then, if the cache is still over the bound, evicts the
// entry with the oldest write time. One sweep evicts one entry unless
// Config.StrictBound is set. When Config.AutoCleanup is on, a
// [scheduler.Scheduler] runs Cleanup every Config.CleanupInterval, or on the
// cron expression in Config.CleanupSchedule, until [Cache.Close].
//
// # Persistence
//
// A cache loads its entries from a [Backend] when it is created. Set, Delete
// and Clear change memory only; [Cache.SetSync], [Cache.DeleteSync] and
// [Cache.ClearSync] also write the whole cache back. Load and save failures
// are logged and counted in Stats.PersistFailures; they are never returned,
// and a failed load starts the cache empty.
//
// [BlobBackend] writes a single snapshot blob to any [storage.BlobStore]
// using [JSONCodec] or [MsgpackCodec]. The JSON form is
//
//	{"items": [["key", {"key": "key", "value": ..., "timestamp": 1700000000000, "expireTime": 1700000060000, "tags": ["t"]}]], "config": {...}}
//
// # Registry
//
// [Registry] hands out one cache per kind and name. [KindMemory] caches are
// not persisted, [KindLocal] caches use the registry's durable store and
// [KindSession] caches use a store that lives as long as the registry:
//
//	reg := cache.NewRegistry(cache.WithLocalStore(files))
//	products, err := cache.Instance[Product](ctx, reg, "products", cache.KindLocal)
//
// A registry can travel on a context with [ContextWithRegistry].
// [Registry.ClearAll] closes every cache; snapshots stay in their stores.
//
// # Helpers
//
// [GetOrSet] computes missing values once per key across concurrent
// callers. [Memoize] wraps a function with a cache, and [Key] derives keys
// from call arguments. [NewCollector] exports registry stats to Prometheus.
package cache
