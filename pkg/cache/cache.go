package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/30675137/Cinema-Bussiness-Center-Platform-sub009/pkg/scheduler"
)

// Cache is an in-memory map of entries with lazy expiration, a soft size
// bound enforced by Cleanup, tag and prefix invalidation and hit/miss
// statistics. Set, Delete and Clear touch memory only; their Sync variants
// also write the full map to the Backend.
//
// All methods are safe for concurrent use.
type Cache[V any] struct {
	name    string
	cfg     Config
	backend Backend[V]
	opts    *options
	flight  singleflight.Group

	mu      sync.Mutex
	entries map[string]*Entry[V]
	seq     uint64

	hits            uint64
	misses          uint64
	expired         uint64
	evictions       uint64
	persistFailures uint64

	sched  *scheduler.Scheduler
	closed bool
}

// New builds a cache, loading its initial entries from backend.
// A load failure is logged and leaves the cache empty.
// A nil backend keeps the cache in memory only.
//
// When cfg.AutoCleanup is set, a scheduler runs Cleanup until Close.
//
// Example:
//
//	c := cache.New[string](ctx, "sessions", nil, cache.DefaultConfig())
//	defer c.Close()
//
//	c.Set("user:1", "alice", cache.WithTTL(time.Minute), cache.WithTags("users"))
func New[V any](ctx context.Context, name string, backend Backend[V], cfg Config, opts ...Option) *Cache[V] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if backend == nil {
		backend = NoopBackend[V]{}
	}

	c := &Cache[V]{
		name:    name,
		cfg:     cfg.withDefaults(),
		backend: backend,
		opts:    o,
		entries: make(map[string]*Entry[V]),
	}

	c.load(ctx)

	if c.cfg.AutoCleanup {
		c.sched = scheduler.Start(context.WithoutCancel(ctx), c.schedule(), c.sweep,
			scheduler.WithName(name),
			scheduler.WithLogger(o.logger),
		)
	}

	return c
}

// Name returns the name the cache was created with.
func (c *Cache[V]) Name() string { return c.name }

// Config returns the effective configuration.
func (c *Cache[V]) Config() Config { return c.cfg }

// Set stores value under key, replacing any existing entry entirely.
// Without WithTTL or WithNoExpiry the entry expires after Config.DefaultTTL.
func (c *Cache[V]) Set(key string, value V, opts ...SetOption) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.set(key, value, opts)
}

// Get returns the value for key. A missing or expired key is a miss;
// an expired entry is removed on the way.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return zero, false
	}
	if e.Expired(c.opts.clock()) {
		delete(c.entries, key)
		c.expired++
		c.misses++
		return zero, false
	}

	c.hits++
	return e.Value, true
}

// Has reports whether key holds an unexpired entry. It removes an expired
// entry like Get does, but leaves hit and miss counters untouched.
func (c *Cache[V]) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false
	}
	if e.Expired(c.opts.clock()) {
		delete(c.entries, key)
		c.expired++
		return false
	}
	return true
}

// Delete removes key and reports whether it was present.
func (c *Cache[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.delete(key)
}

// Clear removes every entry. Counters are kept.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
}

// Keys returns the sorted keys of all stored entries, expired or not.
func (c *Cache[V]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// GetAll returns every unexpired value. Expired entries are skipped but
// not removed, and counters are not touched.
func (c *Cache[V]) GetAll() map[string]V {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.opts.clock()
	out := make(map[string]V, len(c.entries))
	for k, e := range c.entries {
		if !e.Expired(now) {
			out[k] = e.Value
		}
	}
	return out
}

// Entry returns a copy of the stored entry for key, expired or not,
// without affecting counters.
func (c *Cache[V]) Entry(key string) (Entry[V], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return Entry[V]{}, false
	}
	cp := *e
	cp.Tags = slices.Clone(e.Tags)
	return cp, true
}

// DeleteByTag removes every entry tagged with tag and returns how many
// were removed. Expired entries are included.
func (c *Cache[V]) DeleteByTag(tag string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.deleteFunc(func(_ string, e *Entry[V]) bool { return e.HasTag(tag) })
}

// DeleteByPrefix removes every entry whose key starts with prefix and
// returns how many were removed. Expired entries are included.
func (c *Cache[V]) DeleteByPrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.deleteFunc(func(k string, _ *Entry[V]) bool { return strings.HasPrefix(k, prefix) })
}

// Stats returns a snapshot of the counters.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		TotalItems:         len(c.entries),
		HitCount:           c.hits,
		MissCount:          c.misses,
		HitRate:            hitRate(c.hits, c.misses),
		EstimatedSizeBytes: c.estimateSize(),
		ExpiredCount:       c.expired,
		EvictionCount:      c.evictions,
		PersistFailures:    c.persistFailures,
	}
}

// Cleanup removes expired entries, then evicts the oldest entry if the
// cache is still over MaxEntries. With StrictBound it keeps evicting until
// the bound holds. It returns the number of entries removed.
func (c *Cache[V]) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.opts.clock()
	removed := c.deleteFunc(func(_ string, e *Entry[V]) bool { return e.Expired(now) })
	c.expired += uint64(removed)

	for len(c.entries) > c.cfg.MaxEntries {
		if !c.evictOldest() {
			break
		}
		removed++
		if !c.cfg.StrictBound {
			break
		}
	}

	return removed
}

// EvictOldest removes the entry with the earliest write time. Entries
// written in the same millisecond are evicted in insertion order.
// It reports false when the cache is empty.
func (c *Cache[V]) EvictOldest() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.evictOldest()
}

// Close stops background cleanup. Entries stay readable.
// Close is idempotent.
func (c *Cache[V]) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	sched := c.sched
	c.mu.Unlock()

	// The sweep takes c.mu, so stop outside the lock.
	if sched != nil {
		sched.Stop()
	}
	return nil
}

func (c *Cache[V]) set(key string, value V, opts []SetOption) {
	o := setOptions{ttl: c.cfg.DefaultTTL}
	for _, opt := range opts {
		opt(&o)
	}

	now := c.opts.clock()
	c.seq++
	e := &Entry[V]{
		Key:       key,
		Value:     value,
		WrittenAt: now.UnixMilli(),
		Tags:      slices.Clone(o.tags),
		Version:   o.version,
		seq:       c.seq,
	}
	if !o.noExpiry {
		exp := now.Add(o.ttl).UnixMilli()
		e.ExpireAt = &exp
	}

	c.entries[key] = e
}

func (c *Cache[V]) delete(key string) bool {
	if _, ok := c.entries[key]; !ok {
		return false
	}
	delete(c.entries, key)
	return true
}

func (c *Cache[V]) deleteFunc(match func(string, *Entry[V]) bool) int {
	n := 0
	for k, e := range c.entries {
		if match(k, e) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

func (c *Cache[V]) evictOldest() bool {
	var oldest *Entry[V]
	var oldestKey string
	for k, e := range c.entries {
		if oldest == nil || e.older(oldest) {
			oldest, oldestKey = e, k
		}
	}
	if oldest == nil {
		return false
	}

	delete(c.entries, oldestKey)
	c.evictions++
	return true
}

// estimateSize sums key lengths and JSON entry lengths. Entries that do
// not encode count their key only.
func (c *Cache[V]) estimateSize() int64 {
	var size int64
	for k, e := range c.entries {
		size += int64(len(k))
		if b, err := json.Marshal(e); err == nil {
			size += int64(len(b))
		}
	}
	return size
}

func (c *Cache[V]) schedule() scheduler.Schedule {
	if c.cfg.CleanupSchedule == "" {
		return scheduler.Every(c.cfg.CleanupInterval)
	}

	s, err := scheduler.Parse(c.cfg.CleanupSchedule)
	if err != nil {
		c.opts.logger.Warn("invalid cleanup schedule, using interval",
			slog.String("cache", c.name),
			slog.String("schedule", c.cfg.CleanupSchedule),
			slog.Duration("interval", c.cfg.CleanupInterval),
			slog.Any("error", err),
		)
		return scheduler.Every(c.cfg.CleanupInterval)
	}
	return s
}

func (c *Cache[V]) sweep(ctx context.Context) {
	start := time.Now()
	if n := c.Cleanup(); n > 0 {
		c.opts.logger.DebugContext(ctx, "cache cleanup",
			slog.String("cache", c.name),
			slog.Int("removed", n),
			slog.Duration("took", time.Since(start)),
		)
	}
}

// sortedItems returns entries oldest first.
func sortedItems[V any](entries map[string]*Entry[V]) []Item[V] {
	items := make([]Item[V], 0, len(entries))
	for k, e := range entries {
		items = append(items, Item[V]{Key: k, Entry: e})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Entry.older(items[j].Entry)
	})
	return items
}
