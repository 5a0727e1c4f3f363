package cache

import (
	"context"
	"log/slog"
)

// SetSync stores value like Set and then saves the whole cache.
func (c *Cache[V]) SetSync(ctx context.Context, key string, value V, opts ...SetOption) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.set(key, value, opts)
	c.save(ctx)
}

// DeleteSync removes key like Delete and then saves the whole cache.
// The save happens even when key was absent.
func (c *Cache[V]) DeleteSync(ctx context.Context, key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	ok := c.delete(key)
	c.save(ctx)
	return ok
}

// ClearSync removes every entry and saves the empty cache.
func (c *Cache[V]) ClearSync(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
	c.save(ctx)
}

// Flush saves the current entries without changing them.
func (c *Cache[V]) Flush(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.save(ctx)
}

// load replaces the entry map with the backend's contents.
// Called from New before the cache is shared.
func (c *Cache[V]) load(ctx context.Context) {
	entries, err := c.backend.Load(ctx)
	if err != nil {
		c.persistFailures++
		c.opts.logger.WarnContext(ctx, "cache load failed, starting empty",
			slog.String("cache", c.name),
			slog.String("backend", c.backend.Name()),
			slog.Any("error", err),
		)
		return
	}

	for k, e := range entries {
		if e == nil {
			continue
		}
		c.seq = max(c.seq, e.seq)
		c.entries[k] = e
	}
}

// save writes the entry map. Caller must hold c.mu.
func (c *Cache[V]) save(ctx context.Context) {
	if err := c.backend.Save(ctx, c.entries, c.cfg.Snapshot()); err != nil {
		c.persistFailures++
		c.opts.logger.WarnContext(ctx, "cache save failed",
			slog.String("cache", c.name),
			slog.String("backend", c.backend.Name()),
			slog.Int("entries", len(c.entries)),
			slog.Any("error", err),
		)
	}
}
