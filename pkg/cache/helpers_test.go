package cache_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/30675137/Cinema-Bussiness-Center-Platform-sub009/pkg/cache"
	"github.com/30675137/Cinema-Bussiness-Center-Platform-sub009/pkg/storage"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// newMemoryCache returns a cache without background cleanup.
func newMemoryCache[V any](t *testing.T, clock *fakeClock, cfg cache.Config) *cache.Cache[V] {
	t.Helper()

	c := cache.New[V](context.Background(), "test", nil, cfg, cache.WithClock(clock.Now))
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// failingStore fails every call with the configured errors.
type failingStore struct {
	readErr  error
	writeErr error

	mu     sync.Mutex
	writes int
}

func (s *failingStore) Read(context.Context, string) ([]byte, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	return nil, storage.ErrNotFound
}

func (s *failingStore) Write(context.Context, string, []byte) error {
	s.mu.Lock()
	s.writes++
	s.mu.Unlock()
	return s.writeErr
}

func (s *failingStore) Delete(context.Context, string) error { return nil }

func (s *failingStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

var _ storage.BlobStore = (*failingStore)(nil)

// blockingStore holds every Read until release is closed.
type blockingStore struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
	reads   atomic.Int32
}

func newBlockingStore() *blockingStore {
	return &blockingStore{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (s *blockingStore) Read(ctx context.Context, _ string) ([]byte, error) {
	s.reads.Add(1)
	s.once.Do(func() { close(s.entered) })
	select {
	case <-s.release:
		return nil, storage.ErrNotFound
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *blockingStore) Write(context.Context, string, []byte) error { return nil }
func (s *blockingStore) Delete(context.Context, string) error        { return nil }
