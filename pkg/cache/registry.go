package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/30675137/Cinema-Bussiness-Center-Platform-sub009/pkg/logger"
	"github.com/30675137/Cinema-Bussiness-Center-Platform-sub009/pkg/storage"
)

// Kind selects where a registry-managed cache persists.
type Kind string

const (
	// KindMemory caches keep nothing beyond the process.
	KindMemory Kind = "memory"
	// KindLocal caches persist to the registry's durable store.
	KindLocal Kind = "local"
	// KindSession caches persist to the registry's session store, which
	// lives as long as the registry.
	KindSession Kind = "session"
)

// ParseKind converts a string such as a CLI flag to a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindMemory, KindLocal, KindSession:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBackend, s)
	}
}

// DefaultLocalDir is where the default local store writes snapshots.
var DefaultLocalDir = filepath.Join(os.TempDir(), "cachekit")

// instance is the type-erased view of a Cache the registry keeps.
type instance interface {
	Name() string
	Stats() Stats
	Close() error
}

// NamedStats pairs a registry key with its cache's stats.
type NamedStats struct {
	Name  string `json:"name"`
	Stats Stats  `json:"stats"`
}

// Registry hands out one Cache per (kind, name) pair.
// The zero value is not usable; create one with NewRegistry.
type Registry struct {
	mu        sync.Mutex
	instances map[string]instance
	flight    singleflight.Group

	local   storage.BlobStore
	session storage.BlobStore
	codec   Codec
	logger  *slog.Logger
	clock   func() time.Time
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLocalStore sets the durable store for KindLocal caches.
// Default: a file store under DefaultLocalDir, created on first use.
func WithLocalStore(s storage.BlobStore) RegistryOption {
	return func(r *Registry) {
		r.local = s
	}
}

// WithSessionStore sets the store for KindSession caches.
// Default: an in-process storage.SessionStore.
func WithSessionStore(s storage.BlobStore) RegistryOption {
	return func(r *Registry) {
		if s != nil {
			r.session = s
		}
	}
}

// WithCodec sets the snapshot codec for persistent caches.
// Default: JSONCodec.
func WithCodec(c Codec) RegistryOption {
	return func(r *Registry) {
		if c != nil {
			r.codec = c
		}
	}
}

// WithRegistryLogger sets the logger passed to every cache.
func WithRegistryLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithRegistryClock sets the clock passed to every cache.
func WithRegistryClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		if now != nil {
			r.clock = now
		}
	}
}

// NewRegistry creates an empty registry.
//
// Example:
//
//	files, err := storage.NewDirStore("/var/cache/app")
//	if err != nil {
//	    return err
//	}
//	reg := cache.NewRegistry(cache.WithLocalStore(files), cache.WithRegistryLogger(log))
//	defer reg.ClearAll()
//
//	products, err := cache.Instance[Product](ctx, reg, "products", cache.KindLocal)
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		instances: make(map[string]instance),
		session:   storage.NewSessionStore(),
		codec:     JSONCodec,
		logger:    logger.NewNope(),
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegistryKey returns the key a cache is registered under.
func RegistryKey(kind Kind, name string) string {
	return string(kind) + ":" + name
}

// Instance returns the cache registered for (kind, name), creating it on
// first use. The config of the first call wins; later configs are ignored.
// Without a config DefaultConfig is used.
//
// The initial load runs without holding the registry lock, so a slow store
// only delays callers asking for the same key.
//
// Asking for an existing cache with a different value type returns
// ErrTypeMismatch.
func Instance[V any](ctx context.Context, r *Registry, name string, kind Kind, cfg ...Config) (*Cache[V], error) {
	key := RegistryKey(kind, name)

	existing, ok := r.lookup(key)
	if !ok {
		v, err, _ := r.flight.Do(key, func() (any, error) {
			if c, ok := r.lookup(key); ok {
				return c, nil
			}

			backend, err := newBackend[V](r, name, kind)
			if err != nil {
				return nil, err
			}

			conf := DefaultConfig()
			if len(cfg) > 0 {
				conf = cfg[0]
			}

			c := New[V](ctx, name, backend, conf,
				WithClock(r.clock),
				WithLogger(r.logger),
			)

			r.mu.Lock()
			r.instances[key] = c
			r.mu.Unlock()
			return c, nil
		})
		if err != nil {
			return nil, err
		}
		existing = v.(instance)
	}

	c, ok := existing.(*Cache[V])
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTypeMismatch, key)
	}
	return c, nil
}

// MustInstance is like Instance but panics on error.
func MustInstance[V any](ctx context.Context, r *Registry, name string, kind Kind, cfg ...Config) *Cache[V] {
	c, err := Instance[V](ctx, r, name, kind, cfg...)
	if err != nil {
		panic(err)
	}
	return c
}

// ClearAll closes and forgets every cache. Persisted snapshots are left in
// place, so a later Instance call for a persistent kind reloads them.
func (r *Registry) ClearAll() {
	r.mu.Lock()
	instances := r.instances
	r.instances = make(map[string]instance)
	r.mu.Unlock()

	for _, c := range instances {
		_ = c.Close()
	}
}

// AllStats returns the stats of every registered cache, sorted by key.
func (r *Registry) AllStats() []NamedStats {
	r.mu.Lock()
	out := make([]NamedStats, 0, len(r.instances))
	for key, c := range r.instances {
		out = append(out, NamedStats{Name: key, Stats: c.Stats()})
	}
	r.mu.Unlock()

	slices.SortFunc(out, func(a, b NamedStats) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

func (r *Registry) lookup(key string) (instance, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.instances[key]
	return c, ok
}

// Len returns the number of registered caches.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.instances)
}

func newBackend[V any](r *Registry, name string, kind Kind) (Backend[V], error) {
	switch kind {
	case KindMemory:
		return NoopBackend[V]{}, nil
	case KindSession:
		return NewBlobBackend[V](r.session, name, r.codec), nil
	case KindLocal:
		store, err := r.localStore()
		if err != nil {
			return nil, err
		}
		return NewBlobBackend[V](store, name, r.codec), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, kind)
	}
}

func (r *Registry) localStore() (storage.BlobStore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.local == nil {
		store, err := storage.NewDirStore(DefaultLocalDir)
		if err != nil {
			return nil, errors.Join(ErrStoreUnavailable, err)
		}
		r.local = store
	}
	return r.local, nil
}

type registryCtxKey struct{}

// ContextWithRegistry returns a copy of ctx carrying r.
func ContextWithRegistry(ctx context.Context, r *Registry) context.Context {
	return context.WithValue(ctx, registryCtxKey{}, r)
}

// RegistryFromContext returns the registry stored by ContextWithRegistry.
func RegistryFromContext(ctx context.Context) (*Registry, bool) {
	r, ok := ctx.Value(registryCtxKey{}).(*Registry)
	return r, ok && r != nil
}
