package cache

import (
	"context"
	"errors"

	"github.com/30675137/Cinema-Bussiness-Center-Platform-sub009/pkg/storage"
)

// Backend persists a cache's entries. Load runs once when the cache is
// built; Save runs after every SetSync, DeleteSync and ClearSync.
type Backend[V any] interface {
	Load(ctx context.Context) (map[string]*Entry[V], error)
	Save(ctx context.Context, entries map[string]*Entry[V], cfg ConfigSnapshot) error
	Name() string
}

// NoopBackend keeps nothing. It backs memory-only caches.
type NoopBackend[V any] struct{}

func (NoopBackend[V]) Load(context.Context) (map[string]*Entry[V], error) {
	return map[string]*Entry[V]{}, nil
}

func (NoopBackend[V]) Save(context.Context, map[string]*Entry[V], ConfigSnapshot) error {
	return nil
}

func (NoopBackend[V]) Name() string { return "noop" }

// BlobBackend stores the whole cache as one encoded blob under a fixed key.
type BlobBackend[V any] struct {
	store storage.BlobStore
	key   string
	codec Codec
}

// NewBlobBackend creates a backend writing to key in store.
// A nil codec means JSONCodec.
//
// Example:
//
//	files, _ := storage.NewDirStore("/var/cache/app")
//	b := cache.NewBlobBackend[Product](files, "products", nil)
//	c := cache.New[Product](ctx, "products", b, cache.DefaultConfig())
func NewBlobBackend[V any](store storage.BlobStore, key string, codec Codec) *BlobBackend[V] {
	if codec == nil {
		codec = JSONCodec
	}
	return &BlobBackend[V]{store: store, key: key, codec: codec}
}

// Load reads and decodes the blob. A missing blob is an empty cache.
func (b *BlobBackend[V]) Load(ctx context.Context) (map[string]*Entry[V], error) {
	data, err := b.store.Read(ctx, b.key)
	if errors.Is(err, storage.ErrNotFound) {
		return map[string]*Entry[V]{}, nil
	}
	if err != nil {
		return nil, errors.Join(ErrLoad, err)
	}

	entries, _, err := DecodeSnapshot[V](b.codec, data)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Save encodes entries with cfg and overwrites the blob.
func (b *BlobBackend[V]) Save(ctx context.Context, entries map[string]*Entry[V], cfg ConfigSnapshot) error {
	data, err := EncodeSnapshot(b.codec, entries, cfg)
	if err != nil {
		return err
	}
	if err := b.store.Write(ctx, b.key, data); err != nil {
		return errors.Join(ErrSave, err)
	}
	return nil
}

// Name returns "<codec>:<key>" for log records.
func (b *BlobBackend[V]) Name() string {
	return b.codec.Name() + ":" + b.key
}

var (
	_ Backend[any] = NoopBackend[any]{}
	_ Backend[any] = (*BlobBackend[any])(nil)
)
