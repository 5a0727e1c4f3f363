package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements BlobStore on top of plain Redis string keys.
// An optional TTL bounds how long a blob survives without being rewritten,
// which suits session-scoped snapshots.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithRedisPrefix namespaces keys as "{prefix}:{key}".
func WithRedisPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// WithRedisTTL sets an expiration refreshed on every Write.
// Zero (the default) keeps blobs until deleted.
func WithRedisTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.ttl = max(ttl, 0)
	}
}

// NewRedis creates a Redis-backed blob store.
// The caller owns the client lifecycle.
func NewRedis(client redis.UniversalClient, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Read returns the blob stored under key.
func (s *RedisStore) Read(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.prefixedKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrReadFailed, err)
	}
	return data, nil
}

// Write stores data under key.
func (s *RedisStore) Write(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return ErrInvalidKey
	}
	if err := s.client.Set(ctx, s.prefixedKey(key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return nil
}

// Delete removes the blob stored under key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefixedKey(key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	return nil
}

func (s *RedisStore) prefixedKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}

var _ BlobStore = (*RedisStore)(nil)
