package storage

import (
	"context"
	"slices"
	"sync"
)

// SessionStore keeps blobs in process memory. Data survives cache
// re-creation for as long as the store value lives, and is lost with the
// process. It backs session-scoped caches.
type SessionStore struct {
	blobs map[string][]byte
	mu    sync.RWMutex
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{blobs: make(map[string][]byte)}
}

// Read returns a copy of the blob stored under key.
func (s *SessionStore) Read(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(data), nil
}

// Write stores a copy of data under key.
func (s *SessionStore) Write(_ context.Context, key string, data []byte) error {
	if key == "" {
		return ErrInvalidKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[key] = slices.Clone(data)
	return nil
}

// Delete removes the blob stored under key.
func (s *SessionStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.blobs, key)
	return nil
}

// Len reports how many blobs are held.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}

var _ BlobStore = (*SessionStore)(nil)
