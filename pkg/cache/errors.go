package cache

import "errors"

// Sentinel errors for cache operations.
var (
	// Registry misuse.
	ErrTypeMismatch     = errors.New("cache: instance exists with a different value type")
	ErrUnknownBackend   = errors.New("cache: unknown backend kind")
	ErrStoreUnavailable = errors.New("cache: backend store unavailable")

	// Persistence failures. These are logged and counted, never returned
	// from cache operations.
	ErrEncode = errors.New("cache: failed to encode snapshot")
	ErrDecode = errors.New("cache: failed to decode snapshot")
	ErrLoad   = errors.New("cache: failed to load snapshot")
	ErrSave   = errors.New("cache: failed to save snapshot")
)
