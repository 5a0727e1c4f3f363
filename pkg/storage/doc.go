// Package storage provides durable blob stores used as persistence targets
// for cache snapshots.
//
// Every store implements [BlobStore]: Read, Write and Delete of a single byte
// blob addressed by a caller-chosen key. Missing blobs are reported as
// [ErrNotFound] so callers can tell "never written" apart from real failures.
//
// # Implementations
//
//   - [FileStore]: files on a go-billy filesystem with atomic rename writes.
//     [NewDirStore] roots it at an OS directory; tests use memfs.
//   - [SessionStore]: in-process map. Survives cache re-creation, not the process.
//   - [RedisStore]: Redis string keys with optional prefix and TTL.
//   - [S3Store]: one object per key in an S3-compatible bucket.
//   - [PostgresStore]: rows in the cache_snapshots table created by pkg/db.
//
// # Keys
//
// File and S3 keys are sanitized into safe path segments, so a cache name like
// "../../etc" cannot escape the configured root.
//
// # Error Handling
//
// Backend errors are normalized to sentinels ([ErrReadFailed],
// [ErrWriteFailed], [ErrDeleteFailed], [ErrAccessDenied]); match with errors.Is.
package storage
