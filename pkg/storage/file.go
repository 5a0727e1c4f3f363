package storage

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// snapshotExt is appended to every blob file name.
const snapshotExt = ".snapshot"

// FileStore persists blobs as files on a billy filesystem. Writes go to a
// temporary file that is renamed over the target, so a reader never sees a
// half-written blob.
type FileStore struct {
	fs billy.Filesystem
}

// NewFileStore creates a store rooted at fs.
// Use memfs.New() in tests and NewDirStore for the real disk.
func NewFileStore(fs billy.Filesystem) *FileStore {
	return &FileStore{fs: fs}
}

// NewDirStore creates a FileStore rooted at dir on the OS filesystem.
// The directory is created if needed.
func NewDirStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, ErrInvalidConfig
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	return NewFileStore(osfs.New(dir)), nil
}

// Read returns the contents of the blob file for key.
func (s *FileStore) Read(_ context.Context, key string) ([]byte, error) {
	name, err := s.fileName(key)
	if err != nil {
		return nil, err
	}

	data, err := util.ReadFile(s.fs, name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrReadFailed, err)
	}
	return data, nil
}

// Write atomically replaces the blob file for key.
func (s *FileStore) Write(_ context.Context, key string, data []byte) error {
	name, err := s.fileName(key)
	if err != nil {
		return err
	}

	tmp, err := s.fs.TempFile("", "."+name+".tmp-")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if err := s.fs.Rename(tmpName, name); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return nil
}

// Delete removes the blob file for key.
func (s *FileStore) Delete(_ context.Context, key string) error {
	name, err := s.fileName(key)
	if err != nil {
		return err
	}

	if err := s.fs.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	return nil
}

// Size returns the on-disk size of the blob for key.
func (s *FileStore) Size(key string) (int64, error) {
	name, err := s.fileName(key)
	if err != nil {
		return 0, err
	}

	info, err := s.fs.Stat(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("%w: %v", ErrReadFailed, err)
	}
	return info.Size(), nil
}

func (s *FileStore) fileName(key string) (string, error) {
	k, err := joinKey("", key)
	if err != nil {
		return "", err
	}
	return k + snapshotExt, nil
}

var _ BlobStore = (*FileStore)(nil)
