package health

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/30675137/Cinema-Bussiness-Center-Platform-sub009/pkg/cache"
	"github.com/30675137/Cinema-Bussiness-Center-Platform-sub009/pkg/id"
	"github.com/30675137/Cinema-Bussiness-Center-Platform-sub009/pkg/storage"
)

// StoreCheck writes a probe blob under prefix plus a fresh ULID, reads it
// back and deletes it. Concurrent probes never share a key.
// It fails when any step errors or the read returns different bytes.
func StoreCheck(store storage.BlobStore, prefix string) CheckFunc {
	return func(ctx context.Context) error {
		run := id.NewULID()
		key := prefix + "." + run
		probe := []byte(run)

		if err := store.Write(ctx, key, probe); err != nil {
			return errors.Join(ErrCheckFailed, err)
		}
		got, err := store.Read(ctx, key)
		if err != nil {
			return errors.Join(ErrCheckFailed, err)
		}
		if !bytes.Equal(got, probe) {
			return fmt.Errorf("%w: probe mismatch for %q", ErrCheckFailed, key)
		}
		if err := store.Delete(ctx, key); err != nil {
			return errors.Join(ErrCheckFailed, err)
		}
		return nil
	}
}

// PersistCheck fails when any cache in r has recorded more than limit
// snapshot load or save failures.
func PersistCheck(r *cache.Registry, limit uint64) CheckFunc {
	return func(context.Context) error {
		var errs []error
		for _, ns := range r.AllStats() {
			if n := ns.Stats.PersistFailures; n > limit {
				errs = append(errs, fmt.Errorf("%s: %d persist failures", ns.Name, n))
			}
		}
		if len(errs) > 0 {
			return errors.Join(append([]error{ErrCheckFailed}, errs...)...)
		}
		return nil
	}
}
