// Package db connects to PostgreSQL for the snapshot blob store.
//
// It wraps [github.com/jackc/pgx/v5/pgxpool] with startup retries and a
// health check, and embeds the goose migration that creates the
// cache_snapshots table read and written by storage.PostgresStore.
//
// # Usage
//
//	pool, err := db.Connect(ctx, db.Config{ConnectionString: url}, log)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := db.Migrate(ctx, pool, db.Config{}, log); err != nil {
//		return err
//	}
//
//	store := storage.NewPostgres(pool, "")
//
// Zero-valued Config fields fall back to the Default* constants.
package db
