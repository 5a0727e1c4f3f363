package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/30675137/Cinema-Bussiness-Center-Platform-sub009/internal/config"
	"github.com/30675137/Cinema-Bussiness-Center-Platform-sub009/pkg/cache"
	"github.com/30675137/Cinema-Bussiness-Center-Platform-sub009/pkg/health"
	"github.com/30675137/Cinema-Bussiness-Center-Platform-sub009/pkg/logger"
	"github.com/30675137/Cinema-Bussiness-Center-Platform-sub009/pkg/storage"
)

// seed writes a products snapshot into dir and returns a config file path
// pointing cachectl at it.
func seed(t *testing.T) (dir, path string) {
	t.Helper()

	dir = t.TempDir()
	store, err := storage.NewDirStore(dir)
	require.NoError(t, err)

	ctx := context.Background()
	c := cache.New[string](ctx, "products", cache.NewBlobBackend[string](store, "products", nil), cache.Config{})
	c.Set("p:1", "popcorn", cache.WithTags("snacks"), cache.WithTTL(time.Hour))
	c.Set("p:2", "nachos", cache.WithTags("snacks"), cache.WithTTL(time.Hour))
	c.Set("t:1", "ticket", cache.WithNoExpiry())
	c.Set("old", "stale", cache.WithTTL(-time.Minute))
	c.Flush(ctx)
	require.NoError(t, c.Close())
	require.Zero(t, c.Stats().PersistFailures)

	path = filepath.Join(t.TempDir(), "cachectl.yaml")
	content := "log:\n  level: error\nstore:\n  driver: file\n  dir: " + dir + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return dir, path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestInspect(t *testing.T) {
	t.Parallel()

	_, path := seed(t)
	out, err := run(t, "inspect", "--config", path, "--name", "products", "--values")
	require.NoError(t, err)

	var got inspectOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, "products", got.Name)
	require.Equal(t, []string{"old", "p:1", "p:2", "t:1"}, got.Keys)
	require.Equal(t, 4, got.Stats.TotalItems)
	require.Len(t, got.Entries, 4)

	byKey := make(map[string]inspectEntry)
	for _, e := range got.Entries {
		byKey[e.Key] = e
	}
	require.True(t, byKey["old"].Expired)
	require.Nil(t, byKey["t:1"].ExpireAt)
	require.Equal(t, "popcorn", byKey["p:1"].Value)
	require.Equal(t, []string{"snacks"}, byKey["p:1"].Tags)
}

func TestPurge(t *testing.T) {
	t.Parallel()

	t.Run("by tag persists removal", func(t *testing.T) {
		t.Parallel()

		_, path := seed(t)
		out, err := run(t, "purge", "--config", path, "--name", "products", "--tag", "snacks")
		require.NoError(t, err)
		require.Contains(t, out, "removed 2 entries")

		out, err = run(t, "inspect", "--config", path, "--name", "products")
		require.NoError(t, err)
		var got inspectOutput
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		require.Equal(t, []string{"old", "t:1"}, got.Keys)
	})

	t.Run("expired runs a sweep", func(t *testing.T) {
		t.Parallel()

		_, path := seed(t)
		out, err := run(t, "purge", "--config", path, "--name", "products", "--expired")
		require.NoError(t, err)
		require.Contains(t, out, "removed 1 entries")
	})

	t.Run("all clears the snapshot", func(t *testing.T) {
		t.Parallel()

		dir, path := seed(t)
		_, err := run(t, "purge", "--config", path, "--name", "products", "--all")
		require.NoError(t, err)

		store, err := storage.NewDirStore(dir)
		require.NoError(t, err)
		entries, err := cache.NewBlobBackend[string](store, "products", nil).Load(context.Background())
		require.NoError(t, err)
		require.Empty(t, entries)
	})

	t.Run("unreadable snapshot is left untouched", func(t *testing.T) {
		t.Parallel()

		dir, path := seed(t)
		blob := filepath.Join(dir, "products.snapshot")
		require.NoError(t, os.WriteFile(blob, []byte("{not json"), 0o600))

		for _, selector := range [][]string{{"--tag", "nothing-matches"}, {"--prefix", "p:"}, {"--expired"}} {
			args := append([]string{"purge", "--config", path, "--name", "products"}, selector...)
			out, err := run(t, args...)
			require.ErrorIs(t, err, errSnapshotUnreadable, selector)
			require.Empty(t, out)

			data, err := os.ReadFile(blob)
			require.NoError(t, err)
			require.Equal(t, "{not json", string(data))
		}
	})

	t.Run("all replaces an unreadable snapshot", func(t *testing.T) {
		t.Parallel()

		dir, path := seed(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "products.snapshot"), []byte("{not json"), 0o600))

		_, err := run(t, "purge", "--config", path, "--name", "products", "--all")
		require.NoError(t, err)

		store, err := storage.NewDirStore(dir)
		require.NoError(t, err)
		entries, err := cache.NewBlobBackend[string](store, "products", nil).Load(context.Background())
		require.NoError(t, err)
		require.Empty(t, entries)
	})

	t.Run("requires a selector", func(t *testing.T) {
		t.Parallel()

		_, path := seed(t)
		_, err := run(t, "purge", "--config", path, "--name", "products")
		require.ErrorIs(t, err, errNoSelector)
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		t.Parallel()

		_, path := seed(t)
		_, err := run(t, "purge", "--config", path, "--name", "products", "--kind", "cookie", "--all")
		require.ErrorIs(t, err, cache.ErrUnknownBackend)
	})
}

func TestRouter(t *testing.T) {
	t.Parallel()

	store := storage.NewSessionStore()
	a := &app{
		cfg:      config.Default(),
		log:      logger.NewNope(),
		store:    store,
		registry: cache.NewRegistry(cache.WithLocalStore(store)),
		checks:   health.Checks{"store": health.StoreCheck(store, "_health")},
	}
	t.Cleanup(a.registry.ClearAll)

	c := cache.MustInstance[any](context.Background(), a.registry, "products", cache.KindLocal, cache.Config{})
	c.Set("k", "v")
	_, _ = c.Get("k")

	srv := httptest.NewServer(a.router())
	t.Cleanup(srv.Close)

	get := func(path string) (int, string) {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		var buf bytes.Buffer
		_, err = buf.ReadFrom(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, buf.String()
	}

	t.Run("stats", func(t *testing.T) {
		code, body := get("/stats")
		require.Equal(t, http.StatusOK, code)

		var stats []cache.NamedStats
		require.NoError(t, json.Unmarshal([]byte(body), &stats))
		require.Len(t, stats, 1)
		require.Equal(t, "local:products", stats[0].Name)
		require.Equal(t, uint64(1), stats[0].Stats.HitCount)
	})

	t.Run("single cache stats", func(t *testing.T) {
		code, _ := get("/stats/local:products")
		require.Equal(t, http.StatusOK, code)

		code, _ = get("/stats/local:missing")
		require.Equal(t, http.StatusNotFound, code)
	})

	t.Run("metrics", func(t *testing.T) {
		code, body := get("/metrics")
		require.Equal(t, http.StatusOK, code)
		require.Contains(t, body, `cachekit_cache_hits_total{cache="local:products"} 1`)
		require.True(t, strings.Contains(body, "go_goroutines"))
	})

	t.Run("probes", func(t *testing.T) {
		code, _ := get("/livez")
		require.Equal(t, http.StatusOK, code)

		code, body := get("/readyz?format=json")
		require.Equal(t, http.StatusOK, code)
		require.Contains(t, body, `"persist"`)
		require.Contains(t, body, `"store"`)
	})
}
