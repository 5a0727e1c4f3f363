package cache_test

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/30675137/Cinema-Bussiness-Center-Platform-sub009/pkg/cache"
)

func TestCollector(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("exports nothing for an empty registry", func(t *testing.T) {
		t.Parallel()

		col := cache.NewCollector(newRegistry(t))
		require.Zero(t, testutil.CollectAndCount(col))
	})

	t.Run("exports every cache", func(t *testing.T) {
		t.Parallel()

		r := newRegistry(t)
		col := cache.NewCollector(r)

		products := cache.MustInstance[string](ctx, r, "products", cache.KindMemory)
		products.Set("a", "1")
		products.Set("b", "2")
		_, _ = products.Get("a")
		_, _ = products.Get("a")
		_, _ = products.Get("missing")

		cache.MustInstance[int](ctx, r, "prices", cache.KindSession)

		require.Equal(t, 16, testutil.CollectAndCount(col))
		require.Equal(t, 2, testutil.CollectAndCount(col, "cachekit_cache_items"))

		expected := `
# HELP cachekit_cache_hits_total Get calls that returned a value
# TYPE cachekit_cache_hits_total counter
cachekit_cache_hits_total{cache="memory:products"} 2
cachekit_cache_hits_total{cache="session:prices"} 0
# HELP cachekit_cache_items Entries currently stored, including expired ones not yet removed
# TYPE cachekit_cache_items gauge
cachekit_cache_items{cache="memory:products"} 2
cachekit_cache_items{cache="session:prices"} 0
# HELP cachekit_cache_misses_total Get calls that found no live entry
# TYPE cachekit_cache_misses_total counter
cachekit_cache_misses_total{cache="memory:products"} 1
cachekit_cache_misses_total{cache="session:prices"} 0
`
		require.NoError(t, testutil.CollectAndCompare(col, strings.NewReader(expected),
			"cachekit_cache_hits_total",
			"cachekit_cache_items",
			"cachekit_cache_misses_total",
		))
	})

	t.Run("registers without conflicts", func(t *testing.T) {
		t.Parallel()

		reg := prometheus.NewPedanticRegistry()
		require.NoError(t, reg.Register(cache.NewCollector(newRegistry(t))))
	})
}
