package id

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewULID(t *testing.T) {
	t.Parallel()

	t.Run("shape", func(t *testing.T) {
		t.Parallel()

		v := NewULID()
		require.Len(t, v, 26)
		for _, c := range v {
			require.True(t, strings.ContainsRune(alphabet, c), "unexpected rune %q", c)
		}
	})

	t.Run("unique", func(t *testing.T) {
		t.Parallel()

		seen := make(map[string]struct{}, 1000)
		for range 1000 {
			v := NewULID()
			_, dup := seen[v]
			require.False(t, dup, "duplicate id %s", v)
			seen[v] = struct{}{}
		}
	})

	t.Run("sorted by time", func(t *testing.T) {
		t.Parallel()

		base := time.UnixMilli(1_700_000_000_000)
		a := ulidAt(base)
		b := ulidAt(base.Add(time.Millisecond))
		require.Less(t, a[:10], b[:10])
		require.Less(t, a, b)
	})
}

func TestEncode(t *testing.T) {
	t.Parallel()

	dst := make([]byte, 4)
	encode(dst, 0)
	require.Equal(t, "0000", string(dst))

	encode(dst, 31)
	require.Equal(t, "000Z", string(dst))

	encode(dst, 32)
	require.Equal(t, "0010", string(dst))
}
