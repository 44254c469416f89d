package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()

	t.Run("roundtrips values within the ttl", func(t *testing.T) {
		m := NewMemory()
		require.NoError(t, m.SetJSON(ctx, "k", map[string]int{"a": 1}, time.Minute))

		var out map[string]int
		ok, err := m.GetJSON(ctx, "k", &out)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 1, out["a"])
	})

	t.Run("misses after expiry", func(t *testing.T) {
		m := NewMemory()
		now := time.Now()
		m.now = func() time.Time { return now }

		require.NoError(t, m.SetJSON(ctx, "k", "v", time.Minute))

		now = now.Add(2 * time.Minute)
		var out string
		ok, err := m.GetJSON(ctx, "k", &out)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("misses unknown and deleted keys", func(t *testing.T) {
		m := NewMemory()
		var out string
		ok, err := m.GetJSON(ctx, "missing", &out)
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, m.SetJSON(ctx, "k", "v", time.Minute))
		require.NoError(t, m.Delete(ctx, "k"))
		ok, err = m.GetJSON(ctx, "k", &out)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
