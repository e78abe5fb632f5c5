package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCache(t *testing.T) *RistrettoCache {
	t.Helper()

	c, err := NewRistrettoCache(&RistrettoConfig{
		NumCounters: 1000,
		MaxCost:     100,
		BufferItems: 64,
		Logger:      zap.NewNop(),
	})
	require.NoError(t, err)

	rc, ok := c.(*RistrettoCache)
	require.True(t, ok)
	t.Cleanup(rc.Close)
	return rc
}

func TestRistrettoCacheSetGet(t *testing.T) {
	c := newTestCache(t)

	ok := c.Set("USD.AUD|2020-01-15", 1.4512, time.Minute)
	require.True(t, ok)
	c.Wait()

	value, found := c.Get("USD.AUD|2020-01-15")
	require.True(t, found)
	assert.Equal(t, 1.4512, value)
}

func TestRistrettoCacheMiss(t *testing.T) {
	c := newTestCache(t)

	_, found := c.Get("missing-key")
	assert.False(t, found)
}

func TestRistrettoCacheDelete(t *testing.T) {
	c := newTestCache(t)

	c.Set("k", 1.0, time.Minute)
	c.Wait()
	c.Delete("k")
	c.Wait()

	_, found := c.Get("k")
	assert.False(t, found)
}
