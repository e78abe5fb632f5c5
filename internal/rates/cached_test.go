package rates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mdrysdale/cgtcalc/pkg/cache"
)

// countingSource counts pass-through lookups.
type countingSource struct {
	inner Source
	calls int
}

func (s *countingSource) Rate(pair string, date time.Time) (float64, error) {
	s.calls++
	return s.inner.Rate(pair, date)
}

func TestCachedSourceServesFromCache(t *testing.T) {
	table, err := NewTable(map[string]map[time.Time]float64{
		"USD.AUD": {
			day(2020, 1, 6):  1.44,
			day(2020, 1, 13): 1.45,
		},
	})
	require.NoError(t, err)

	c, err := cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: 1000,
		MaxCost:     100,
		BufferItems: 64,
		Logger:      zap.NewNop(),
	})
	require.NoError(t, err)
	defer c.Close()

	counting := &countingSource{inner: table}
	cached := NewCachedSource(counting, c, time.Minute)

	rate, err := cached.Rate("USD.AUD", day(2020, 1, 8))
	require.NoError(t, err)
	assert.Equal(t, 1.44, rate)
	assert.Equal(t, 1, counting.calls)

	if rc, ok := c.(*cache.RistrettoCache); ok {
		rc.Wait()
	}

	rate, err = cached.Rate("USD.AUD", day(2020, 1, 8))
	require.NoError(t, err)
	assert.Equal(t, 1.44, rate)
	assert.Equal(t, 1, counting.calls, "second lookup should be served from cache")
}

func TestCachedSourceDoesNotCacheFailures(t *testing.T) {
	table, err := NewTable(map[string]map[time.Time]float64{
		"USD.AUD": {
			day(2020, 1, 6):  1.44,
			day(2020, 1, 13): 1.45,
		},
	})
	require.NoError(t, err)

	c, err := cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: 1000,
		MaxCost:     100,
		BufferItems: 64,
		Logger:      zap.NewNop(),
	})
	require.NoError(t, err)
	defer c.Close()

	counting := &countingSource{inner: table}
	cached := NewCachedSource(counting, c, time.Minute)

	_, err = cached.Rate("USD.AUD", day(2019, 1, 1))
	require.ErrorIs(t, err, ErrRateUnavailable)

	_, err = cached.Rate("USD.AUD", day(2019, 1, 1))
	require.ErrorIs(t, err, ErrRateUnavailable)
	assert.Equal(t, 2, counting.calls)
}
