package rates

import (
	"time"

	"github.com/mdrysdale/cgtcalc/pkg/cache"
)

// CachedSource fronts another Source with a TTL cache. Rate tables are
// immutable within a run but the serve mode resolves the same pair/date
// combinations across requests, so resolved rates are worth keeping hot.
// Failed lookups are not cached.
type CachedSource struct {
	source Source
	cache  cache.Cache
	ttl    time.Duration
}

// NewCachedSource wraps source with c.
func NewCachedSource(source Source, c cache.Cache, ttl time.Duration) *CachedSource {
	return &CachedSource{source: source, cache: c, ttl: ttl}
}

// Rate implements Source.
func (s *CachedSource) Rate(pair string, date time.Time) (float64, error) {
	key := pair + "|" + date.Format("2006-01-02T15:04:05")

	if value, found := s.cache.Get(key); found {
		if rate, ok := value.(float64); ok {
			return rate, nil
		}
	}

	rate, err := s.source.Rate(pair, date)
	if err != nil {
		return 0, err
	}

	s.cache.Set(key, rate, s.ttl)
	return rate, nil
}
