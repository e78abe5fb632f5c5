package rates

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrRateUnavailable is the failure class for every lookup that cannot be
// resolved: dates outside the covered range, dates landing exactly on a
// stored key, and unknown pair codes. Callers decide whether to abort or
// fall back to another source; this package never substitutes a rate.
var ErrRateUnavailable = errors.New("rate unavailable")

// Profile is a left-continuous step function from date to exchange rate for
// one currency-pair code. For a query date strictly between two stored dates
// it returns the rate in force at the start of that interval. Read-only
// after construction.
type Profile struct {
	pair   string
	dates  []time.Time
	values []float64
}

// NewProfile builds a profile from a date-to-rate table. Dates are sorted
// ascending; map keys guarantee uniqueness.
func NewProfile(pair string, points map[time.Time]float64) (*Profile, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("profile %s: no rate points", pair)
	}

	dates := make([]time.Time, 0, len(points))
	for d := range points {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	values := make([]float64, len(dates))
	for i, d := range dates {
		values[i] = points[d]
	}

	return &Profile{pair: pair, dates: dates, values: values}, nil
}

// Pair returns the currency-pair code this profile covers.
func (p *Profile) Pair() string { return p.pair }

// Lookup resolves the rate in force at date. Only dates strictly inside an
// open interval between two stored keys resolve; a date before the first
// key, on or after the last key, or exactly on any stored key fails with
// ErrRateUnavailable.
func (p *Profile) Lookup(date time.Time) (float64, error) {
	if date.Before(p.dates[0]) {
		return 0, fmt.Errorf("%s at %s: before profile start: %w",
			p.pair, date.Format("2006-01-02"), ErrRateUnavailable)
	}
	last := p.dates[len(p.dates)-1]
	if last.Before(date) {
		return 0, fmt.Errorf("%s at %s: after profile end: %w",
			p.pair, date.Format("2006-01-02"), ErrRateUnavailable)
	}

	// First index with dates[i] >= date.
	i := sort.Search(len(p.dates), func(i int) bool { return !p.dates[i].Before(date) })
	if i < len(p.dates) && p.dates[i].Equal(date) {
		// Exact matches to stored keys do not resolve to either adjacent
		// interval. Kept for compatibility with the established results.
		return 0, fmt.Errorf("%s at %s: date on interval boundary: %w",
			p.pair, date.Format("2006-01-02"), ErrRateUnavailable)
	}

	return p.values[i-1], nil
}
