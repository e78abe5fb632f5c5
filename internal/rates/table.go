package rates

import (
	"fmt"
	"time"
)

// Source resolves an exchange rate for a currency-pair code at a date.
type Source interface {
	Rate(pair string, date time.Time) (float64, error)
}

// Table is a Source backed by one Profile per currency-pair code.
type Table struct {
	profiles map[string]*Profile
}

// NewTable builds a Table from per-pair date-to-rate maps, e.g. the parsed
// reference-rate file keyed "USD.AUD".
func NewTable(pairs map[string]map[time.Time]float64) (*Table, error) {
	profiles := make(map[string]*Profile, len(pairs))
	for pair, points := range pairs {
		p, err := NewProfile(pair, points)
		if err != nil {
			return nil, fmt.Errorf("build rate table: %w", err)
		}
		profiles[pair] = p
	}
	return &Table{profiles: profiles}, nil
}

// Rate implements Source.
func (t *Table) Rate(pair string, date time.Time) (float64, error) {
	p, ok := t.profiles[pair]
	if !ok {
		LookupFailuresTotal.WithLabelValues("unknown_pair").Inc()
		return 0, fmt.Errorf("no profile for %s: %w", pair, ErrRateUnavailable)
	}

	rate, err := p.Lookup(date)
	if err != nil {
		LookupFailuresTotal.WithLabelValues("out_of_range").Inc()
		return 0, err
	}

	LookupsTotal.Inc()
	return rate, nil
}

// Pairs returns the covered pair codes.
func (t *Table) Pairs() []string {
	pairs := make([]string, 0, len(t.profiles))
	for pair := range t.profiles {
		pairs = append(pairs, pair)
	}
	return pairs
}
