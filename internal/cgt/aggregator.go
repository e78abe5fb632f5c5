package cgt

import (
	"fmt"

	"go.uber.org/zap"
)

// Aggregator folds a gains method over an ordered list of matched lots,
// threading the carried-loss balance from each lot's output into the next
// lot's input. The threading makes processing inherently sequential: no two
// lots can be computed concurrently.
type Aggregator struct {
	method Method
	logger *zap.Logger
}

// NewAggregator creates an aggregator using the given method.
func NewAggregator(method Method, logger *zap.Logger) *Aggregator {
	return &Aggregator{method: method, logger: logger}
}

// Aggregate computes per-lot gains in lot order. initialLosses is the signed
// loss balance brought in from a prior period, zero or negative. A failing
// lot aborts the whole aggregation since the loss balance past it would be
// corrupt.
func (a *Aggregator) Aggregate(initialLosses float64, lots []Lot) ([]CapitalGains, error) {
	if initialLosses > 0 {
		return nil, fmt.Errorf("%f: %w", initialLosses, ErrPositiveLosses)
	}

	results := make([]CapitalGains, 0, len(lots))
	carried := initialLosses
	for i, lot := range lots {
		result, err := a.method.TaxableGain(carried, lot)
		if err != nil {
			return nil, fmt.Errorf("lot %d (%s): %w", i, lot.Buy.AssetCode, err)
		}
		results = append(results, result)
		carried = result.CarriedLosses
	}

	a.logger.Info("capital-gains-aggregated",
		zap.Int("lots", len(lots)),
		zap.Float64("initial-losses", initialLosses),
		zap.Float64("final-carried-losses", carried))

	return results, nil
}
