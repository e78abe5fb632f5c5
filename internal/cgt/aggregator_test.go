package cgt

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mdrysdale/cgtcalc/pkg/types"
)

func shortGainLot(buyDay, sellDay int, buyPrice, sellPrice, qty float64) Lot {
	return Lot{
		Buy:      leg(types.CategoryEquity, date(2019, 6, buyDay), buyPrice, qty),
		Sell:     leg(types.CategoryEquity, date(2019, 8, sellDay), sellPrice, -qty),
		Quantity: qty,
	}
}

func TestAggregateThreadsLossBalance(t *testing.T) {
	agg := NewAggregator(NewDiscountMethod(), zap.NewNop())

	lots := []Lot{
		// Loss of 40.
		shortGainLot(1, 1, 14, 10, 10),
		// Gain of 30, fully absorbed by the loss above.
		shortGainLot(2, 2, 10, 13, 10),
		// Gain of 25, nets the remaining -10.
		shortGainLot(3, 3, 10, 15, 5),
	}

	results, err := agg.Aggregate(0, lots)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, 0.0, results[0].TaxableGain)
	assert.InDelta(t, -40.0, results[0].CarriedLosses, 1e-9)

	assert.Equal(t, 0.0, results[1].TaxableGain)
	assert.InDelta(t, -10.0, results[1].CarriedLosses, 1e-9)

	assert.InDelta(t, 15.0, results[2].TaxableGain, 1e-9)
	assert.Equal(t, 0.0, results[2].CarriedLosses)
}

func TestAggregateUsesInitialLosses(t *testing.T) {
	agg := NewAggregator(NewDiscountMethod(), zap.NewNop())

	lots := []Lot{shortGainLot(1, 1, 10, 13, 10)}

	results, err := agg.Aggregate(-30, lots)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0.0, results[0].TaxableGain)
	assert.Equal(t, 0.0, results[0].CarriedLosses)
}

func TestAggregateRejectsPositiveInitialLosses(t *testing.T) {
	agg := NewAggregator(NewDiscountMethod(), zap.NewNop())

	_, err := agg.Aggregate(10, nil)
	require.ErrorIs(t, err, ErrPositiveLosses)
}

func TestAggregateAbortsOnFailingLot(t *testing.T) {
	agg := NewAggregator(NewDiscountMethod(), zap.NewNop())

	lots := []Lot{
		shortGainLot(1, 1, 10, 13, 10),
		{
			Buy:      leg("warrants", date(2019, 6, 2), 10, 10),
			Sell:     leg("warrants", date(2019, 8, 2), 12, -10),
			Quantity: 10,
		},
		shortGainLot(3, 3, 10, 15, 5),
	}

	results, err := agg.Aggregate(0, lots)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedCategory))
	assert.Nil(t, results)
}

func TestAggregateEmptyLots(t *testing.T) {
	agg := NewAggregator(NewDiscountMethod(), zap.NewNop())

	results, err := agg.Aggregate(-10, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}
