package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mdrysdale/cgtcalc/internal/cgt"
	"github.com/mdrysdale/cgtcalc/internal/rates"
	"github.com/mdrysdale/cgtcalc/pkg/types"
)

func day(m time.Month, d int) time.Time {
	return time.Date(2020, m, d, 0, 0, 0, 0, time.UTC)
}

func testPipeline(t *testing.T) *Pipeline {
	t.Helper()

	table, err := rates.NewTable(map[string]map[time.Time]float64{
		"USD.AUD": {
			day(time.January, 6): 1.44,
			day(time.March, 2):   1.50,
			day(time.May, 1):     1.52,
		},
	})
	require.NoError(t, err)

	return New("AUD", table, cgt.NewDiscountMethod(), zap.NewNop())
}

func TestRunDomesticAndForeignTrades(t *testing.T) {
	p := testPipeline(t)

	trades := []types.Trade{
		{AssetCode: "BHP", Category: types.CategoryEquity, Date: day(time.January, 8),
			Price: 30, Currency: "AUD", Quantity: 10, Source: types.SourceBrokerImport},
		{AssetCode: "SPY", Category: types.CategoryEquity, Date: day(time.January, 10),
			Price: 300, Currency: "USD", Quantity: 2, Source: types.SourceBrokerImport},
		{AssetCode: "BHP", Category: types.CategoryEquity, Date: day(time.February, 10),
			Price: 33, Currency: "AUD", Quantity: -10, Source: types.SourceBrokerImport},
		{AssetCode: "SPY", Category: types.CategoryEquity, Date: day(time.March, 10),
			Price: 320, Currency: "USD", Quantity: -2, Source: types.SourceBrokerImport},
		// Dispose of the USD acquired through the SPY sale.
		{AssetCode: "USD.AUD", Category: types.CategoryForex, Date: day(time.April, 10),
			Price: 1.52, Currency: "AUD", Quantity: -40, Source: types.SourceBrokerImport},
	}

	result, err := p.Run(trades, -20)
	require.NoError(t, err)
	require.Len(t, result.Gains, 3)

	// BHP: raw gain 30, nets the -20 carried loss, held under a year.
	bhp := result.Gains[0]
	assert.Equal(t, "BHP", bhp.Lot.Buy.AssetCode)
	assert.InDelta(t, 10.0, bhp.TaxableGain, 1e-9)
	assert.Equal(t, 0.0, bhp.CarriedLosses)

	// SPY: (320*1.50 - 300*1.44) * 2.
	spy := result.Gains[1]
	assert.Equal(t, "SPY", spy.Lot.Buy.AssetCode)
	assert.InDelta(t, 96.0, spy.TaxableGain, 1e-9)

	// The implied 40 USD from the SPY sale matches the explicit USD.AUD
	// disposal: currency gain (1.52 - 1.50) * 40.
	fx := result.Gains[2]
	assert.Equal(t, "USD.AUD", fx.Lot.Buy.AssetCode)
	assert.Equal(t, types.SourceSynthesized, fx.Lot.Buy.Source)
	assert.InDelta(t, 0.8, fx.TaxableGain, 1e-9)

	assert.Empty(t, result.Unmatched)
}

func TestRunReportsUnmatchedInventory(t *testing.T) {
	p := testPipeline(t)

	trades := []types.Trade{
		{AssetCode: "BHP", Category: types.CategoryEquity, Date: day(time.January, 8),
			Price: 30, Currency: "AUD", Quantity: 10, Source: types.SourceBrokerImport},
		{AssetCode: "BHP", Category: types.CategoryEquity, Date: day(time.February, 10),
			Price: 33, Currency: "AUD", Quantity: -4, Source: types.SourceBrokerImport},
	}

	result, err := p.Run(trades, 0)
	require.NoError(t, err)
	require.Len(t, result.Gains, 1)

	require.Len(t, result.Unmatched, 1)
	assert.Equal(t, "BHP", result.Unmatched[0].AssetCode)
	assert.InDelta(t, 6.0, result.Unmatched[0].Quantity, 1e-9)
}

func TestRunRejectsInvalidTrades(t *testing.T) {
	p := testPipeline(t)

	trades := []types.Trade{
		{AssetCode: "BHP", Category: types.CategoryEquity, Date: day(time.January, 8),
			Price: 30, Currency: "AUD", Quantity: 10,
			Commission: types.Commission{Amount: 5, Currency: "AUD"}},
	}

	_, err := p.Run(trades, 0)
	require.ErrorIs(t, err, types.ErrPositiveCommission)
}

func TestRunPropagatesRateFailures(t *testing.T) {
	p := testPipeline(t)

	trades := []types.Trade{
		{AssetCode: "SPY", Category: types.CategoryEquity, Date: day(time.December, 1),
			Price: 300, Currency: "USD", Quantity: 2},
	}

	_, err := p.Run(trades, 0)
	require.ErrorIs(t, err, rates.ErrRateUnavailable)
}

func TestRunRejectsPositiveInitialLosses(t *testing.T) {
	p := testPipeline(t)

	_, err := p.Run(nil, 5)
	require.ErrorIs(t, err, cgt.ErrPositiveLosses)
}
