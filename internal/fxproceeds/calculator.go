package fxproceeds

import (
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/mdrysdale/cgtcalc/internal/matching"
	"github.com/mdrysdale/cgtcalc/pkg/types"
)

// Calculator isolates the currency gain or loss embedded in foreign-asset
// sales. It runs a discovery matching pass over the translated trade stream
// and, for every lot realized in a foreign currency, synthesizes implied FX
// trades: one for the realized price-difference proceeds and one per
// foreign-currency commission leg. The augmented stream is meant to be fed
// into a second matching pass so the implied legs get matched against
// currency-pair inventory alongside real FX trades.
type Calculator struct {
	reporting string
	logger    *zap.Logger
}

// New creates a calculator targeting the given reporting currency.
func New(reportingCurrency string, logger *zap.Logger) *Calculator {
	return &Calculator{reporting: reportingCurrency, logger: logger}
}

// Proceeds returns the input trades merged with the synthesized FX trades,
// sorted by date.
func (c *Calculator) Proceeds(trades []types.TranslatedTrade) ([]types.TranslatedTrade, error) {
	engine := matching.NewEngine[types.TranslatedTrade]()
	lots, err := engine.Match(trades)
	if err != nil {
		return nil, fmt.Errorf("proceeds discovery pass: %w", err)
	}

	out := make([]types.TranslatedTrade, len(trades), len(trades)+len(lots))
	copy(out, trades)

	synthesized := 0
	for _, lot := range lots {
		if lot.Buy.Currency != c.reporting {
			out = append(out, c.principalTrade(lot))
			synthesized++
		}
		if comm := c.commissionTrade(lot, lot.Buy); comm != nil {
			out = append(out, *comm)
			synthesized++
		}
		if comm := c.commissionTrade(lot, lot.Sell); comm != nil {
			out = append(out, *comm)
			synthesized++
		}
	}

	c.logger.Debug("fx-proceeds-synthesized",
		zap.Int("lots", len(lots)),
		zap.Int("implied-trades", synthesized))

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

// principalTrade builds the implied FX trade for the realized proceeds of a
// foreign-currency lot. The quantity is the price-difference proceeds in the
// trade currency; the price is the rate recorded on the sell leg, not a
// fresh profile lookup. Dated at the sale, when the currency flow realizes.
func (c *Calculator) principalTrade(lot matching.Lot[types.TranslatedTrade]) types.TranslatedTrade {
	proceeds := lot.Quantity * (lot.Sell.Price - lot.Buy.Price)

	return c.impliedTrade(lot.Buy.Currency, lot.Sell.Date, lot.Sell.ExchangeRate, proceeds)
}

// commissionTrade builds the implied FX trade revaluing the pro-rata share
// of a leg's foreign-currency commission, or nil when the commission already
// settles in the reporting currency. Dated at the leg that paid it, priced
// at the commission rate recorded on that leg.
func (c *Calculator) commissionTrade(lot matching.Lot[types.TranslatedTrade], leg types.TranslatedTrade) *types.TranslatedTrade {
	if leg.Commission.Currency == c.reporting || leg.Commission.Amount == 0 {
		return nil
	}

	alloc := leg.Commission.Amount * lot.Quantity / math.Abs(leg.Quantity)
	trade := c.impliedTrade(leg.Commission.Currency, leg.Date, leg.CommissionRate, alloc)
	return &trade
}

func (c *Calculator) impliedTrade(currency string, date time.Time, rate, quantity float64) types.TranslatedTrade {
	return types.TranslatedTrade{
		Trade: types.Trade{
			AssetCode:  currency + "." + c.reporting,
			Category:   types.CategoryForex,
			Date:       date,
			Price:      rate,
			Currency:   c.reporting,
			Quantity:   quantity,
			Commission: types.Commission{Amount: 0, Currency: c.reporting},
			Source:     types.SourceSynthesized,
		},
		ReportingPrice:      rate,
		ExchangeRate:        1,
		ReportingCommission: 0,
		CommissionRate:      1,
		ReportingCurrency:   c.reporting,
	}
}
