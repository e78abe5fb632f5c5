package translate

import (
	"fmt"

	"github.com/mdrysdale/cgtcalc/internal/rates"
	"github.com/mdrysdale/cgtcalc/pkg/types"
)

// Translator converts raw trades into the fixed reporting currency. The
// price leg and the commission leg are translated independently since a
// commission can settle in a different currency than the trade itself.
// Stateless apart from the rate source; safe to reuse across runs.
type Translator struct {
	reporting string
	rates     rates.Source
}

// New creates a translator targeting the given reporting currency.
func New(reportingCurrency string, src rates.Source) *Translator {
	return &Translator{reporting: reportingCurrency, rates: src}
}

// ReportingCurrency returns the fixed target currency.
func (tr *Translator) ReportingCurrency() string { return tr.reporting }

// Translate converts one trade. Rate lookup failures propagate unchanged so
// the caller can distinguish them from data errors.
func (tr *Translator) Translate(t types.Trade) (types.TranslatedTrade, error) {
	out := types.TranslatedTrade{
		Trade:             t,
		ReportingCurrency: tr.reporting,
	}

	if t.Currency == tr.reporting {
		out.ExchangeRate = 1
		out.ReportingPrice = t.Price
	} else {
		rate, err := tr.rates.Rate(t.Currency+"."+tr.reporting, t.Date)
		if err != nil {
			return types.TranslatedTrade{}, fmt.Errorf("translate price leg of %s: %w", t.AssetCode, err)
		}
		out.ExchangeRate = rate
		out.ReportingPrice = t.Price * rate
	}

	// The commission leg branches on its currency alone. A zero commission in
	// a foreign currency still resolves a rate, so missing coverage surfaces
	// here rather than silently passing through. An empty currency means the
	// trade carried no commission at all.
	if t.Commission.Currency == tr.reporting || t.Commission.Currency == "" {
		out.CommissionRate = 1
		out.ReportingCommission = t.Commission.Amount
	} else {
		rate, err := tr.rates.Rate(t.Commission.Currency+"."+tr.reporting, t.Date)
		if err != nil {
			return types.TranslatedTrade{}, fmt.Errorf("translate commission leg of %s: %w", t.AssetCode, err)
		}
		out.CommissionRate = rate
		out.ReportingCommission = t.Commission.Amount * rate
	}

	return out, nil
}

// TranslateAll converts a trade list, preserving order. The first failing
// trade aborts the whole conversion.
func (tr *Translator) TranslateAll(ts []types.Trade) ([]types.TranslatedTrade, error) {
	out := make([]types.TranslatedTrade, 0, len(ts))
	for _, t := range ts {
		converted, err := tr.Translate(t)
		if err != nil {
			return nil, err
		}
		out = append(out, converted)
	}
	return out, nil
}
