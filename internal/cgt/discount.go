package cgt

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/mdrysdale/cgtcalc/pkg/types"
)

// DiscountMethod implements the discount capital-gains rule: carried losses
// net against the raw gain first, then the net gain is halved when the asset
// was owned for more than twelve months. The ownership clock starts the day
// after acquisition, so the test date is the buy date plus one calendar year
// plus one day.
//
// Eligibility is judged on the sign of the pre-netting raw gain. Netting
// pre-existing losses against undiscounted amounts before applying any
// discount is the established treatment here; changing the ordering is a
// product decision, not a code fix.
type DiscountMethod struct{}

// NewDiscountMethod returns the discount method.
func NewDiscountMethod() DiscountMethod { return DiscountMethod{} }

// TaxableGain implements Method.
func (DiscountMethod) TaxableGain(carriedLosses float64, lot Lot) (CapitalGains, error) {
	if carriedLosses > 0 {
		return CapitalGains{}, fmt.Errorf("%f: %w", carriedLosses, ErrPositiveLosses)
	}

	gain, buyCommission, sellCommission, err := rawGain(lot)
	if err != nil {
		return CapitalGains{}, err
	}

	// Net carried losses before any potential discount.
	var netGain, remainingLosses float64
	if gain > 0 {
		nettable := math.Min(-carriedLosses, gain)
		netGain = gain - nettable
		remainingLosses = carriedLosses + nettable
	} else {
		netGain = 0
		remainingLosses = carriedLosses + gain
	}

	taxableGain := netGain
	testDate := lot.Buy.Date.AddDate(1, 0, 1)
	if !lot.Sell.Date.Before(testDate) && gain > 0 {
		taxableGain = netGain / 2
	}

	GainsComputedTotal.Inc()
	return CapitalGains{
		ID:             uuid.New().String(),
		Lot:            lot,
		TaxableGain:    taxableGain,
		CarriedLosses:  remainingLosses,
		BuyCommission:  buyCommission,
		SellCommission: sellCommission,
	}, nil
}

// rawGain computes the pre-netting gain and the pro-rata commission shares.
//
// Funded categories (equities, realized FX) difference reporting-currency
// prices and commissions directly. Futures-style unfunded instruments carry
// no standalone currency exposure, so the price difference and commissions
// accrue in the trade currency and the whole accrual converts once at the
// sell leg's exchange rate.
func rawGain(lot Lot) (gain, buyCommission, sellCommission float64, err error) {
	switch lot.Buy.Category {
	case types.CategoryEquity, types.CategoryForex:
		buyCommission = lot.Buy.ReportingCommission * lot.Quantity / math.Abs(lot.Buy.Quantity)
		sellCommission = lot.Sell.ReportingCommission * lot.Quantity / math.Abs(lot.Sell.Quantity)
		// Commissions are negative, reducing the gain.
		gain = (lot.Sell.ReportingPrice-lot.Buy.ReportingPrice)*lot.Quantity + sellCommission + buyCommission
		return gain, buyCommission, sellCommission, nil

	case types.CategoryFutures:
		localBuy := lot.Buy.Commission.Amount * lot.Quantity / math.Abs(lot.Buy.Quantity)
		localSell := lot.Sell.Commission.Amount * lot.Quantity / math.Abs(lot.Sell.Quantity)
		local := (lot.Sell.Price-lot.Buy.Price)*lot.Quantity + localSell + localBuy

		rate := lot.Sell.ExchangeRate
		return local * rate, localBuy * rate, localSell * rate, nil

	default:
		return 0, 0, 0, fmt.Errorf("%s category %q: %w",
			lot.Buy.AssetCode, lot.Buy.Category, ErrUnsupportedCategory)
	}
}
