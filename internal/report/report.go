package report

import (
	"time"

	"github.com/mdrysdale/cgtcalc/internal/cgt"
	"github.com/mdrysdale/cgtcalc/internal/matching"
)

// Row is one capital-gains result flattened for output.
type Row struct {
	ID             string    `json:"id"`
	AssetCode      string    `json:"asset_code"`
	BuyDate        time.Time `json:"buy_date"`
	BuyPrice       float64   `json:"buy_price"`
	SellDate       time.Time `json:"sell_date"`
	SellPrice      float64   `json:"sell_price"`
	Quantity       float64   `json:"quantity"`
	TaxableGain    float64   `json:"taxable_gain"`
	CarriedLosses  float64   `json:"carried_capital_losses"`
	BuyCommission  float64   `json:"buy_commission"`
	SellCommission float64   `json:"sell_commission"`
}

// OpenRow is one unmatched open position flattened for output.
type OpenRow struct {
	AssetCode string    `json:"asset_code"`
	Date      time.Time `json:"date"`
	Quantity  float64   `json:"quantity"`
}

// Report is a complete run outcome ready for serialization.
type Report struct {
	ReportingCurrency string    `json:"reporting_currency"`
	GeneratedAt       time.Time `json:"generated_at"`
	Gains             []Row     `json:"gains"`
	Unmatched         []OpenRow `json:"unmatched"`
}

// Build flattens pipeline output into a Report.
func Build(reportingCurrency string, gains []cgt.CapitalGains, unmatched []matching.OpenPosition, now time.Time) *Report {
	rows := make([]Row, 0, len(gains))
	for _, g := range gains {
		rows = append(rows, Row{
			ID:             g.ID,
			AssetCode:      g.Lot.Buy.AssetCode,
			BuyDate:        g.Lot.Buy.Date,
			BuyPrice:       g.Lot.Buy.ReportingPrice,
			SellDate:       g.Lot.Sell.Date,
			SellPrice:      g.Lot.Sell.ReportingPrice,
			Quantity:       g.Lot.Quantity,
			TaxableGain:    g.TaxableGain,
			CarriedLosses:  g.CarriedLosses,
			BuyCommission:  g.BuyCommission,
			SellCommission: g.SellCommission,
		})
	}

	open := make([]OpenRow, 0, len(unmatched))
	for _, pos := range unmatched {
		open = append(open, OpenRow{
			AssetCode: pos.AssetCode,
			Date:      pos.Date,
			Quantity:  pos.Quantity,
		})
	}

	return &Report{
		ReportingCurrency: reportingCurrency,
		GeneratedAt:       now,
		Gains:             rows,
		Unmatched:         open,
	}
}
