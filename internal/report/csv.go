package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// csvHeader mirrors the long-standing output column set; downstream
// spreadsheets key on these names.
var csvHeader = []string{
	"asset_code", "buy_price", "buy_date", "sell_price", "sell_date",
	"quantity", "taxable_gain", "carried_capital_losses",
	"buy_commission", "sell_commission",
}

// WriteCSV writes the gains rows as CSV.
func WriteCSV(w io.Writer, r *Report) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, row := range r.Gains {
		record := []string{
			row.AssetCode,
			formatFloat(row.BuyPrice),
			row.BuyDate.Format("2006-01-02 15:04:05"),
			formatFloat(row.SellPrice),
			row.SellDate.Format("2006-01-02 15:04:05"),
			formatFloat(row.Quantity),
			formatFloat(row.TaxableGain),
			formatFloat(row.CarriedLosses),
			formatFloat(row.BuyCommission),
			formatFloat(row.SellCommission),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
