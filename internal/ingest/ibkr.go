package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mdrysdale/cgtcalc/pkg/types"
)

// ErrUnsupportedForexSymbol marks forex rows this importer cannot interpret.
// Interactive Brokers quotes currency trades with broker-specific conventions
// and only the AUD.USD layout has been verified.
var ErrUnsupportedForexSymbol = errors.New("forex symbol not implemented")

const ibkrTimeLayout = "2006-01-02, 15:04:05"

// ibkrColumns are the activity-report columns the importer consumes.
var ibkrColumns = []string{
	"DataDiscriminator", "Asset Category", "Currency", "Symbol",
	"Date/Time", "Quantity", "T. Price", "Proceeds", "Comm in AUD",
}

// ReadIBKRTrades parses an Interactive Brokers activity-report CSV into
// trades. Only "Order" rows are consumed; subtotal and summary rows are
// skipped. Commissions in the report are already expressed in AUD.
func ReadIBKRTrades(r io.Reader) ([]types.Trade, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read trade file header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, name := range ibkrColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("trade file missing column %q", name)
		}
	}

	var trades []types.Trade
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read trade file: %w", err)
		}
		line++

		field := func(name string) string {
			i := col[name]
			if i >= len(record) {
				return ""
			}
			return record[i]
		}

		if field("DataDiscriminator") != "Order" {
			continue
		}

		trade, err := parseOrderRow(field)
		if err != nil {
			return nil, fmt.Errorf("trade file line %d: %w", line, err)
		}
		trades = append(trades, trade)
	}

	return trades, nil
}

func parseOrderRow(field func(string) string) (types.Trade, error) {
	date, err := time.Parse(ibkrTimeLayout, field("Date/Time"))
	if err != nil {
		return types.Trade{}, fmt.Errorf("parse date: %w", err)
	}

	price, err := parseNumber(field("T. Price"))
	if err != nil {
		return types.Trade{}, fmt.Errorf("parse price: %w", err)
	}
	quantity, err := parseNumber(field("Quantity"))
	if err != nil {
		return types.Trade{}, fmt.Errorf("parse quantity: %w", err)
	}
	proceeds, err := parseNumber(field("Proceeds"))
	if err != nil {
		return types.Trade{}, fmt.Errorf("parse proceeds: %w", err)
	}
	commission, err := parseNumber(field("Comm in AUD"))
	if err != nil {
		return types.Trade{}, fmt.Errorf("parse commission: %w", err)
	}

	symbol := field("Symbol")
	currency := field("Currency")

	if field("Asset Category") == "Forex" {
		// The report quotes AUD.USD with AUD as quantity and the USD amount
		// as proceeds (indirect quoting). Swap quantity and proceeds and
		// restate the pair as USD.AUD so the price is AUD per unit USD.
		if symbol != "AUD.USD" {
			return types.Trade{}, fmt.Errorf("%s: %w", symbol, ErrUnsupportedForexSymbol)
		}
		return types.Trade{
			AssetCode:  "USD.AUD",
			Category:   types.CategoryForex,
			Date:       date,
			Price:      1 / price,
			Currency:   "AUD",
			Quantity:   proceeds,
			Commission: types.Commission{Amount: commission, Currency: "AUD"},
			Source:     types.SourceBrokerImport,
		}, nil
	}

	return types.Trade{
		AssetCode:  symbol,
		Category:   categoryFor(field("Asset Category")),
		Date:       date,
		Price:      price,
		Currency:   currency,
		Quantity:   quantity,
		Commission: types.Commission{Amount: commission, Currency: "AUD"},
		Source:     types.SourceBrokerImport,
	}, nil
}

func categoryFor(assetCategory string) types.AssetCategory {
	if strings.Contains(assetCategory, "Futures") {
		return types.CategoryFutures
	}
	return types.CategoryEquity
}

// parseNumber parses a report numeric field, tolerating thousands separators.
func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
}
