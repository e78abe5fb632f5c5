package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// AssetCategory tags how an instrument's commissions and currency exposure
// are treated when computing gains.
type AssetCategory string

const (
	// CategoryEquity covers funded instruments priced and settled in their
	// trade currency (shares, ETFs).
	CategoryEquity AssetCategory = "equity"

	// CategoryFutures covers unfunded margin instruments. Price differences
	// accrue in the trade currency and carry no standalone currency exposure.
	CategoryFutures AssetCategory = "futures"

	// CategoryForex covers currency-pair trades, including implied trades
	// synthesized from foreign-asset sales.
	CategoryForex AssetCategory = "forex"
)

// TradeSource records where a trade came from.
type TradeSource string

const (
	SourceBrokerImport TradeSource = "broker-import"
	SourceSynthesized  TradeSource = "synthesized"
)

// Errors reported by Trade validation.
var (
	ErrNegativePrice        = errors.New("trade price cannot be negative")
	ErrPositiveCommission   = errors.New("commission must be zero or negative")
	ErrPairCurrencyMismatch = errors.New("currency-pair quote leg does not match trade currency")
)

// Commission is a trading cost attached to a trade. Amount is zero or
// negative.
type Commission struct {
	Amount   float64
	Currency string
}

// Trade is a single buy or sell. Sells carry a negative quantity.
// Trades are value types and are not mutated after construction.
type Trade struct {
	AssetCode  string
	Category   AssetCategory
	Date       time.Time
	Price      float64
	Currency   string
	Quantity   float64
	Commission Commission
	Source     TradeSource
}

// MatchKey returns the per-asset inventory key used by the matching engine.
func (t Trade) MatchKey() string { return t.AssetCode }

// MatchDate returns the trade timestamp used for chronological ordering.
func (t Trade) MatchDate() time.Time { return t.Date }

// SignedQuantity returns the signed trade quantity (negative for sells).
func (t Trade) SignedQuantity() float64 { return t.Quantity }

// QuoteCurrency returns the quote leg of a currency-pair asset code such as
// "USD.AUD", or "" if the code does not encode a pair.
func (t Trade) QuoteCurrency() string {
	_, quote, ok := strings.Cut(t.AssetCode, ".")
	if !ok {
		return ""
	}
	return quote
}

// Validate checks the trade invariants. A failure indicates bad upstream
// data and the enclosing computation must abort.
func (t Trade) Validate() error {
	if t.Price < 0 {
		return fmt.Errorf("%s on %s: %w", t.AssetCode, t.Date.Format("2006-01-02"), ErrNegativePrice)
	}
	if t.Commission.Amount > 0 {
		return fmt.Errorf("%s on %s: %w", t.AssetCode, t.Date.Format("2006-01-02"), ErrPositiveCommission)
	}
	if quote := t.QuoteCurrency(); quote != "" && quote != t.Currency {
		return fmt.Errorf("%s quoted in %s: %w", t.AssetCode, t.Currency, ErrPairCurrencyMismatch)
	}
	return nil
}

// TranslatedTrade is a Trade whose price and commission legs have been
// converted into the single reporting currency of the computation. The rates
// actually used are recorded so later stages can reuse them instead of
// re-querying the rate table.
type TranslatedTrade struct {
	Trade

	// ReportingPrice is the unit price converted at ExchangeRate.
	ReportingPrice float64

	// ExchangeRate is the price-leg rate applied, 1 when the trade already
	// settles in the reporting currency.
	ExchangeRate float64

	// ReportingCommission is the commission amount converted at CommissionRate.
	ReportingCommission float64

	// CommissionRate is the commission-leg rate applied. The commission may
	// settle in a different currency than the price leg.
	CommissionRate float64

	// ReportingCurrency is the fixed target currency of the whole run.
	ReportingCurrency string
}
