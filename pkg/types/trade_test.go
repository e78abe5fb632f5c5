package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTradeValidate(t *testing.T) {
	date := time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		trade   Trade
		wantErr error
	}{
		{
			name: "valid-equity-buy",
			trade: Trade{
				AssetCode:  "BHP",
				Category:   CategoryEquity,
				Date:       date,
				Price:      36.50,
				Currency:   "AUD",
				Quantity:   100,
				Commission: Commission{Amount: -9.5, Currency: "AUD"},
				Source:     SourceBrokerImport,
			},
		},
		{
			name: "valid-forex-pair",
			trade: Trade{
				AssetCode: "USD.AUD",
				Category:  CategoryForex,
				Date:      date,
				Price:     1.45,
				Currency:  "AUD",
				Quantity:  5000,
			},
		},
		{
			name: "negative-price",
			trade: Trade{
				AssetCode: "BHP",
				Date:      date,
				Price:     -1,
				Currency:  "AUD",
				Quantity:  100,
			},
			wantErr: ErrNegativePrice,
		},
		{
			name: "positive-commission",
			trade: Trade{
				AssetCode:  "BHP",
				Date:       date,
				Price:      36.50,
				Currency:   "AUD",
				Quantity:   100,
				Commission: Commission{Amount: 9.5, Currency: "AUD"},
			},
			wantErr: ErrPositiveCommission,
		},
		{
			name: "pair-quote-leg-mismatch",
			trade: Trade{
				AssetCode: "USD.AUD",
				Category:  CategoryForex,
				Date:      date,
				Price:     1.45,
				Currency:  "USD",
				Quantity:  5000,
			},
			wantErr: ErrPairCurrencyMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.trade.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTradeQuoteCurrency(t *testing.T) {
	assert.Equal(t, "AUD", Trade{AssetCode: "USD.AUD"}.QuoteCurrency())
	assert.Equal(t, "", Trade{AssetCode: "BHP"}.QuoteCurrency())
}

func TestTranslatedTradeInheritsLegAccessors(t *testing.T) {
	date := time.Date(2019, 7, 1, 14, 48, 19, 0, time.UTC)
	tr := TranslatedTrade{
		Trade: Trade{
			AssetCode: "SPY",
			Date:      date,
			Quantity:  -12,
		},
		ReportingPrice:    430.11,
		ExchangeRate:      1.44,
		ReportingCurrency: "AUD",
	}

	assert.Equal(t, "SPY", tr.MatchKey())
	assert.Equal(t, date, tr.MatchDate())
	assert.Equal(t, -12.0, tr.SignedQuantity())
}
