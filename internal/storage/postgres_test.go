package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mdrysdale/cgtcalc/internal/cgt"
	"github.com/mdrysdale/cgtcalc/pkg/types"
)

func sampleGains() []cgt.CapitalGains {
	buy := types.TranslatedTrade{
		Trade: types.Trade{
			AssetCode: "BHP",
			Category:  types.CategoryEquity,
			Date:      time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
			Price:     10,
			Currency:  "AUD",
			Quantity:  12,
		},
		ReportingPrice: 10, ExchangeRate: 1, CommissionRate: 1, ReportingCurrency: "AUD",
	}
	sell := buy
	sell.Date = time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC)
	sell.Price = 12
	sell.ReportingPrice = 12
	sell.Quantity = -12

	return []cgt.CapitalGains{{
		ID:          "result-1",
		Lot:         cgt.Lot{Buy: buy, Sell: sell, Quantity: 12},
		TaxableGain: 12,
	}}
}

func TestPostgresStorage_StoreRun(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := newPostgresStorageWithDB(db, zap.NewNop())
	gains := sampleGains()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO capital_gains").
		WithArgs(
			gains[0].ID, "run-1", "BHP",
			gains[0].Lot.Buy.Date, 10.0,
			gains[0].Lot.Sell.Date, 12.0,
			12.0, 12.0, 0.0, 0.0, 0.0,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err = store.StoreRun(context.Background(), "run-1", gains)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStorage_StoreRunRollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := newPostgresStorageWithDB(db, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO capital_gains").
		WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	err = store.StoreRun(context.Background(), "run-1", sampleGains())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert capital gain")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStorage_Close(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	mock.ExpectClose()

	store := newPostgresStorageWithDB(db, zap.NewNop())
	require.NoError(t, store.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
