package storage

import (
	"context"

	"go.uber.org/zap"

	"github.com/mdrysdale/cgtcalc/internal/cgt"
)

// ConsoleStorage logs results instead of persisting them. Default mode for
// one-off runs without a database.
type ConsoleStorage struct {
	logger *zap.Logger
}

// NewConsoleStorage creates a console storage.
func NewConsoleStorage(logger *zap.Logger) *ConsoleStorage {
	return &ConsoleStorage{logger: logger}
}

// StoreRun logs each result.
func (c *ConsoleStorage) StoreRun(_ context.Context, runID string, gains []cgt.CapitalGains) error {
	for _, g := range gains {
		c.logger.Info("capital-gains-result",
			zap.String("run-id", runID),
			zap.String("result-id", g.ID),
			zap.String("asset-code", g.Lot.Buy.AssetCode),
			zap.Time("buy-date", g.Lot.Buy.Date),
			zap.Time("sell-date", g.Lot.Sell.Date),
			zap.Float64("quantity", g.Lot.Quantity),
			zap.Float64("taxable-gain", g.TaxableGain),
			zap.Float64("carried-losses", g.CarriedLosses))
	}
	return nil
}

// Close is a no-op for console storage.
func (c *ConsoleStorage) Close() error {
	return nil
}
