package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/mdrysdale/cgtcalc/internal/cgt"
)

// PostgresStorage implements Storage using PostgreSQL.
type PostgresStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

// PostgresConfig holds PostgreSQL configuration.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
	Logger   *zap.Logger
}

// NewPostgresStorage creates a new PostgreSQL storage.
func NewPostgresStorage(cfg *PostgresConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	cfg.Logger.Info("postgres-storage-connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))

	return &PostgresStorage{db: db, logger: cfg.Logger}, nil
}

// newPostgresStorageWithDB wires an existing connection; used by tests.
func newPostgresStorageWithDB(db *sql.DB, logger *zap.Logger) *PostgresStorage {
	return &PostgresStorage{db: db, logger: logger}
}

const insertGainQuery = `
	INSERT INTO capital_gains (
		id, run_id, asset_code, buy_date, buy_price, sell_date, sell_price,
		quantity, taxable_gain, carried_losses, buy_commission, sell_commission
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
	)
`

// StoreRun inserts one row per result within a transaction so a failing run
// leaves no partial rows behind.
func (p *PostgresStorage) StoreRun(ctx context.Context, runID string, gains []cgt.CapitalGains) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	for _, g := range gains {
		_, err = tx.ExecContext(ctx, insertGainQuery,
			g.ID,
			runID,
			g.Lot.Buy.AssetCode,
			g.Lot.Buy.Date,
			g.Lot.Buy.ReportingPrice,
			g.Lot.Sell.Date,
			g.Lot.Sell.ReportingPrice,
			g.Lot.Quantity,
			g.TaxableGain,
			g.CarriedLosses,
			g.BuyCommission,
			g.SellCommission,
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert capital gain %s: %w", g.ID, err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	p.logger.Debug("run-stored",
		zap.String("run-id", runID),
		zap.Int("results", len(gains)))

	return nil
}

// Close closes the database connection.
func (p *PostgresStorage) Close() error {
	p.logger.Info("closing-postgres-storage")
	return p.db.Close()
}
