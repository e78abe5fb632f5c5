package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mdrysdale/cgtcalc/internal/cgt"
	"github.com/mdrysdale/cgtcalc/internal/ingest"
	"github.com/mdrysdale/cgtcalc/internal/pipeline"
	"github.com/mdrysdale/cgtcalc/internal/rates"
	"github.com/mdrysdale/cgtcalc/internal/report"
	"github.com/mdrysdale/cgtcalc/internal/storage"
	"github.com/mdrysdale/cgtcalc/pkg/config"
	"github.com/mdrysdale/cgtcalc/pkg/types"
)

//nolint:gochecknoglobals // Cobra boilerplate
var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Run a capital gains calculation",
	Long: `Runs one end-to-end calculation:
1. Read trades from an Interactive Brokers activity CSV
2. Read exchange rates from an RBA reference-rate CSV
3. Translate, match FIFO and compute discounted gains
4. Write the report as CSV or JSON

Carried losses from a prior period can be supplied with --losses as a zero
or negative amount.`,
	RunE: runCalculate,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(calculateCmd)
	calculateCmd.Flags().StringP("trades", "t", "", "Path to the IBKR trades CSV (required)")
	calculateCmd.Flags().StringP("rates", "r", "", "Path to the RBA exchange-rate CSV (required)")
	calculateCmd.Flags().StringP("output", "o", "", "Output path (default stdout)")
	calculateCmd.Flags().StringP("format", "f", "csv", "Output format: csv or json")
	calculateCmd.Flags().Float64P("losses", "l", 0, "Initial capital loss balance, zero or negative")
	_ = calculateCmd.MarkFlagRequired("trades")
	_ = calculateCmd.MarkFlagRequired("rates")
}

func runCalculate(cmd *cobra.Command, args []string) error {
	// Load .env
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: .env file not found\n")
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	tradesPath, _ := cmd.Flags().GetString("trades")
	ratesPath, _ := cmd.Flags().GetString("rates")
	outputPath, _ := cmd.Flags().GetString("output")
	format, _ := cmd.Flags().GetString("format")
	losses, _ := cmd.Flags().GetFloat64("losses")

	if format != "csv" && format != "json" {
		return fmt.Errorf("format must be 'csv' or 'json', got %q", format)
	}
	if losses == 0 {
		losses = cfg.InitialLosses
	}
	if losses > 0 {
		return fmt.Errorf("losses must be zero or negative, got %f", losses)
	}

	trades, err := readTrades(tradesPath)
	if err != nil {
		return err
	}

	table, err := readRates(ratesPath)
	if err != nil {
		return err
	}

	logger.Info("calculation-starting",
		zap.Int("trades", len(trades)),
		zap.Strings("rate-pairs", table.Pairs()),
		zap.Float64("initial-losses", losses))

	p := pipeline.New(cfg.ReportingCurrency, table, cgt.NewDiscountMethod(), logger)
	result, err := p.Run(trades, losses)
	if err != nil {
		return fmt.Errorf("run calculation: %w", err)
	}

	if err := storeResult(cmd.Context(), cfg, logger, result); err != nil {
		return err
	}

	rep := report.Build(cfg.ReportingCurrency, result.Gains, result.Unmatched, time.Now().UTC())
	return writeReport(outputPath, format, rep)
}

func readTrades(path string) ([]types.Trade, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trades file: %w", err)
	}
	defer f.Close()

	trades, err := ingest.ReadIBKRTrades(f)
	if err != nil {
		return nil, fmt.Errorf("read trades: %w", err)
	}
	return trades, nil
}

func readRates(path string) (*rates.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rates file: %w", err)
	}
	defer f.Close()

	pairs, err := ingest.ReadRBARates(f)
	if err != nil {
		return nil, fmt.Errorf("read rates: %w", err)
	}

	table, err := rates.NewTable(pairs)
	if err != nil {
		return nil, fmt.Errorf("build rate table: %w", err)
	}
	return table, nil
}

func storeResult(ctx context.Context, cfg *config.Config, logger *zap.Logger, result *pipeline.Result) error {
	store, err := newStorage(cfg, logger)
	if err != nil {
		return fmt.Errorf("create storage: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	runID := uuid.New().String()
	if err := store.StoreRun(ctx, runID, result.Gains); err != nil {
		return fmt.Errorf("store run: %w", err)
	}
	return nil
}

func newStorage(cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	if cfg.StorageMode == "postgres" {
		return storage.NewPostgresStorage(&storage.PostgresConfig{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPass,
			Database: cfg.PostgresDB,
			SSLMode:  cfg.PostgresSSL,
			Logger:   logger,
		})
	}
	return storage.NewConsoleStorage(logger), nil
}

func writeReport(path, format string, rep *report.Report) error {
	var out io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if format == "json" {
		return report.WriteJSON(out, rep)
	}
	return report.WriteCSV(out, rep)
}
