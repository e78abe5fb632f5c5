package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mdrysdale/cgtcalc/internal/cgt"
	"github.com/mdrysdale/cgtcalc/internal/pipeline"
	"github.com/mdrysdale/cgtcalc/internal/rates"
	"github.com/mdrysdale/cgtcalc/internal/server"
	"github.com/mdrysdale/cgtcalc/pkg/cache"
	"github.com/mdrysdale/cgtcalc/pkg/config"
	"github.com/mdrysdale/cgtcalc/pkg/healthprobe"
)

//nolint:gochecknoglobals // Cobra boilerplate
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the calculation HTTP service",
	Long: `Starts an HTTP server that accepts trade streams on
POST /api/v1/calculate and returns full capital-gains reports.

The exchange-rate table is loaded once at startup from an RBA
reference-rate CSV and fronted by an in-memory cache. Prometheus metrics
are exposed on /metrics, liveness on /health and readiness on /ready.`,
	RunE: runServe,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("rates", "r", "", "Path to the RBA exchange-rate CSV (required)")
	_ = serveCmd.MarkFlagRequired("rates")
}

func runServe(cmd *cobra.Command, args []string) error {
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

	ratesPath, _ := cmd.Flags().GetString("rates")
	table, err := readRates(ratesPath)
	if err != nil {
		return err
	}

	rateCache, err := cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: cfg.RateCacheNumCounters,
		MaxCost:     cfg.RateCacheMaxEntries,
		BufferItems: 64,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("create rate cache: %w", err)
	}
	defer rateCache.Close()

	source := rates.NewCachedSource(table, rateCache, cfg.RateCacheTTL)

	store, err := newStorage(cfg, logger)
	if err != nil {
		return fmt.Errorf("create storage: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	probe := healthprobe.New()
	srv := server.New(&server.Config{
		Port:              cfg.HTTPPort,
		Logger:            logger,
		Probe:             probe,
		Pipeline:          pipeline.New(cfg.ReportingCurrency, source, cgt.NewDiscountMethod(), logger),
		ReportingCurrency: cfg.ReportingCurrency,
		Storage:           store,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()
	probe.SetReady(true)

	logger.Info("service-started",
		zap.String("port", cfg.HTTPPort),
		zap.String("reporting-currency", cfg.ReportingCurrency),
		zap.Strings("rate-pairs", table.Pairs()),
		zap.String("storage-mode", cfg.StorageMode))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutdown-signal-received", zap.String("signal", sig.String()))
	}

	probe.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return nil
}
