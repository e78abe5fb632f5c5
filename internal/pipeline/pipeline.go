package pipeline

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mdrysdale/cgtcalc/internal/cgt"
	"github.com/mdrysdale/cgtcalc/internal/fxproceeds"
	"github.com/mdrysdale/cgtcalc/internal/matching"
	"github.com/mdrysdale/cgtcalc/internal/rates"
	"github.com/mdrysdale/cgtcalc/internal/translate"
	"github.com/mdrysdale/cgtcalc/pkg/types"
)

// Pipeline runs the full gains computation: raw trades are translated into
// the reporting currency, a discovery matching pass synthesizes implied FX
// trades for foreign-currency proceeds, the augmented stream is matched
// again, and the final lots are aggregated into per-lot tax results.
//
// A Run owns its own matching state end to end; the pipeline itself holds
// only immutable collaborators and may be shared.
type Pipeline struct {
	translator *translate.Translator
	proceeds   *fxproceeds.Calculator
	aggregator *cgt.Aggregator
	logger     *zap.Logger
}

// Result is the outcome of one pipeline run.
type Result struct {
	// Gains holds the per-lot tax results in lot order.
	Gains []cgt.CapitalGains

	// Unmatched reports inventory still open at the end of the final
	// matching pass. Open positions are informational, not an error.
	Unmatched []matching.OpenPosition
}

// New assembles a pipeline for the given reporting currency and rate source.
func New(reportingCurrency string, src rates.Source, method cgt.Method, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		translator: translate.New(reportingCurrency, src),
		proceeds:   fxproceeds.New(reportingCurrency, logger),
		aggregator: cgt.NewAggregator(method, logger),
		logger:     logger,
	}
}

// Run computes tax results for the trade stream. initialLosses is the
// signed loss balance carried in from a prior period, zero or negative.
func (p *Pipeline) Run(trades []types.Trade, initialLosses float64) (*Result, error) {
	for _, trade := range trades {
		if err := trade.Validate(); err != nil {
			return nil, fmt.Errorf("invalid trade: %w", err)
		}
	}

	translated, err := p.translator.TranslateAll(trades)
	if err != nil {
		return nil, fmt.Errorf("currency translation: %w", err)
	}

	augmented, err := p.proceeds.Proceeds(translated)
	if err != nil {
		return nil, fmt.Errorf("foreign-currency proceeds: %w", err)
	}

	engine := matching.NewEngine[types.TranslatedTrade]()
	lots, err := engine.Match(augmented)
	if err != nil {
		return nil, fmt.Errorf("final matching pass: %w", err)
	}

	gains, err := p.aggregator.Aggregate(initialLosses, lots)
	if err != nil {
		return nil, fmt.Errorf("gains aggregation: %w", err)
	}

	unmatched := engine.Open()
	p.logger.Info("pipeline-run-complete",
		zap.Int("trades-in", len(trades)),
		zap.Int("trades-augmented", len(augmented)),
		zap.Int("lots", len(lots)),
		zap.Int("unmatched-positions", len(unmatched)))

	return &Result{Gains: gains, Unmatched: unmatched}, nil
}
