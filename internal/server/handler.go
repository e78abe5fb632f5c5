package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mdrysdale/cgtcalc/internal/pipeline"
	"github.com/mdrysdale/cgtcalc/internal/report"
	"github.com/mdrysdale/cgtcalc/internal/storage"
	"github.com/mdrysdale/cgtcalc/pkg/types"
)

const requestDateLayout = "2006-01-02"

// CalculateHandler serves POST /api/v1/calculate.
type CalculateHandler struct {
	pipeline  *pipeline.Pipeline
	reporting string
	storage   storage.Storage
	logger    *zap.Logger
}

// NewCalculateHandler creates a calculation handler. storage may be nil, in
// which case runs are not persisted.
func NewCalculateHandler(p *pipeline.Pipeline, reportingCurrency string, store storage.Storage, logger *zap.Logger) *CalculateHandler {
	return &CalculateHandler{
		pipeline:  p,
		reporting: reportingCurrency,
		storage:   store,
		logger:    logger,
	}
}

// CalculateRequest is the request body for a calculation run. Rates are
// resolved against the table the server was started with.
type CalculateRequest struct {
	InitialLosses float64        `json:"initial_losses"`
	Trades        []TradeRequest `json:"trades"`
}

// TradeRequest is the wire form of one trade.
type TradeRequest struct {
	AssetCode          string  `json:"asset_code"`
	Category           string  `json:"category"`
	Date               string  `json:"date"`
	Price              float64 `json:"price"`
	Currency           string  `json:"currency"`
	Quantity           float64 `json:"quantity"`
	Commission         float64 `json:"commission"`
	CommissionCurrency string  `json:"commission_currency,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandleCalculate decodes the trade stream, runs the pipeline and returns
// the full report.
func (h *CalculateHandler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	if len(req.Trades) == 0 {
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("no trades supplied"))
		return
	}
	if req.InitialLosses > 0 {
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("initial_losses must be zero or negative"))
		return
	}

	trades := make([]types.Trade, 0, len(req.Trades))
	for i, tr := range req.Trades {
		trade, err := tr.toTrade()
		if err != nil {
			h.writeError(w, http.StatusBadRequest, fmt.Errorf("trade %d: %w", i, err))
			return
		}
		trades = append(trades, trade)
	}

	result, err := h.pipeline.Run(trades, req.InitialLosses)
	if err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	runID := uuid.New().String()
	if h.storage != nil {
		if err := h.storage.StoreRun(r.Context(), runID, result.Gains); err != nil {
			h.logger.Error("store-run-failed", zap.String("run-id", runID), zap.Error(err))
		}
	}

	rep := report.Build(h.reporting, result.Gains, result.Unmatched, time.Now().UTC())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(rep); err != nil {
		h.logger.Error("encode-response-failed", zap.Error(err))
	}

	CalculateRequestsTotal.Inc()
	CalculateDurationSeconds.Observe(time.Since(start).Seconds())
	h.logger.Info("calculation-served",
		zap.String("run-id", runID),
		zap.Int("trades", len(trades)),
		zap.Int("gains", len(result.Gains)),
		zap.Duration("duration", time.Since(start)))
}

func (h *CalculateHandler) writeError(w http.ResponseWriter, status int, err error) {
	CalculateErrorsTotal.Inc()
	h.logger.Warn("calculation-rejected", zap.Int("status", status), zap.Error(err))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: err.Error()})
}

func (tr TradeRequest) toTrade() (types.Trade, error) {
	category, err := parseCategory(tr.Category)
	if err != nil {
		return types.Trade{}, err
	}

	date, err := time.Parse(requestDateLayout, tr.Date)
	if err != nil {
		return types.Trade{}, fmt.Errorf("parse date %q: %w", tr.Date, err)
	}

	commissionCurrency := tr.CommissionCurrency
	if commissionCurrency == "" {
		commissionCurrency = tr.Currency
	}

	return types.Trade{
		AssetCode: tr.AssetCode,
		Category:  category,
		Date:      date,
		Price:     tr.Price,
		Currency:  tr.Currency,
		Quantity:  tr.Quantity,
		Commission: types.Commission{
			Amount:   tr.Commission,
			Currency: commissionCurrency,
		},
		Source: types.SourceBrokerImport,
	}, nil
}

func parseCategory(s string) (types.AssetCategory, error) {
	switch types.AssetCategory(s) {
	case types.CategoryEquity, types.CategoryFutures, types.CategoryForex:
		return types.AssetCategory(s), nil
	default:
		return "", fmt.Errorf("unknown asset category %q", s)
	}
}
