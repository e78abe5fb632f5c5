package matching

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	// MatchedLotsTotal tracks lots produced across all matching runs.
	MatchedLotsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cgtcalc_matched_lots_total",
		Help: "Total number of matched lots produced by the FIFO engine",
	})
)
