package cgt

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	// GainsComputedTotal tracks per-lot gain computations.
	GainsComputedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cgtcalc_gains_computed_total",
		Help: "Total number of per-lot capital gains computations",
	})
)
