package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CalculateRequestsTotal counts successful calculation requests.
	CalculateRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cgtcalc_calculate_requests_total",
		Help: "Total number of successful calculation requests",
	})

	// CalculateErrorsTotal counts rejected or failed calculation requests.
	CalculateErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cgtcalc_calculate_errors_total",
		Help: "Total number of failed calculation requests",
	})

	// CalculateDurationSeconds tracks end-to-end calculation latency.
	CalculateDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cgtcalc_calculate_duration_seconds",
		Help:    "Calculation request duration in seconds",
		Buckets: prometheus.DefBuckets,
	})
)
