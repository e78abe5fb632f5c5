package rates

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	// LookupsTotal tracks successful rate resolutions.
	LookupsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cgtcalc_rate_lookups_total",
		Help: "Total number of successful exchange rate lookups",
	})

	// LookupFailuresTotal tracks failed rate resolutions by reason.
	LookupFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cgtcalc_rate_lookup_failures_total",
			Help: "Total number of failed exchange rate lookups",
		},
		[]string{"reason"},
	)
)
