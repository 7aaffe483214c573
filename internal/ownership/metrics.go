package ownership

import "github.com/prometheus/client_golang/prometheus"

var (
	checks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ownership_checks_total",
			Help: "Ownership checks against the task service by outcome and denial reason",
		},
		[]string{"outcome", "reason"},
	)
	checkDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ownership_check_duration_seconds",
			Help:    "Latency of ownership checks including the task service round-trip",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(checks)
	prometheus.MustRegister(checkDuration)
}
