package analysis

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compliance_analysis_runs_total",
			Help: "Analysis invocations by outcome.",
		},
		[]string{"outcome"},
	)

	runDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "compliance_analysis_run_duration_seconds",
			Help:    "Wall time of analysis tool invocations.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)
)
