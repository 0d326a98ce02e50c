package reports

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	lookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compliance_report_lookups_total",
			Help: "Report record lookups by source (cache, store, miss).",
		},
		[]string{"source"},
	)

	generationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compliance_report_generations_total",
			Help: "Report generations by format and outcome.",
		},
		[]string{"format", "outcome"},
	)

	renderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "compliance_report_render_duration_seconds",
			Help:    "Time spent rendering report documents.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"format"},
	)
)
