package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wattweaver_runs_total",
		Help: "Total number of completed optimization runs.",
	}, []string{"region", "method"})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wattweaver_run_duration_seconds",
		Help:    "Wall time of one forecast plus optimization run.",
		Buckets: prometheus.DefBuckets,
	})

	runFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wattweaver_run_failures_total",
		Help: "Total number of optimization runs rejected by the core guards.",
	})
)
