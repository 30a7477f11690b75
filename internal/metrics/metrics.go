// Package metrics exposes Prometheus collectors for the retrieval pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "chatgenius"
)

var (
	// Retrieval pipeline metrics
	StageSearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "retrieval",
			Name:      "stage_searches_total",
			Help:      "Total number of vector searches by pipeline stage",
		},
		[]string{"stage", "status"}, // stage: chat/summary/chunks, status: ok/degraded
	)

	StageResultCount = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "retrieval",
			Name:      "stage_result_count",
			Help:      "Number of results admitted per pipeline stage",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
		[]string{"stage"},
	)

	FormatterDropsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "retrieval",
			Name:      "formatter_drops_total",
			Help:      "Total number of malformed index records dropped during formatting",
		},
	)

	// Intent classification metrics
	IntentAnalysisTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "intent",
			Name:      "analysis_total",
			Help:      "Total number of intent classification calls",
		},
		[]string{"status"}, // ok/fail_open
	)

	// Context assembly metrics
	ContextCompressionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assembly",
			Name:      "compressions_total",
			Help:      "Total number of oversized contexts compressed via summarization",
		},
	)

	ContextTruncationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assembly",
			Name:      "truncations_total",
			Help:      "Total number of assembled contexts cut at the character budget",
		},
	)

	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)
)
