package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the analysis gateway

var (
	// Analysis pipeline metrics
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "copilot_analyses_total",
			Help: "Total number of pick analyses by outcome",
		},
		[]string{"outcome"},
	)

	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "copilot_analysis_duration_seconds",
			Help:    "End-to-end duration of pick analyses in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Upstream call metrics
	UpstreamCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "copilot_upstream_calls_total",
			Help: "Total number of Gemini API calls by status",
		},
		[]string{"status"},
	)

	UpstreamCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "copilot_upstream_call_duration_seconds",
			Help:    "Duration of Gemini API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)

	// Cache metrics
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "copilot_cache_hits_total",
			Help: "Total number of analysis cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "copilot_cache_misses_total",
			Help: "Total number of analysis cache misses",
		},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "copilot_system_uptime_seconds",
			Help: "Gateway uptime in seconds",
		},
	)
)
