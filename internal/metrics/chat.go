package metrics

import "github.com/prometheus/client_golang/prometheus"

// Chat model Prometheus metrics.
var (
	ChatRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "brewmatch",
			Name:      "chat_requests_total",
			Help:      "Total number of chat completion requests",
		},
		[]string{"model", "status"},
	)

	ChatRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "brewmatch",
			Name:      "chat_request_duration_seconds",
			Help:      "Chat completion request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 60},
		},
		[]string{"model"},
	)

	ChatTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "brewmatch",
			Name:      "chat_tokens_total",
			Help:      "Total chat tokens consumed",
		},
		[]string{"model", "type"},
	)

	ChatErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "brewmatch",
			Name:      "chat_errors_total",
			Help:      "Total chat completion errors",
		},
		[]string{"model", "error_type"},
	)

	ChatRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "brewmatch",
			Name:      "chat_retries_total",
			Help:      "Chat attempts retried after a transient unavailability",
		},
		[]string{"outcome"}, // "retry" / "exhausted"
	)
)

// Catalog and pipeline Prometheus metrics.
var (
	CatalogRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "brewmatch",
			Name:      "catalog_requests_total",
			Help:      "Total number of catalog requests",
		},
		[]string{"endpoint", "status"}, // endpoint: "query" / "random"
	)

	CatalogFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "brewmatch",
			Name:      "catalog_fallbacks_total",
			Help:      "Queries answered with a random sample instead of a structured query",
		},
		[]string{"reason"}, // "malformed_filter" / "empty_filter" / "catalog_error"
	)

	RelaxationSteps = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "brewmatch",
			Name:      "relaxation_steps",
			Help:      "Attributes removed before the catalog returned candidates",
			Buckets:   prometheus.LinearBuckets(0, 1, 13),
		},
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers chat and catalog metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(ChatRequestsTotal)
	prometheus.MustRegister(ChatRequestDuration)
	prometheus.MustRegister(ChatTokensTotal)
	prometheus.MustRegister(ChatErrorsTotal)
	prometheus.MustRegister(ChatRetriesTotal)
	prometheus.MustRegister(CatalogRequestsTotal)
	prometheus.MustRegister(CatalogFallbacksTotal)
	prometheus.MustRegister(RelaxationSteps)
	pipelineMetricsRegistered = true
}
