// Package metrics defines the Prometheus instruments for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ChatRequests counts questions entering the pipeline.
	ChatRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mobility_chat_requests_total",
		Help: "Number of chat questions received.",
	})

	// ExtractionFallbacks counts classifier calls that fell back to
	// the default intent (timeout, bad JSON, unknown intent).
	ExtractionFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mobility_extraction_fallbacks_total",
		Help: "Number of intent extractions recovered with the default intent.",
	})

	// AnswerFallbacks counts answers served from the deterministic
	// first-row template instead of the language model.
	AnswerFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mobility_answer_fallbacks_total",
		Help: "Number of answers generated without the language model.",
	})

	// QueryErrors counts analytical store failures.
	QueryErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mobility_query_errors_total",
		Help: "Number of failed analytical store queries.",
	})

	// RequestDuration observes end-to-end HTTP latency per route.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mobility_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"path", "method", "status"})
)
