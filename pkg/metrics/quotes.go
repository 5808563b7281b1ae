package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// QuoteMetrics records volume and latency for pricing computations.
type QuoteMetrics struct {
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
	failures *prometheus.CounterVec
}

// NewQuoteMetrics registers the quote metrics on the provided registerer.
func NewQuoteMetrics(reg prometheus.Registerer) *QuoteMetrics {
	if reg == nil {
		return &QuoteMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quote_duration_seconds",
		Help:    "Duration of quote computations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quote_requests_total",
		Help: "Quote requests by kind.",
	}, []string{"kind"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quote_failures_total",
		Help: "Failed quote requests by kind.",
	}, []string{"kind"})
	reg.MustRegister(duration, requests, failures)
	return &QuoteMetrics{
		duration: duration,
		requests: requests,
		failures: failures,
	}
}

// ObserveDuration records the duration for the named quote kind.
func (q *QuoteMetrics) ObserveDuration(kind string, duration time.Duration) {
	if q == nil || q.duration == nil {
		return
	}
	q.duration.WithLabelValues(normalizeLabel(kind)).Observe(duration.Seconds())
}

// IncRequest increments the request counter for the named quote kind.
func (q *QuoteMetrics) IncRequest(kind string) {
	if q == nil || q.requests == nil {
		return
	}
	q.requests.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncFailure increments the failure counter for the named quote kind.
func (q *QuoteMetrics) IncFailure(kind string) {
	if q == nil || q.failures == nil {
		return
	}
	q.failures.WithLabelValues(normalizeLabel(kind)).Inc()
}

func normalizeLabel(kind string) string {
	if kind == "" {
		return "unknown"
	}
	return kind
}
