// Package observability provides Prometheus metrics and gin middleware
// for monitoring the foodwise API.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// UpstreamBuckets covers embedding calls (tens of ms) up to slow vision
// completions.
var UpstreamBuckets = []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

// Upstream labels
const (
	UpstreamChat        = "chat"
	UpstreamEmbedding   = "embedding"
	UpstreamVectorStore = "vectorstore"
)

var (
	// RequestsTotal counts HTTP requests by method, route and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodwise_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration records HTTP request duration in seconds.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foodwise_request_duration_seconds",
			Help:    "Request duration",
			Buckets: UpstreamBuckets,
		},
		[]string{"method", "route"},
	)

	// UpstreamRequestsTotal counts calls to the model endpoints and the vector store.
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodwise_upstream_requests_total",
			Help: "Upstream requests",
		},
		[]string{"upstream", "status"},
	)

	// UpstreamLatency records upstream latency in seconds.
	UpstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foodwise_upstream_latency_seconds",
			Help:    "Upstream latency",
			Buckets: UpstreamBuckets,
		},
		[]string{"upstream"},
	)

	// EmbeddingCacheTotal counts embedding cache lookups by result (hit/miss).
	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodwise_embedding_cache_total",
			Help: "Embedding cache lookups",
		},
		[]string{"result"},
	)

	// RateLimitRejectedTotal counts requests rejected by the rate limiter.
	RateLimitRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "foodwise_ratelimit_rejected_total",
			Help: "Rate limit rejections",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		UpstreamRequestsTotal,
		UpstreamLatency,
		EmbeddingCacheTotal,
		RateLimitRejectedTotal,
	)
}

// ObserveUpstream records one upstream call that began at start. Use it as
// defer observability.ObserveUpstream(name, time.Now(), &err).
func ObserveUpstream(upstream string, start time.Time, errp *error) {
	status := "ok"
	if errp != nil && *errp != nil {
		status = "error"
	}
	UpstreamRequestsTotal.WithLabelValues(upstream, status).Inc()
	UpstreamLatency.WithLabelValues(upstream).Observe(time.Since(start).Seconds())
}
