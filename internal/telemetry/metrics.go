// Package telemetry provides Prometheus collectors for the cache facade.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	RequestsTotal     *prometheus.CounterVec
	RateLimitRejects  *prometheus.CounterVec
}

// Operation results used as the "result" label.
const (
	ResultHit      = "hit"
	ResultMiss     = "miss"
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// NewMetrics creates and registers all metrics with the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OperationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cachefacade",
			Name:      "operations_total",
			Help:      "Total number of cache facade operations by result.",
		}, []string{"operation", "result"}),

		OperationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cachefacade",
			Name:      "operation_duration_seconds",
			Help:      "Round-trip time of cache operations against the backing store.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"operation"}),

		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cachefacade",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),

		RateLimitRejects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cachefacade",
			Name:      "ratelimit_rejects_total",
			Help:      "Total rate limit rejections.",
		}, []string{"tier"}),
	}

	reg.MustRegister(
		m.OperationsTotal,
		m.OperationDuration,
		m.RequestsTotal,
		m.RateLimitRejects,
	)

	return m
}
