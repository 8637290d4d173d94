package cache

import (
	"context"
	"time"

	"CacheFacade/internal/telemetry"
)

// instrumented records per-operation counts and latencies before delegating.
type instrumented struct {
	next    Service
	metrics *telemetry.Metrics
}

// WithMetrics wraps svc so every operation is recorded in m. A nil m returns svc unchanged.
func WithMetrics(svc Service, m *telemetry.Metrics) Service {
	if m == nil {
		return svc
	}
	return &instrumented{next: svc, metrics: m}
}

func (i *instrumented) observe(op string, start time.Time, result string) {
	i.metrics.OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	i.metrics.OperationsTotal.WithLabelValues(op, result).Inc()
}

func boolResult(ok bool, err error, positive, negative string) string {
	switch {
	case err != nil:
		return telemetry.ResultError
	case ok:
		return positive
	default:
		return negative
	}
}

func (i *instrumented) Exists(ctx context.Context, key string) (bool, error) {
	start := time.Now()
	ok, err := i.next.Exists(ctx, key)
	i.observe("exists", start, boolResult(ok, err, telemetry.ResultHit, telemetry.ResultMiss))
	return ok, err
}

func (i *instrumented) Add(ctx context.Context, key string, value interface{}) (bool, error) {
	start := time.Now()
	ok, err := i.next.Add(ctx, key, value)
	i.observe("add", start, boolResult(ok, err, telemetry.ResultOK, telemetry.ResultRejected))
	return ok, err
}

func (i *instrumented) AddWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	start := time.Now()
	ok, err := i.next.AddWithTTL(ctx, key, value, ttl)
	i.observe("add", start, boolResult(ok, err, telemetry.ResultOK, telemetry.ResultRejected))
	return ok, err
}

func (i *instrumented) Upsert(ctx context.Context, key string, value interface{}) ([]byte, error) {
	start := time.Now()
	stored, err := i.next.Upsert(ctx, key, value)
	i.observe("put", start, boolResult(true, err, telemetry.ResultOK, ""))
	return stored, err
}

func (i *instrumented) UpsertWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) ([]byte, error) {
	start := time.Now()
	stored, err := i.next.UpsertWithTTL(ctx, key, value, ttl)
	i.observe("put", start, boolResult(true, err, telemetry.ResultOK, ""))
	return stored, err
}

func (i *instrumented) Fetch(ctx context.Context, key string) ([]byte, bool, error) {
	start := time.Now()
	raw, found, err := i.next.Fetch(ctx, key)
	i.observe("get", start, boolResult(found, err, telemetry.ResultHit, telemetry.ResultMiss))
	return raw, found, err
}

func (i *instrumented) Remove(ctx context.Context, key string) (bool, error) {
	start := time.Now()
	ok, err := i.next.Remove(ctx, key)
	i.observe("remove", start, boolResult(ok, err, telemetry.ResultOK, telemetry.ResultMiss))
	return ok, err
}

func (i *instrumented) RemoveSafely(ctx context.Context, key string) bool {
	start := time.Now()
	ok := i.next.RemoveSafely(ctx, key)
	i.observe("remove_safely", start, telemetry.ResultOK)
	return ok
}

func (i *instrumented) Increment(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	start := time.Now()
	first, err := i.next.Increment(ctx, key, ttl)
	i.observe("increment", start, boolResult(first, err, telemetry.ResultOK, telemetry.ResultRejected))
	return first, err
}

func (i *instrumented) Count(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	start := time.Now()
	n, err := i.next.Count(ctx, key, ttl)
	i.observe("count", start, boolResult(true, err, telemetry.ResultOK, ""))
	return n, err
}

func (i *instrumented) Health(ctx context.Context) error {
	return i.next.Health(ctx)
}

func (i *instrumented) Close() error {
	return i.next.Close()
}
