package ratelimit

import (
	"context"
	"fmt"
	"time"

	"CacheFacade/internal/logger"
	"CacheFacade/internal/models"
	"CacheFacade/internal/telemetry"
)

const (
	TierGlobal = "global"
	TierIP     = "ip"
)

// WindowLimiter implements fixed-window global and per-IP rate limiting.
// Window counters live in the backing store, so every replica sharing the
// store shares the same limits.
type WindowLimiter struct {
	counter     Counter
	logger      logger.Service
	metrics     *telemetry.Metrics
	globalLimit int64
	perIPLimit  int64
	window      time.Duration
	now         func() time.Time
}

// NewWindowLimiter creates a limiter allowing globalLimit and perIPLimit requests
// per second. A limit of zero or less disables that tier. metrics may be nil.
func NewWindowLimiter(counter Counter, log logger.Service, metrics *telemetry.Metrics, globalLimit, perIPLimit int) *WindowLimiter {
	return &WindowLimiter{
		counter:     counter,
		logger:      log,
		metrics:     metrics,
		globalLimit: int64(globalLimit),
		perIPLimit:  int64(perIPLimit),
		window:      time.Second,
		now:         time.Now,
	}
}

// Allow checks the per-IP window first, then the global one, so a client that is
// already over its own limit does not use up global capacity.
func (l *WindowLimiter) Allow(ctx context.Context, clientIP string) bool {
	windowStart := l.now().Truncate(l.window).Unix()

	if l.perIPLimit > 0 {
		key := fmt.Sprintf("ip:%s:%d", clientIP, windowStart)
		if !l.within(ctx, TierIP, key, l.perIPLimit) {
			return false
		}
	}

	if l.globalLimit > 0 {
		key := fmt.Sprintf("global:%d", windowStart)
		if !l.within(ctx, TierGlobal, key, l.globalLimit) {
			return false
		}
	}

	return true
}

// within counts one hit against key. A store failure lets the request through.
func (l *WindowLimiter) within(ctx context.Context, tier, key string, limit int64) bool {
	// Counters outlive their window so a slow request never recreates one
	hits, err := l.counter.Count(ctx, key, 2*l.window)
	if err != nil {
		l.logger.LogError(ctx, logger.OpRateLimited, key, "Rate limit counter unavailable, allowing request", err, models.LogSeverityMedium, map[string]interface{}{
			"tier": tier,
		})
		return true
	}

	if hits > limit {
		if l.metrics != nil {
			l.metrics.RateLimitRejects.WithLabelValues(tier).Inc()
		}
		return false
	}
	return true
}

// Wait blocks until the request is allowed for the given IP
func (l *WindowLimiter) Wait(ctx context.Context, clientIP string) error {
	if l.Allow(ctx, clientIP) {
		return nil
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if l.Allow(ctx, clientIP) {
				return nil
			}
		}
	}
}
