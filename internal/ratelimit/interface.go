package ratelimit

import (
	"context"
	"time"
)

// Service defines the interface for rate limiting
// External packages should use this interface, not the concrete implementations
type Service interface {
	Allow(ctx context.Context, clientIP string) bool
	Wait(ctx context.Context, clientIP string) error
}

// Counter is the create-or-increment primitive the limiter keeps its windows in.
// cache.Service satisfies it.
type Counter interface {
	Count(ctx context.Context, key string, ttl time.Duration) (int64, error)
}
