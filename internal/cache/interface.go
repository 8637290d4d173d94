package cache

import (
	"context"
	"time"
)

// Service defines the cache facade operations over a backing key-value store.
// Typed access goes through the package functions Put, PutWithTTL, Get and GetAsValue,
// which are built on Upsert and Fetch.
// External packages should use this interface, not the concrete implementations
type Service interface {
	Exists(ctx context.Context, key string) (bool, error)

	// Add inserts value only if key is absent. A duplicate key yields false, not an error.
	Add(ctx context.Context, key string, value interface{}) (bool, error)
	AddWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)

	// Upsert inserts or replaces value and returns the encoded payload as stored.
	Upsert(ctx context.Context, key string, value interface{}) ([]byte, error)
	UpsertWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) ([]byte, error)

	// Fetch returns the encoded payload and whether key was present.
	Fetch(ctx context.Context, key string) ([]byte, bool, error)

	// Remove deletes key and reports whether an entry existed.
	Remove(ctx context.Context, key string) (bool, error)

	// RemoveSafely deletes key for idempotent cleanup. It always returns true;
	// store failures are logged, never returned.
	RemoveSafely(ctx context.Context, key string) bool

	// Increment reports true only to the caller whose increment created the counter.
	Increment(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Count increments the counter like Increment and returns its new value.
	Count(ctx context.Context, key string, ttl time.Duration) (int64, error)

	Health(ctx context.Context) error
	Close() error
}
