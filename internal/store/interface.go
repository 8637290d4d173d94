package store

import (
	"context"
	"time"
)

// Client is the capability set the cache facade needs from a backing key-value store.
// Payloads are opaque bytes; a zero ttl means the entry never expires.
// External packages should use this interface, not the concrete implementations
type Client interface {
	Exists(ctx context.Context, key string) (bool, error)

	// InsertIfAbsent stores payload only when key is not present and reports whether it did.
	InsertIfAbsent(ctx context.Context, key string, payload []byte, ttl time.Duration) (bool, error)

	// Upsert inserts or replaces the entry and returns the payload as stored.
	Upsert(ctx context.Context, key string, payload []byte, ttl time.Duration) ([]byte, error)

	// Fetch returns the payload and whether the key was present. A miss is not an error.
	Fetch(ctx context.Context, key string) ([]byte, bool, error)

	// Delete removes key and reports whether an entry existed. An absent key is not an error.
	Delete(ctx context.Context, key string) (bool, error)

	// AtomicCreateOrIncrement increments the counter at key in a single atomic store
	// operation, creating it with the given ttl when absent. It returns the counter
	// value after the increment, so exactly one caller observes 1 per counter lifetime.
	AtomicCreateOrIncrement(ctx context.Context, key string, ttl time.Duration) (int64, error)

	Ping(ctx context.Context) error
	Close() error
}

// Store type names accepted by configuration
const (
	TypeMemory = "memory"
	TypeRedis  = "redis"
	TypeOlric  = "olric"
)
