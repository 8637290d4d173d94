package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"CacheFacade/internal/models"

	"github.com/redis/go-redis/v9"
)

// createOrIncrementScript bumps the counter and attaches the expiry in the same
// server-side step, so the counter can never be left without its TTL.
var createOrIncrementScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 and tonumber(ARGV[1]) > 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return n
`)

// RedisStore implements Client using Redis
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a new Redis-backed store
func NewRedisStore(redisURL string) (Client, error) {
	return newRedisStore(redisURL)
}

// newRedisStore creates the concrete implementation
func newRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{
		client: client,
	}, nil
}

// Exists reports whether key is present
func (r *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, models.NewStoreError("redis", "exists", err)
	}
	return n > 0, nil
}

// InsertIfAbsent stores payload with SET NX
func (r *RedisStore) InsertIfAbsent(ctx context.Context, key string, payload []byte, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, payload, ttl).Result()
	if err != nil {
		return false, models.NewStoreError("redis", "setnx", err)
	}
	return ok, nil
}

// Upsert stores payload, replacing any previous value
func (r *RedisStore) Upsert(ctx context.Context, key string, payload []byte, ttl time.Duration) ([]byte, error) {
	if err := r.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return nil, models.NewStoreError("redis", "set", err)
	}
	return payload, nil
}

// Fetch retrieves the payload stored under key
func (r *RedisStore) Fetch(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, models.NewStoreError("redis", "get", err)
	}
	return data, true, nil
}

// Delete removes key from Redis
func (r *RedisStore) Delete(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Del(ctx, key).Result()
	if err != nil {
		return false, models.NewStoreError("redis", "del", err)
	}
	return n > 0, nil
}

// AtomicCreateOrIncrement runs INCR and, for a fresh counter, PEXPIRE in one script
func (r *RedisStore) AtomicCreateOrIncrement(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	// PEXPIRE has millisecond resolution; a positive ttl must never round down to "no expiry"
	ttlMillis := ttl.Milliseconds()
	if ttl > 0 && ttlMillis == 0 {
		ttlMillis = 1
	}

	n, err := createOrIncrementScript.Run(ctx, r.client, []string{key}, ttlMillis).Int64()
	if err != nil {
		if strings.Contains(err.Error(), "not an integer") {
			return 0, fmt.Errorf("value at %q is not an integer: %w", key, models.ErrTypeMismatch)
		}
		return 0, models.NewStoreError("redis", "incr", err)
	}
	return n, nil
}

// Ping checks connectivity
func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return models.NewStoreError("redis", "ping", err)
	}
	return nil
}

// Close closes the Redis connection
func (r *RedisStore) Close() error {
	return r.client.Close()
}
