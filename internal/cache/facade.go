// Package cache implements the cache facade: a stateless adapter that turns
// add/get/put/remove/increment calls into single operations on a store.Client.
package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"CacheFacade/internal/logger"
	"CacheFacade/internal/models"
	"CacheFacade/internal/store"
)

// systemNamespace prefixes keys owned by internal components (rate limit counters).
// Only facades built with NewSystem may read or write under it.
const systemNamespace = "_sys"

// facade implements Service on top of a store client.
// It keeps no mutable state, so one instance can be shared by any number of goroutines.
type facade struct {
	store      store.Client
	logger     logger.Service
	defaultTTL time.Duration
	keyPrefix  string
	system     bool
}

// New creates a cache facade. defaultTTL applies to Add and Upsert (zero means no expiry);
// a non-empty keyPrefix namespaces every key as "prefix:key".
func New(client store.Client, log logger.Service, defaultTTL time.Duration, keyPrefix string) Service {
	return &facade{
		store:      client,
		logger:     log,
		defaultTTL: defaultTTL,
		keyPrefix:  keyPrefix,
	}
}

// NewSystem creates a facade whose keys live under the reserved "_sys:<namespace>" prefix.
// Facades built with New cannot address these keys.
func NewSystem(client store.Client, log logger.Service, namespace string) Service {
	return &facade{
		store:     client,
		logger:    log,
		keyPrefix: systemNamespace + ":" + namespace,
		system:    true,
	}
}

func (f *facade) storeKey(op, key string) (string, error) {
	if key == "" {
		return "", models.NewCacheError(op, key, "invalid key", models.ErrKeyRequired)
	}
	k := key
	if f.keyPrefix != "" {
		k = f.keyPrefix + ":" + key
	}
	if !f.system && (k == systemNamespace || strings.HasPrefix(k, systemNamespace+":")) {
		return "", models.NewCacheError(op, key, "reserved key", models.ErrReservedKey)
	}
	return k, nil
}

func checkTTL(op, key string, ttl time.Duration) error {
	if ttl < 0 {
		return models.NewCacheError(op, key, "invalid ttl", models.ErrInvalidTTL)
	}
	return nil
}

func encode(op, key string, value interface{}) ([]byte, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return nil, models.NewCacheError(op, key, "failed to encode value", err)
	}
	return payload, nil
}

// Exists reports whether key is present in the store
func (f *facade) Exists(ctx context.Context, key string) (bool, error) {
	k, err := f.storeKey("exists", key)
	if err != nil {
		return false, err
	}
	return f.store.Exists(ctx, k)
}

// Add inserts value with the default TTL if key is absent
func (f *facade) Add(ctx context.Context, key string, value interface{}) (bool, error) {
	return f.AddWithTTL(ctx, key, value, f.defaultTTL)
}

// AddWithTTL inserts value with an explicit TTL if key is absent
func (f *facade) AddWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	k, err := f.storeKey("add", key)
	if err != nil {
		return false, err
	}
	if err := checkTTL("add", key, ttl); err != nil {
		return false, err
	}

	payload, err := encode("add", key, value)
	if err != nil {
		return false, err
	}
	return f.store.InsertIfAbsent(ctx, k, payload, ttl)
}

// Upsert stores value with the default TTL
func (f *facade) Upsert(ctx context.Context, key string, value interface{}) ([]byte, error) {
	return f.UpsertWithTTL(ctx, key, value, f.defaultTTL)
}

// UpsertWithTTL stores value with an explicit TTL, replacing any previous entry
func (f *facade) UpsertWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) ([]byte, error) {
	k, err := f.storeKey("put", key)
	if err != nil {
		return nil, err
	}
	if err := checkTTL("put", key, ttl); err != nil {
		return nil, err
	}

	payload, err := encode("put", key, value)
	if err != nil {
		return nil, err
	}
	return f.store.Upsert(ctx, k, payload, ttl)
}

// Fetch retrieves the stored payload for key
func (f *facade) Fetch(ctx context.Context, key string) ([]byte, bool, error) {
	k, err := f.storeKey("get", key)
	if err != nil {
		return nil, false, err
	}
	return f.store.Fetch(ctx, k)
}

// Remove deletes key
func (f *facade) Remove(ctx context.Context, key string) (bool, error) {
	k, err := f.storeKey("remove", key)
	if err != nil {
		return false, err
	}
	return f.store.Delete(ctx, k)
}

// RemoveSafely deletes key and swallows any failure
func (f *facade) RemoveSafely(ctx context.Context, key string) bool {
	if _, err := f.Remove(ctx, key); err != nil {
		f.logger.LogError(ctx, logger.OpCacheRemoveSafely, key, "Ignored failure while removing key", err, models.LogSeverityLow, nil)
	}
	return true
}

// Increment delegates to the store's atomic create-or-increment; the caller that
// created the counter is the only one to get true.
func (f *facade) Increment(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	n, err := f.Count(ctx, key, ttl)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Count increments the counter under key and returns its value
func (f *facade) Count(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	k, err := f.storeKey("increment", key)
	if err != nil {
		return 0, err
	}
	if err := checkTTL("increment", key, ttl); err != nil {
		return 0, err
	}
	return f.store.AtomicCreateOrIncrement(ctx, k, ttl)
}

// Health pings the backing store
func (f *facade) Health(ctx context.Context) error {
	return f.store.Ping(ctx)
}

// Close releases the store client
func (f *facade) Close() error {
	return f.store.Close()
}
