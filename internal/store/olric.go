package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"CacheFacade/internal/models"

	olriclib "github.com/olric-data/olric"
)

// OlricConfig holds configuration for the Olric store
type OlricConfig struct {
	// Servers is a list of Olric server addresses (e.g., ["localhost:3320"])
	Servers []string

	// DMap is the distributed map all keys live in
	DMap string
}

// dmapOps is the slice of the Olric DMap API the store relies on
type dmapOps interface {
	get(ctx context.Context, key string) ([]byte, error)
	put(ctx context.Context, key string, payload []byte, ttl time.Duration, onlyIfAbsent bool) error
	del(ctx context.Context, key string) (int, error)
	incr(ctx context.Context, key string, delta int) (int, error)
	expire(ctx context.Context, key string, ttl time.Duration) error
}

// OlricStore implements Client on top of an Olric distributed map
type OlricStore struct {
	dm    dmapOps
	close func(ctx context.Context) error
}

// NewOlricStore connects to an Olric cluster and opens the configured DMap
func NewOlricStore(cfg OlricConfig) (Client, error) {
	servers := cfg.Servers
	if len(servers) == 0 {
		servers = []string{"localhost:3320"}
	}
	name := cfg.DMap
	if name == "" {
		name = "cache"
	}

	client, err := olriclib.NewClusterClient(servers)
	if err != nil {
		return nil, fmt.Errorf("failed to create Olric cluster client: %w", err)
	}

	dm, err := client.NewDMap(name)
	if err != nil {
		_ = client.Close(context.Background())
		return nil, fmt.Errorf("failed to create DMap %q: %w", name, err)
	}

	return &OlricStore{
		dm:    olricDMap{dm: dm},
		close: client.Close,
	}, nil
}

// Exists reports whether key is present
func (o *OlricStore) Exists(ctx context.Context, key string) (bool, error) {
	_, found, err := o.Fetch(ctx, key)
	return found, err
}

// InsertIfAbsent stores payload with the NX put option
func (o *OlricStore) InsertIfAbsent(ctx context.Context, key string, payload []byte, ttl time.Duration) (bool, error) {
	err := o.dm.put(ctx, key, payload, ttl, true)
	if err != nil {
		if errors.Is(err, olriclib.ErrKeyFound) {
			return false, nil
		}
		return false, models.NewStoreError("olric", "put", err)
	}
	return true, nil
}

// Upsert stores payload, replacing any previous value
func (o *OlricStore) Upsert(ctx context.Context, key string, payload []byte, ttl time.Duration) ([]byte, error) {
	if err := o.dm.put(ctx, key, payload, ttl, false); err != nil {
		return nil, models.NewStoreError("olric", "put", err)
	}
	return payload, nil
}

// Fetch retrieves the payload stored under key
func (o *OlricStore) Fetch(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := o.dm.get(ctx, key)
	if err != nil {
		if isOlricKeyNotFound(err) {
			return nil, false, nil
		}
		return nil, false, models.NewStoreError("olric", "get", err)
	}
	return data, true, nil
}

// Delete removes key from the DMap
func (o *OlricStore) Delete(ctx context.Context, key string) (bool, error) {
	n, err := o.dm.del(ctx, key)
	if err != nil {
		if isOlricKeyNotFound(err) {
			return false, nil
		}
		return false, models.NewStoreError("olric", "delete", err)
	}
	return n > 0, nil
}

// AtomicCreateOrIncrement relies on Incr being atomic inside the partition owner.
// Only the caller that created the counter attaches the expiry.
func (o *OlricStore) AtomicCreateOrIncrement(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	n, err := o.dm.incr(ctx, key, 1)
	if err != nil {
		if isOlricTypeMismatch(err) {
			return 0, fmt.Errorf("value at %q is not an integer: %w", key, models.ErrTypeMismatch)
		}
		return 0, models.NewStoreError("olric", "incr", err)
	}

	if n == 1 && ttl > 0 {
		if err := o.dm.expire(ctx, key, ttl); err != nil {
			// Drop the counter so the next call recreates it with its TTL
			if _, delErr := o.dm.del(ctx, key); delErr != nil && !isOlricKeyNotFound(delErr) {
				err = errors.Join(err, delErr)
			}
			return 0, models.NewStoreError("olric", "expire", err)
		}
	}
	return int64(n), nil
}

// Ping reads a sentinel key; a miss still proves the cluster answered
func (o *OlricStore) Ping(ctx context.Context) error {
	if _, err := o.dm.get(ctx, "__ping__"); err != nil && !isOlricKeyNotFound(err) {
		return models.NewStoreError("olric", "ping", err)
	}
	return nil
}

// Close closes the Olric client connection
func (o *OlricStore) Close() error {
	if o.close == nil {
		return nil
	}
	return o.close(context.Background())
}

// Wrapped and remote errors do not always keep the sentinel identity.
func isOlricKeyNotFound(err error) bool {
	return errors.Is(err, olriclib.ErrKeyNotFound) || strings.Contains(err.Error(), "key not found")
}

// Incr decodes the stored value server side; a non-integer payload comes back as a plain error string.
func isOlricTypeMismatch(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "mismatched type") || strings.Contains(msg, "not an integer") || strings.Contains(msg, "invalid syntax")
}

// olricDMap adapts olric.DMap to dmapOps
type olricDMap struct {
	dm olriclib.DMap
}

func (d olricDMap) get(ctx context.Context, key string) ([]byte, error) {
	gr, err := d.dm.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return gr.Byte()
}

func (d olricDMap) put(ctx context.Context, key string, payload []byte, ttl time.Duration, onlyIfAbsent bool) error {
	var opts []olriclib.PutOption
	if ttl > 0 {
		opts = append(opts, olriclib.EX(ttl))
	}
	if onlyIfAbsent {
		opts = append(opts, olriclib.NX())
	}
	return d.dm.Put(ctx, key, payload, opts...)
}

func (d olricDMap) del(ctx context.Context, key string) (int, error) {
	return d.dm.Delete(ctx, key)
}

func (d olricDMap) incr(ctx context.Context, key string, delta int) (int, error) {
	return d.dm.Incr(ctx, key, delta)
}

func (d olricDMap) expire(ctx context.Context, key string, ttl time.Duration) error {
	return d.dm.Expire(ctx, key, ttl)
}
