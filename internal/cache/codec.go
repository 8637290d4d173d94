package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"CacheFacade/internal/models"

	"github.com/tidwall/gjson"
)

// Scalar lists the types GetAsValue can return
type Scalar interface {
	~string | ~bool |
		~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Put upserts value under key with the facade's default TTL and returns the stored value.
func Put[T any](ctx context.Context, svc Service, key string, value T) (T, error) {
	stored, err := svc.Upsert(ctx, key, value)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T]("put", key, stored)
}

// PutWithTTL is Put with an explicit expiry.
func PutWithTTL[T any](ctx context.Context, svc Service, key string, value T, ttl time.Duration) (T, error) {
	stored, err := svc.UpsertWithTTL(ctx, key, value, ttl)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T]("put", key, stored)
}

// Get fetches key and decodes it into T. A miss returns the zero value and false.
// A payload that does not fit T fails with models.ErrTypeMismatch.
func Get[T any](ctx context.Context, svc Service, key string) (T, bool, error) {
	var zero T
	raw, found, err := svc.Fetch(ctx, key)
	if err != nil || !found {
		return zero, false, err
	}

	v, err := decode[T]("get", key, raw)
	return v, true, err
}

// GetAsValue fetches key as a bare scalar rather than a model.
// Objects and arrays fail with models.ErrTypeMismatch. Payloads that are not JSON,
// such as plain text written by another client, are returned verbatim when T is string.
func GetAsValue[T Scalar](ctx context.Context, svc Service, key string) (T, bool, error) {
	var zero T
	raw, found, err := svc.Fetch(ctx, key)
	if err != nil || !found {
		return zero, false, err
	}

	v, err := decodeScalar[T](key, raw)
	return v, true, err
}

func decode[T any](op, key string, raw []byte) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		var zero T
		return zero, models.NewCacheError(op, key, fmt.Sprintf("cannot decode into %T", v), fmt.Errorf("%w: %v", models.ErrTypeMismatch, err))
	}
	return v, nil
}

func decodeScalar[T Scalar](key string, raw []byte) (T, error) {
	var v T

	if !gjson.ValidBytes(raw) {
		if s, ok := any(&v).(*string); ok {
			*s = string(raw)
			return v, nil
		}
		return v, models.NewCacheError("get", key, "payload is not JSON", models.ErrTypeMismatch)
	}

	if parsed := gjson.ParseBytes(raw); parsed.IsObject() || parsed.IsArray() {
		return v, models.NewCacheError("get", key, "payload is not a scalar value", models.ErrTypeMismatch)
	}

	return decode[T]("get", key, raw)
}
