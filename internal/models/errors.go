package models

import (
	"errors"
	"fmt"
)

var (
	// ErrKeyRequired indicates that an operation was called with an empty key
	ErrKeyRequired = errors.New("cache key is required")

	// ErrReservedKey indicates a key inside the namespace kept for internal counters
	ErrReservedKey = errors.New("cache key is reserved")

	// ErrInvalidTTL indicates that a negative expiry was supplied
	ErrInvalidTTL = errors.New("ttl must not be negative")

	// ErrTypeMismatch indicates that a stored payload cannot be decoded into the requested type
	ErrTypeMismatch = errors.New("cached value type mismatch")

	// ErrStoreUnavailable indicates a transient failure talking to the backing store
	ErrStoreUnavailable = errors.New("cache store unavailable")

	// ErrRateLimitExceeded indicates that rate limit has been exceeded
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrUnsupportedStore indicates an unknown store type in configuration
	ErrUnsupportedStore = errors.New("unsupported store type")
)

// CacheError represents an error specific to a cache operation on a key
type CacheError struct {
	Op      string
	Key     string
	Message string
	Err     error
}

func (e *CacheError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cache %s %q: %s: %v", e.Op, e.Key, e.Message, e.Err)
	}
	return fmt.Sprintf("cache %s %q: %s", e.Op, e.Key, e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Err
}

// NewCacheError creates a new key-scoped cache error
func NewCacheError(op, key, message string, err error) *CacheError {
	return &CacheError{
		Op:      op,
		Key:     key,
		Message: message,
		Err:     err,
	}
}

// NewStoreError wraps a backend failure so that it matches ErrStoreUnavailable
// while keeping the driver error reachable through errors.Is / errors.As.
func NewStoreError(backend, op string, err error) error {
	return fmt.Errorf("%s %s failed: %w: %w", backend, op, ErrStoreUnavailable, err)
}
