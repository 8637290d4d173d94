package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockCacheService is a mock implementation of cache.Service
type MockCacheService struct {
	mock.Mock
}

// Exists mocks the Exists method of cache.Service
func (m *MockCacheService) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// Add mocks the Add method of cache.Service
func (m *MockCacheService) Add(ctx context.Context, key string, value interface{}) (bool, error) {
	args := m.Called(ctx, key, value)
	return args.Bool(0), args.Error(1)
}

// AddWithTTL mocks the AddWithTTL method of cache.Service
func (m *MockCacheService) AddWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, ttl)
	return args.Bool(0), args.Error(1)
}

// Upsert mocks the Upsert method of cache.Service
func (m *MockCacheService) Upsert(ctx context.Context, key string, value interface{}) ([]byte, error) {
	args := m.Called(ctx, key, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// UpsertWithTTL mocks the UpsertWithTTL method of cache.Service
func (m *MockCacheService) UpsertWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) ([]byte, error) {
	args := m.Called(ctx, key, value, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Fetch mocks the Fetch method of cache.Service
func (m *MockCacheService) Fetch(ctx context.Context, key string) ([]byte, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.Bool(1), args.Error(2)
}

// Remove mocks the Remove method of cache.Service
func (m *MockCacheService) Remove(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// RemoveSafely mocks the RemoveSafely method of cache.Service
func (m *MockCacheService) RemoveSafely(ctx context.Context, key string) bool {
	args := m.Called(ctx, key)
	return args.Bool(0)
}

// Increment mocks the Increment method of cache.Service
func (m *MockCacheService) Increment(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

// Count mocks the Count method of cache.Service
func (m *MockCacheService) Count(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	args := m.Called(ctx, key, ttl)
	return args.Get(0).(int64), args.Error(1)
}

// Health mocks the Health method of cache.Service
func (m *MockCacheService) Health(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close mocks the Close method of cache.Service
func (m *MockCacheService) Close() error {
	args := m.Called()
	return args.Error(0)
}
