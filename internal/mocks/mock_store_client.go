package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockStoreClient is a mock implementation of store.Client
type MockStoreClient struct {
	mock.Mock
}

// Exists mocks the Exists method of store.Client
func (m *MockStoreClient) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// InsertIfAbsent mocks the InsertIfAbsent method of store.Client
func (m *MockStoreClient) InsertIfAbsent(ctx context.Context, key string, payload []byte, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, payload, ttl)
	return args.Bool(0), args.Error(1)
}

// Upsert mocks the Upsert method of store.Client
func (m *MockStoreClient) Upsert(ctx context.Context, key string, payload []byte, ttl time.Duration) ([]byte, error) {
	args := m.Called(ctx, key, payload, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Fetch mocks the Fetch method of store.Client
func (m *MockStoreClient) Fetch(ctx context.Context, key string) ([]byte, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.Bool(1), args.Error(2)
}

// Delete mocks the Delete method of store.Client
func (m *MockStoreClient) Delete(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// AtomicCreateOrIncrement mocks the AtomicCreateOrIncrement method of store.Client
func (m *MockStoreClient) AtomicCreateOrIncrement(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	args := m.Called(ctx, key, ttl)
	return args.Get(0).(int64), args.Error(1)
}

// Ping mocks the Ping method of store.Client
func (m *MockStoreClient) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close mocks the Close method of store.Client
func (m *MockStoreClient) Close() error {
	args := m.Called()
	return args.Error(0)
}
