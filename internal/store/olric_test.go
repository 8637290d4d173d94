package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"CacheFacade/internal/models"

	olriclib "github.com/olric-data/olric"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDMap mimics the DMap semantics the store depends on
type fakeDMap struct {
	mu        sync.Mutex
	data      map[string][]byte
	ttls      map[string]time.Duration
	failErr   error
	expireErr error
}

func newFakeDMap() *fakeDMap {
	return &fakeDMap{
		data: make(map[string][]byte),
		ttls: make(map[string]time.Duration),
	}
}

func (f *fakeDMap) get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return nil, f.failErr
	}
	v, ok := f.data[key]
	if !ok {
		return nil, olriclib.ErrKeyNotFound
	}
	return v, nil
}

func (f *fakeDMap) put(_ context.Context, key string, payload []byte, ttl time.Duration, onlyIfAbsent bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return f.failErr
	}
	if _, ok := f.data[key]; ok && onlyIfAbsent {
		return olriclib.ErrKeyFound
	}
	f.data[key] = payload
	f.ttls[key] = ttl
	return nil
}

func (f *fakeDMap) del(_ context.Context, key string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return 0, f.failErr
	}
	if _, ok := f.data[key]; !ok {
		return 0, nil
	}
	delete(f.data, key)
	return 1, nil
}

func (f *fakeDMap) incr(_ context.Context, key string, delta int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return 0, f.failErr
	}
	current := 0
	if v, ok := f.data[key]; ok {
		parsed, err := strconv.Atoi(string(v))
		if err != nil {
			return 0, fmt.Errorf("mismatched type: %s", "[]uint8")
		}
		current = parsed
	}
	current += delta
	f.data[key] = []byte(strconv.Itoa(current))
	return current, nil
}

func (f *fakeDMap) expire(_ context.Context, key string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return f.failErr
	}
	if f.expireErr != nil {
		return f.expireErr
	}
	f.ttls[key] = ttl
	return nil
}

func setupOlricStore() (*OlricStore, *fakeDMap) {
	dm := newFakeDMap()
	return &OlricStore{dm: dm}, dm
}

func TestOlricStore_InsertIfAbsent(t *testing.T) {
	s, dm := setupOlricStore()
	ctx := context.Background()

	inserted, err := s.InsertIfAbsent(ctx, "test1", []byte(`"turgay"`), time.Minute)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, time.Minute, dm.ttls["test1"])

	// ErrKeyFound from an NX put is a normal negative result
	inserted, err = s.InsertIfAbsent(ctx, "test1", []byte(`"turgay"`), time.Minute)
	require.NoError(t, err)
	assert.False(t, inserted)
}

func TestOlricStore_FetchAndDelete(t *testing.T) {
	s, _ := setupOlricStore()
	ctx := context.Background()

	_, found, err := s.Fetch(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	_, err = s.Upsert(ctx, "key", []byte(`"v"`), 0)
	require.NoError(t, err)

	exists, err := s.Exists(ctx, "key")
	require.NoError(t, err)
	assert.True(t, exists)

	removed, err := s.Delete(ctx, "key")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.Delete(ctx, "key")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestOlricStore_AtomicCreateOrIncrement(t *testing.T) {
	s, dm := setupOlricStore()
	ctx := context.Background()

	n, err := s.AtomicCreateOrIncrement(ctx, "counter", 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 10*time.Second, dm.ttls["counter"])

	// Only the creator attaches the expiry
	dm.ttls["counter"] = 0
	n, err = s.AtomicCreateOrIncrement(ctx, "counter", 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, time.Duration(0), dm.ttls["counter"])
}

func TestOlricStore_AtomicCreateOrIncrement_NotInteger(t *testing.T) {
	s, _ := setupOlricStore()
	ctx := context.Background()

	_, err := s.Upsert(ctx, "name", []byte(`"turgay"`), 0)
	require.NoError(t, err)

	_, err = s.AtomicCreateOrIncrement(ctx, "name", time.Second)
	assert.ErrorIs(t, err, models.ErrTypeMismatch)
	assert.NotErrorIs(t, err, models.ErrStoreUnavailable)
}

func TestOlricStore_AtomicCreateOrIncrement_ExpireFailureDropsCounter(t *testing.T) {
	s, dm := setupOlricStore()
	ctx := context.Background()
	dm.expireErr = errors.New("i/o timeout")

	_, err := s.AtomicCreateOrIncrement(ctx, "counter", 10*time.Second)
	assert.ErrorIs(t, err, models.ErrStoreUnavailable)

	exists, err := s.Exists(ctx, "counter")
	require.NoError(t, err)
	assert.False(t, exists, "a counter left without its TTL must not survive")

	// Once the store recovers the next caller creates the counter and wins
	dm.expireErr = nil
	n, err := s.AtomicCreateOrIncrement(ctx, "counter", 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 10*time.Second, dm.ttls["counter"])
}

func TestIsOlricTypeMismatch(t *testing.T) {
	assert.True(t, isOlricTypeMismatch(errors.New("mismatched type: string")))
	assert.True(t, isOlricTypeMismatch(errors.New(`strconv.Atoi: parsing "x": invalid syntax`)))
	assert.False(t, isOlricTypeMismatch(errors.New("connection refused")))
}

func TestOlricStore_StoreErrors(t *testing.T) {
	s, dm := setupOlricStore()
	dm.failErr = errors.New("connection refused")
	ctx := context.Background()

	_, _, err := s.Fetch(ctx, "key")
	assert.ErrorIs(t, err, models.ErrStoreUnavailable)

	_, err = s.InsertIfAbsent(ctx, "key", []byte(`1`), 0)
	assert.ErrorIs(t, err, models.ErrStoreUnavailable)

	_, err = s.AtomicCreateOrIncrement(ctx, "key", time.Second)
	assert.ErrorIs(t, err, models.ErrStoreUnavailable)

	assert.ErrorIs(t, s.Ping(ctx), models.ErrStoreUnavailable)
}

func TestOlricStore_Ping_MissIsHealthy(t *testing.T) {
	s, _ := setupOlricStore()

	assert.NoError(t, s.Ping(context.Background()))
	assert.NoError(t, s.Close())
}

func TestIsOlricKeyNotFound(t *testing.T) {
	assert.True(t, isOlricKeyNotFound(olriclib.ErrKeyNotFound))
	assert.True(t, isOlricKeyNotFound(errors.New("remote: key not found")))
	assert.False(t, isOlricKeyNotFound(errors.New("connection refused")))
}
