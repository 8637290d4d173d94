package store

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"CacheFacade/internal/models"
)

// MemoryStore implements Client using in-process storage.
// All mutations run under a single lock, which is what makes
// InsertIfAbsent and AtomicCreateOrIncrement atomic.
type MemoryStore struct {
	data  map[string]*memoryEntry
	mutex sync.Mutex
	now   func() time.Time
	done  chan struct{}
	once  sync.Once
}

// memoryEntry represents a single entry with optional expiration
type memoryEntry struct {
	payload   []byte
	expiresAt time.Time // zero means no expiry
}

func (e *memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() Client {
	return newMemoryStore(time.Now, 5*time.Minute)
}

// newMemoryStore creates the concrete implementation
func newMemoryStore(now func() time.Time, sweepInterval time.Duration) *MemoryStore {
	s := &MemoryStore{
		data: make(map[string]*memoryEntry),
		now:  now,
		done: make(chan struct{}),
	}

	// Start cleanup routine
	go s.cleanupExpired(sweepInterval)

	return s
}

// lookup returns a live entry; expired entries are dropped. Caller holds the lock.
func (m *MemoryStore) lookup(key string) (*memoryEntry, bool) {
	entry, exists := m.data[key]
	if !exists {
		return nil, false
	}
	if entry.expired(m.now()) {
		delete(m.data, key)
		return nil, false
	}
	return entry, true
}

func (m *MemoryStore) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return m.now().Add(ttl)
}

// Exists reports whether a live entry is stored under key
func (m *MemoryStore) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, models.NewStoreError("memory", "exists", err)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	_, ok := m.lookup(key)
	return ok, nil
}

// InsertIfAbsent stores payload only if key is not already present
func (m *MemoryStore) InsertIfAbsent(ctx context.Context, key string, payload []byte, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, models.NewStoreError("memory", "insert", err)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, ok := m.lookup(key); ok {
		return false, nil
	}

	m.data[key] = &memoryEntry{
		payload:   clone(payload),
		expiresAt: m.expiry(ttl),
	}
	return true, nil
}

// Upsert inserts or replaces the entry under key
func (m *MemoryStore) Upsert(ctx context.Context, key string, payload []byte, ttl time.Duration) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, models.NewStoreError("memory", "upsert", err)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	stored := clone(payload)
	m.data[key] = &memoryEntry{
		payload:   stored,
		expiresAt: m.expiry(ttl),
	}
	return clone(stored), nil
}

// Fetch retrieves the payload stored under key
func (m *MemoryStore) Fetch(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, models.NewStoreError("memory", "fetch", err)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	entry, ok := m.lookup(key)
	if !ok {
		return nil, false, nil
	}
	return clone(entry.payload), true, nil
}

// Delete removes the entry under key
func (m *MemoryStore) Delete(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, models.NewStoreError("memory", "delete", err)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, ok := m.lookup(key); !ok {
		return false, nil
	}
	delete(m.data, key)
	return true, nil
}

// AtomicCreateOrIncrement increments the counter under key, creating it with ttl when absent.
// Counters are stored as decimal text, the same representation Redis uses.
func (m *MemoryStore) AtomicCreateOrIncrement(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, models.NewStoreError("memory", "increment", err)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	entry, ok := m.lookup(key)
	if !ok {
		m.data[key] = &memoryEntry{
			payload:   []byte("1"),
			expiresAt: m.expiry(ttl),
		}
		return 1, nil
	}

	current, err := strconv.ParseInt(string(entry.payload), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("value at %q is not an integer: %w", key, models.ErrTypeMismatch)
	}

	current++
	entry.payload = []byte(strconv.FormatInt(current, 10))
	return current, nil
}

// Ping always succeeds for the in-process store
func (m *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close stops the cleanup routine
func (m *MemoryStore) Close() error {
	m.once.Do(func() { close(m.done) })
	return nil
}

// cleanupExpired removes expired entries from the store
func (m *MemoryStore) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			now := m.now()

			m.mutex.Lock()
			for key, entry := range m.data {
				if entry.expired(now) {
					delete(m.data, key)
				}
			}
			m.mutex.Unlock()
		}
	}
}

// Size returns the current number of stored entries (for monitoring)
func (m *MemoryStore) Size() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.data)
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
