package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"CacheFacade/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingDB captures inserted entries on a channel
type recordingDB struct {
	entries chan *models.LogEntry
	closed  bool
}

func (r *recordingDB) InsertLog(_ context.Context, entry *models.LogEntry) error {
	r.entries <- entry
	return nil
}

func (r *recordingDB) Close() error {
	r.closed = true
	return nil
}

func (r *recordingDB) Ping(context.Context) error { return nil }

func waitEntry(t *testing.T, db *recordingDB) *models.LogEntry {
	t.Helper()
	select {
	case e := <-db.entries:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("log entry was not inserted")
		return nil
	}
}

func TestDatabaseLogger_LogError(t *testing.T) {
	db := &recordingDB{entries: make(chan *models.LogEntry, 1)}
	log := NewDatabaseLogger(db)

	event := NewRequestLogEvent("192.168.1.1")
	ctx := WithLogEvent(context.Background(), event)

	log.LogError(ctx, OpCacheRemoveSafely, "test1", "Ignored failure", errors.New("connection refused"), models.LogSeverityLow, map[string]interface{}{"attempt": 1})

	entry := waitEntry(t, db)
	assert.Equal(t, OpCacheRemoveSafely, entry.Operation)
	assert.Equal(t, "test1", entry.Key)
	assert.Equal(t, models.LogSeverityLow, entry.Severity)
	assert.Equal(t, "connection refused", entry.Error)
	assert.Equal(t, event.ProcessID, entry.ProcessID)
	assert.Equal(t, "192.168.1.1", entry.ClientIP)
	assert.NotEmpty(t, entry.ID)
}

func TestDatabaseLogger_LogInfo_NoSeverity(t *testing.T) {
	db := &recordingDB{entries: make(chan *models.LogEntry, 1)}
	log := NewDatabaseLogger(db)

	log.LogInfo(context.Background(), OpServerStart, "Starting", nil)

	entry := waitEntry(t, db)
	assert.Empty(t, entry.Severity)
	assert.Empty(t, entry.Error)
	assert.Equal(t, models.ProcessTypeInternal, entry.ProcessType)
}

func TestDatabaseLogger_Close(t *testing.T) {
	db := &recordingDB{entries: make(chan *models.LogEntry, 1)}
	log := NewDatabaseLogger(db)

	require.NoError(t, log.Close())
	assert.True(t, db.closed)
}

func TestInsertArgs_NullsEmptyFields(t *testing.T) {
	entry := &models.LogEntry{
		ID:          "id",
		Message:     "m",
		Operation:   OpCacheGet,
		ProcessID:   "pid",
		ProcessType: models.ProcessTypeInternal,
	}

	args, err := insertArgs(entry)
	require.NoError(t, err)
	require.Len(t, args, 11)

	assert.Nil(t, args[2])  // severity
	assert.Nil(t, args[5])  // cache_key
	assert.Nil(t, args[8])  // client_ip
	assert.Nil(t, args[9])  // error_details
	assert.Nil(t, args[10]) // metadata
}

func TestInsertArgs_Metadata(t *testing.T) {
	entry := &models.LogEntry{Metadata: map[string]interface{}{"ttl_seconds": 10}}

	args, err := insertArgs(entry)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ttl_seconds":10}`, args[10].(string))

	entry.Metadata = map[string]interface{}{"bad": make(chan int)}
	_, err = insertArgs(entry)
	assert.Error(t, err)
}

func TestGetLogEvent(t *testing.T) {
	event := NewRequestLogEvent("1.2.3.4")
	ctx := WithLogEvent(context.Background(), event)

	assert.Same(t, event, GetLogEvent(ctx))

	// Without an event an internal one is produced
	fallback := GetLogEvent(context.Background())
	assert.Equal(t, models.ProcessTypeInternal, fallback.ProcessType)
	assert.NotEmpty(t, fallback.ProcessID)
}
