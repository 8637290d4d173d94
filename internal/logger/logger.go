package logger

import (
	"context"
	"fmt"
	"time"

	"CacheFacade/internal/models"

	"github.com/google/uuid"
)

// DatabaseLogger implements the Service interface using a database backend
type DatabaseLogger struct {
	db      DatabaseConnection
	timeout time.Duration
}

// NewDatabaseLogger creates a new database logger
func NewDatabaseLogger(db DatabaseConnection) Service {
	return &DatabaseLogger{
		db:      db,
		timeout: 5 * time.Second,
	}
}

// LogInfo logs an informational message (no severity)
func (l *DatabaseLogger) LogInfo(ctx context.Context, operation, message string, metadata map[string]interface{}) {
	l.logEntry(ctx, "", operation, "", message, nil, metadata)
}

// LogSuccess logs a successful operation (no severity)
func (l *DatabaseLogger) LogSuccess(ctx context.Context, operation, key, message string, metadata map[string]interface{}) {
	l.logEntry(ctx, "", operation, key, message, nil, metadata)
}

// LogError logs an error with required severity
func (l *DatabaseLogger) LogError(ctx context.Context, operation, key, message string, err error, severity models.LogSeverity, metadata map[string]interface{}) {
	l.logEntry(ctx, severity, operation, key, message, err, metadata)
}

// newEntry builds the row for a log call, pulling process details from the context
func newEntry(ctx context.Context, severity models.LogSeverity, operation, key, message string, err error, metadata map[string]interface{}) *models.LogEntry {
	logEvent := GetLogEvent(ctx)

	entry := &models.LogEntry{
		ID:          uuid.New().String(),
		Timestamp:   time.Now().UTC(),
		Severity:    severity,
		Message:     message,
		Operation:   operation,
		Key:         key,
		ProcessID:   logEvent.ProcessID,
		ProcessType: logEvent.ProcessType,
		ClientIP:    logEvent.ClientIP,
		Metadata:    metadata,
	}

	if err != nil {
		entry.Error = err.Error()
	}
	return entry
}

// logEntry stores the entry asynchronously so cache calls never wait on the log database
func (l *DatabaseLogger) logEntry(ctx context.Context, severity models.LogSeverity, operation, key, message string, err error, metadata map[string]interface{}) {
	entry := newEntry(ctx, severity, operation, key, message, err, metadata)

	go func() {
		logCtx, cancel := context.WithTimeout(context.Background(), l.timeout)
		defer cancel()

		if err := l.db.InsertLog(logCtx, entry); err != nil {
			fmt.Printf("Failed to insert log entry: %v\n", err)
		}
	}()
}

// Close closes the logger and its database connection
func (l *DatabaseLogger) Close() error {
	return l.db.Close()
}

// LogOperations defines constants for common operations
const (
	OpCacheAdd          = "cache_add"
	OpCacheGet          = "cache_get"
	OpCachePut          = "cache_put"
	OpCacheRemove       = "cache_remove"
	OpCacheRemoveSafely = "cache_remove_safely"
	OpCacheIncrement    = "cache_increment"
	OpCacheExists       = "cache_exists"
	OpRateLimited       = "rate_limited"
	OpStoreInit         = "store_init"
	OpServerStart       = "server_start"
	OpServerShutdown    = "server_shutdown"
	OpHealthCheck       = "health_check"
)
