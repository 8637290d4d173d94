package logger

import (
	"context"
	"fmt"

	"CacheFacade/internal/models"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ConsoleLogger implements Service with structured zap output
type ConsoleLogger struct {
	log *zap.Logger
}

// NewConsoleLogger builds a JSON production logger at the given level (debug, info, warn, error)
func NewConsoleLogger(level string) (Service, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("failed to build zap logger: %w", err)
	}
	return NewZapLogger(l), nil
}

// NewZapLogger wraps an existing zap logger
func NewZapLogger(l *zap.Logger) Service {
	return &ConsoleLogger{log: l}
}

func (c *ConsoleLogger) fields(ctx context.Context, operation, key string, metadata map[string]interface{}) []zap.Field {
	logEvent := GetLogEvent(ctx)

	fields := []zap.Field{
		zap.String("operation", operation),
		zap.String("process_id", logEvent.ProcessID),
		zap.String("process_type", string(logEvent.ProcessType)),
	}
	if key != "" {
		fields = append(fields, zap.String("key", key))
	}
	if logEvent.ClientIP != "" {
		fields = append(fields, zap.String("client_ip", logEvent.ClientIP))
	}
	if len(metadata) > 0 {
		fields = append(fields, zap.Any("metadata", metadata))
	}
	return fields
}

// LogInfo logs an informational message
func (c *ConsoleLogger) LogInfo(ctx context.Context, operation, message string, metadata map[string]interface{}) {
	c.log.Info(message, c.fields(ctx, operation, "", metadata)...)
}

// LogSuccess logs a successful operation
func (c *ConsoleLogger) LogSuccess(ctx context.Context, operation, key, message string, metadata map[string]interface{}) {
	c.log.Info(message, c.fields(ctx, operation, key, metadata)...)
}

// LogError logs an error; severity picks the zap level
func (c *ConsoleLogger) LogError(ctx context.Context, operation, key, message string, err error, severity models.LogSeverity, metadata map[string]interface{}) {
	fields := append(c.fields(ctx, operation, key, metadata),
		zap.String("severity", string(severity)),
		zap.Error(err),
	)

	switch severity {
	case models.LogSeverityHigh:
		c.log.Error(message, fields...)
	case models.LogSeverityMedium:
		c.log.Warn(message, fields...)
	default:
		c.log.Info(message, fields...)
	}
}

// Close flushes buffered output. Sync on a terminal can fail harmlessly, so its error is dropped.
func (c *ConsoleLogger) Close() error {
	_ = c.log.Sync()
	return nil
}
