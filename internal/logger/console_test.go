package logger

import (
	"context"
	"errors"
	"testing"

	"CacheFacade/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger() (Service, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewZapLogger(zap.New(core)), logs
}

func TestConsoleLogger_LogSuccess_Fields(t *testing.T) {
	log, logs := newObservedLogger()
	ctx := WithLogEvent(context.Background(), NewRequestLogEvent("10.0.0.1"))

	log.LogSuccess(ctx, OpCacheAdd, "test1", "Added key", map[string]interface{}{"added": true})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	fields := entry.ContextMap()

	assert.Equal(t, zapcore.InfoLevel, entry.Level)
	assert.Equal(t, "Added key", entry.Message)
	assert.Equal(t, OpCacheAdd, fields["operation"])
	assert.Equal(t, "test1", fields["key"])
	assert.Equal(t, "10.0.0.1", fields["client_ip"])
	assert.Equal(t, string(models.ProcessTypeRequest), fields["process_type"])
	assert.NotEmpty(t, fields["process_id"])
}

func TestConsoleLogger_LogError_SeverityLevels(t *testing.T) {
	tests := []struct {
		severity models.LogSeverity
		level    zapcore.Level
	}{
		{models.LogSeverityHigh, zapcore.ErrorLevel},
		{models.LogSeverityMedium, zapcore.WarnLevel},
		{models.LogSeverityLow, zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			log, logs := newObservedLogger()

			log.LogError(context.Background(), OpCacheGet, "k", "failed", errors.New("boom"), tt.severity, nil)

			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, tt.level, entry.Level)
			assert.Equal(t, "boom", entry.ContextMap()["error"])
			assert.Equal(t, string(tt.severity), entry.ContextMap()["severity"])
		})
	}
}

func TestConsoleLogger_LogInfo_OmitsEmptyFields(t *testing.T) {
	log, logs := newObservedLogger()

	log.LogInfo(context.Background(), OpServerStart, "Starting", nil)

	fields := logs.All()[0].ContextMap()
	assert.NotContains(t, fields, "key")
	assert.NotContains(t, fields, "client_ip")
	assert.NotContains(t, fields, "metadata")
	assert.Equal(t, string(models.ProcessTypeInternal), fields["process_type"])
}

func TestNewConsoleLogger(t *testing.T) {
	log, err := NewConsoleLogger("debug")
	require.NoError(t, err)
	assert.NoError(t, log.Close())

	_, err = NewConsoleLogger("loud")
	assert.Error(t, err)
}
