package models

import (
	"encoding/json"
	"time"
)

// EntryResponse is returned by read and upsert endpoints
type EntryResponse struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// ValueResponse is returned by the raw scalar endpoint
type ValueResponse struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// AddResponse reports whether an Add inserted a new entry
type AddResponse struct {
	Key   string `json:"key"`
	Added bool   `json:"added"`
}

// RemoveResponse reports whether a Remove deleted an entry
type RemoveResponse struct {
	Key     string `json:"key"`
	Removed bool   `json:"removed"`
	Safe    bool   `json:"safe,omitempty"`
}

// ExistsResponse reports key presence
type ExistsResponse struct {
	Key    string `json:"key"`
	Exists bool   `json:"exists"`
}

// IncrementResponse reports whether the caller created the counter
type IncrementResponse struct {
	Key   string `json:"key"`
	First bool   `json:"first"`
}

// LogSeverity represents the severity level of a log entry
type LogSeverity string

const (
	LogSeverityLow    LogSeverity = "low"
	LogSeverityMedium LogSeverity = "medium"
	LogSeverityHigh   LogSeverity = "high"
)

// ProcessType represents the type of process that created the log
type ProcessType string

const (
	ProcessTypeRequest  ProcessType = "request"
	ProcessTypeInternal ProcessType = "internal"
)

// LogEvent represents a process-specific logging context
type LogEvent struct {
	ProcessID   string      `json:"process_id"`
	ProcessType ProcessType `json:"process_type"`
	StartTime   time.Time   `json:"start_time"`
	ClientIP    string      `json:"client_ip,omitempty"`
}

// LogEntry represents a structured log entry for database storage
type LogEntry struct {
	ID          string                 `json:"id"`
	Timestamp   time.Time              `json:"timestamp"`
	Severity    LogSeverity            `json:"severity,omitempty"`
	Message     string                 `json:"message"`
	Operation   string                 `json:"operation"`
	Key         string                 `json:"key,omitempty"`
	ProcessID   string                 `json:"process_id"`
	ProcessType ProcessType            `json:"process_type"`
	ClientIP    string                 `json:"client_ip,omitempty"`
	Error       string                 `json:"error,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}
