package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"CacheFacade/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresConnection implements DatabaseConnection for PostgreSQL using pgxpool
type PostgresConnection struct {
	pool *pgxpool.Pool
}

// NewPostgresConnection creates a new database connection using connection string
func NewPostgresConnection(connectionString string) (DatabaseConnection, error) {
	return newPostgresConnection(connectionString)
}

// newPostgresConnection creates the concrete implementation
func newPostgresConnection(connectionString string) (*PostgresConnection, error) {
	config, err := pgxpool.ParseConfig(connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database connection string: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2

	// Recycle connections so ones silently dropped by the network get replaced
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	// Disable statement caching to avoid "already exists" errors behind poolers
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec
	config.ConnConfig.StatementCacheCapacity = 0

	config.ConnConfig.DialFunc = func(ctx context.Context, network, addr string) (net.Conn, error) {
		d := &net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}
		return d.DialContext(ctx, "tcp", addr)
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed on %s:%d: %w", config.ConnConfig.Host, config.ConnConfig.Port, err)
	}

	conn := &PostgresConnection{pool: pool}
	if err := conn.createTableIfNotExists(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create logs table: %w", err)
	}

	return conn, nil
}

// createTableIfNotExists creates the logs table if it doesn't exist
func (s *PostgresConnection) createTableIfNotExists(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS cache_operation_logs (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			timestamp TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			severity VARCHAR(10) CHECK (severity IN ('low', 'medium', 'high')),
			message TEXT NOT NULL,
			operation VARCHAR(100) NOT NULL,
			cache_key TEXT,
			process_id UUID NOT NULL,
			process_type VARCHAR(20) NOT NULL CHECK (process_type IN ('request', 'internal')),
			client_ip INET,
			error_details TEXT,
			metadata JSONB,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_cache_operation_logs_timestamp ON cache_operation_logs(timestamp DESC);
		CREATE INDEX IF NOT EXISTS idx_cache_operation_logs_severity ON cache_operation_logs(severity) WHERE severity IS NOT NULL;
		CREATE INDEX IF NOT EXISTS idx_cache_operation_logs_operation ON cache_operation_logs(operation);
		CREATE INDEX IF NOT EXISTS idx_cache_operation_logs_cache_key ON cache_operation_logs(cache_key);
		CREATE INDEX IF NOT EXISTS idx_cache_operation_logs_process_id ON cache_operation_logs(process_id);
	`

	_, err := s.pool.Exec(ctx, query)
	return err
}

// insertArgs maps an entry to the positional INSERT arguments; empty optional fields become NULL
func insertArgs(entry *models.LogEntry) ([]interface{}, error) {
	nullable := func(s string) interface{} {
		if s == "" {
			return nil
		}
		return s
	}

	var metadata interface{}
	if len(entry.Metadata) > 0 {
		jsonBytes, err := json.Marshal(entry.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
		}
		metadata = string(jsonBytes)
	}

	return []interface{}{
		entry.ID,
		entry.Timestamp,
		nullable(string(entry.Severity)),
		entry.Message,
		entry.Operation,
		nullable(entry.Key),
		entry.ProcessID,
		string(entry.ProcessType),
		nullable(entry.ClientIP),
		nullable(entry.Error),
		metadata,
	}, nil
}

// InsertLog inserts a log entry into the database
func (s *PostgresConnection) InsertLog(ctx context.Context, entry *models.LogEntry) error {
	query := `
		INSERT INTO cache_operation_logs
		(id, timestamp, severity, message, operation, cache_key, process_id, process_type, client_ip, error_details, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	args, err := insertArgs(entry)
	if err != nil {
		return err
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert log entry: %w", err)
	}

	return nil
}

// Ping checks if the database connection is alive
func (s *PostgresConnection) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the database connection
func (s *PostgresConnection) Close() error {
	s.pool.Close()
	return nil
}
