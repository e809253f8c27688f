package db

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// InitPostgres initializes and returns a PostgreSQL connection pool
func InitPostgres() (*pgxpool.Pool, error) {
	// Get database URL from environment variable or use default
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		// Default local development configuration
		host := getEnvOrDefault("POSTGRES_HOST", "localhost")
		port := getEnvOrDefault("POSTGRES_PORT", "5432")
		user := getEnvOrDefault("POSTGRES_USER", "hbuk")
		password := getEnvOrDefault("POSTGRES_PASSWORD", "")
		dbname := getEnvOrDefault("POSTGRES_DB", "hbuk")
		sslmode := getEnvOrDefault("POSTGRES_SSLMODE", "disable")

		databaseURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			user, password, host, port, dbname, sslmode)
	}

	// Configure connection pool
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Set connection pool settings
	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = time.Minute * 30
	config.HealthCheckPeriod = time.Minute * 5

	// Create connection pool
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Create tables if they don't exist
	if err := createTables(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return pool, nil
}

// createTables creates all required tables if they don't exist
func createTables(ctx context.Context, pool *pgxpool.Pool) error {
	// Entries table - append-only journal entries. Rows are never updated
	// or deleted; digest and signature are fixed at commit time.
	entriesTable := `
		CREATE TABLE IF NOT EXISTS entries (
			id CHAR(24) PRIMARY KEY,
			owner_id VARCHAR(128) NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			location_name VARCHAR(200),
			digest CHAR(64) NOT NULL,
			signature VARCHAR(64) NOT NULL DEFAULT '',
			sig_alg VARCHAR(16) NOT NULL DEFAULT '',
			sig_kid VARCHAR(64) NOT NULL DEFAULT ''
		);
	`

	// Tombstones table - append-only logical deletion markers. Keeping them
	// in their own table keeps day-window digest queries tombstone-free.
	tombstonesTable := `
		CREATE TABLE IF NOT EXISTS tombstones (
			id CHAR(24) PRIMARY KEY,
			owner_id VARCHAR(128) NOT NULL,
			original_id CHAR(24) NOT NULL,
			original_digest CHAR(64) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);
	`

	// Create indexes for better performance
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_entries_owner_id ON entries(owner_id, id DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_entries_created_at ON entries(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_tombstones_original_id ON tombstones(original_id);`,
		`CREATE INDEX IF NOT EXISTS idx_tombstones_owner_id ON tombstones(owner_id);`,
	}

	// Execute table creation statements
	tables := []string{entriesTable, tombstonesTable}

	for _, table := range tables {
		if _, err := pool.Exec(ctx, table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	// Execute index creation statements
	for _, index := range indexes {
		if _, err := pool.Exec(ctx, index); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// getEnvOrDefault returns the environment variable value or a default value if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
