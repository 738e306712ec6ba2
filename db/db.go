package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
)

// DB wraps the database connection
type DB struct {
	conn   *sql.DB
	logger zerolog.Logger
}

// NewDB creates a new database connection.
// An empty connStr falls back to DATABASE_URL, then to the DB_* variables.
func NewDB(ctx context.Context, connStr string, logger zerolog.Logger) (*DB, error) {
	if connStr == "" {
		connStr = ConnStringFromEnv()
	}

	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{conn: conn, logger: logger}

	if err := db.initSchema(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// ConnStringFromEnv builds a connection string from the environment
func ConnStringFromEnv() string {
	if connStr := os.Getenv("DATABASE_URL"); connStr != "" {
		return connStr
	}

	host := getEnvOrDefault("DB_HOST", "localhost")
	port := getEnvOrDefault("DB_PORT", "5432")
	user := getEnvOrDefault("DB_USER", "shakeup")
	password := getEnvOrDefault("DB_PASSWORD", "")
	dbname := getEnvOrDefault("DB_NAME", "shakeup")
	sslmode := getEnvOrDefault("DB_SSLMODE", "disable")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the necessary tables if they don't exist
func (db *DB) initSchema(ctx context.Context) error {
	_, err := db.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id SERIAL PRIMARY KEY,
			source TEXT NOT NULL,
			results_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create runs table: %w", err)
	}

	_, err = db.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS shakeup_results (
			id SERIAL PRIMARY KEY,
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			competition_name TEXT NOT NULL,
			shakeup_all DOUBLE PRECISION,
			shakeup_top10pct DOUBLE PRECISION,
			rank_correlation DOUBLE PRECISION,
			entries INTEGER NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create shakeup_results table: %w", err)
	}

	_, err = db.conn.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_shakeup_results_competition ON shakeup_results(competition_name)`)
	if err != nil {
		db.logger.Warn().Err(err).Msg("failed to create index on shakeup_results.competition_name")
	}

	db.logger.Debug().Msg("database schema initialized")
	return nil
}
