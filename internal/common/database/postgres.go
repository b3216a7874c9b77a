// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"match-workers/internal/common/config"

	_ "github.com/lib/pq"
)

// schema is applied by Migrate. Profiles are stored as a JSONB document next to the
// columns the repository filters on.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		user_id         TEXT PRIMARY KEY,
		data            JSONB NOT NULL,
		open_to_matches BOOLEAN NOT NULL DEFAULT TRUE,
		version         BIGINT NOT NULL DEFAULT 1,
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS profiles_open_idx ON profiles (open_to_matches, updated_at DESC)`,
	`CREATE TABLE IF NOT EXISTS match_feedback (
		id         UUID PRIMARY KEY,
		user_id    TEXT NOT NULL,
		target_id  TEXT NOT NULL,
		event      TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS match_feedback_user_idx ON match_feedback (user_id, target_id)`,
}

// PostgresClient wraps the SQL database connection
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres creates a new PostgreSQL client
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

// Ping tests the database connection
func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Migrate creates the profile and feedback tables when they are missing.
func (c *PostgresClient) Migrate(ctx context.Context) error {
	for i, stmt := range schema {
		if _, err := c.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d: %w", i+1, err)
		}
	}
	return nil
}

// Close closes the database connection
func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// GetDB returns the underlying *sql.DB
func (c *PostgresClient) GetDB() *sql.DB {
	return c.DB
}
