package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pathway-workers/internal/common/config"

	_ "github.com/lib/pq"
)

// PostgresClient owns the catalog/session connection pool. The pool is
// shared by every worker, so MaxConnections must cover the sum of the
// workers' maxJobsActive settings.
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres opens the pool. The connection is not probed here; callers
// Ping inside their retry loop.
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

// Close closes the database connection
func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// GetDB returns the underlying *sql.DB for the worker handlers and the
// query packages.
func (c *PostgresClient) GetDB() *sql.DB {
	return c.DB
}
