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

// PostgresClient is the match store's production connection pool.
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres opens the pool without touching the server.
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("postgres host is empty")
	}
	db, err := sql.Open("postgres", cfg.GetDSN()+" application_name=match-workers")
	if err != nil {
		return nil, fmt.Errorf("open postgres %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	// match generation holds one connection per parallel scorer plus the row stream
	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

// ConnectPostgres opens the pool and waits for one successful round trip.
func ConnectPostgres(ctx context.Context, cfg config.PostgresConfig) (*PostgresClient, error) {
	c, err := NewPostgres(cfg)
	if err != nil {
		return nil, err
	}
	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := c.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	return nil
}

func (c *PostgresClient) Close() error {
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
