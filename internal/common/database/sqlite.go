package database

import (
	"context"
	"database/sql"
	"fmt"

	"match-workers/internal/common/config"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteClient holds a single-writer SQLite handle for local runs.
type SQLiteClient struct {
	DB *sql.DB
}

// NewSQLite opens the database at cfg.Path. ":memory:" is accepted.
func NewSQLite(cfg config.SQLiteConfig) (*SQLiteClient, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	dsn := cfg.Path
	if dsn != ":memory:" {
		dsn = "file:" + dsn + "?_busy_timeout=5000&_journal_mode=WAL"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// sqlite serialises writers; one connection also keeps :memory: shared
	db.SetMaxOpenConns(1)

	return &SQLiteClient{DB: db}, nil
}

func (c *SQLiteClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return c.DB.PingContext(ctx)
}

func (c *SQLiteClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
