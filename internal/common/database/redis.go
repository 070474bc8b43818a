// internal/common/database/redis.go
package database

import (
	"context"
	"fmt"
	"time"

	"match-workers/internal/common/config"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// RedisClient backs the match result cache and the pair guard.
type RedisClient struct {
	Client *redis.Client
}

func NewRedis(cfg config.RedisConfig) (*RedisClient, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is empty")
	}
	poolSize := cfg.PoolSize
	if poolSize == 0 {
		poolSize = 10
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  pingTimeout,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		PoolSize:     poolSize,
		MinIdleConns: poolSize / 4,
		ClientName:   "match-workers",
	})
	return &RedisClient{Client: rdb}, nil
}

// ConnectRedis builds the client and pings it once.
func ConnectRedis(ctx context.Context, cfg config.RedisConfig) (*RedisClient, error) {
	c, err := NewRedis(cfg)
	if err != nil {
		return nil, err
	}
	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func (c *RedisClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (c *RedisClient) Close() error {
	if c.Client == nil {
		return nil
	}
	return c.Client.Close()
}
