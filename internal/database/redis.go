package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient holds the login throttling counters. Callers treat it as
// best effort, so timeouts are kept short enough not to stall a login.
type RedisClient struct {
	*redis.Client
}

// NewRedisClient parses a redis:// URL and verifies the server answers
func NewRedisClient(ctx context.Context, redisURL string) (*RedisClient, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opt.DialTimeout = 2 * time.Second
	opt.ReadTimeout = 500 * time.Millisecond
	opt.WriteTimeout = 500 * time.Millisecond
	opt.MaxRetries = 1

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", opt.Addr, err)
	}

	return &RedisClient{Client: client}, nil
}

// Health is used by GET /health
func (r *RedisClient) Health(ctx context.Context) error {
	return r.Ping(ctx).Err()
}
