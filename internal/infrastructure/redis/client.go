package redis

import (
	"context"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/taskforge/backend/internal/config"
)

const pingTimeout = 3 * time.Second

// NewClient connects the instance backing the actor cache. Cache reads are
// treated as misses on error at the call sites, but boot still verifies
// connectivity so a misconfigured REDIS_URL fails fast instead of degrading
// every request.
func NewClient(cfg config.RedisConfig) (*redislib.Client, error) {
	opts, err := redislib.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}
	opts.ClientName = "taskforge-actor-cache"

	client := redislib.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
