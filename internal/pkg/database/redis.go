package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisOptions struct {
	Addr       string
	Password   string
	DB         int
	MaxRetries int
	RetryDelay time.Duration
}

// NewRedisClient connects and pings, retrying while the server comes up.
func NewRedisClient(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	attempts := max(opts.MaxRetries, 1)
	var lastErr error
	for i := 1; i <= attempts; i++ {
		if lastErr = rdb.Ping(ctx).Err(); lastErr == nil {
			return rdb, nil
		}

		slog.WarnContext(ctx, "redis ping failed", "attempt", i, "max_attempts", attempts, "error", lastErr)
		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			_ = rdb.Close()
			return nil, ctx.Err()
		case <-time.After(opts.RetryDelay):
		}
	}

	_ = rdb.Close()
	return nil, fmt.Errorf("redis connection failed after %d attempts: %w", attempts, lastErr)
}
