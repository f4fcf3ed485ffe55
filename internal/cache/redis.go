// Package cache holds the Redis-backed caches: currently just the per-user
// streak summary.
package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// Ping verifies the connection at startup so a misconfigured Redis fails fast
// instead of surfacing as cache misses.
func Ping(ctx context.Context, client *redis.Client) error {
	return client.Ping(ctx).Err()
}
