package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/TeamUpswell/wgw/pkg/model"
	"github.com/redis/go-redis/v9"
)

// StreakCache keeps a short-lived per-user copy of the computed streak so the
// home screen does not recompute it on every pull. Streaks are always
// recomputed from entry timestamps, never incrementally maintained, so a
// stale cache entry only survives until its TTL.
type StreakCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStreakCache(client *redis.Client, ttl time.Duration) *StreakCache {
	return &StreakCache{client: client, ttl: ttl}
}

func (s *StreakCache) key(userID string) string {
	return "streak:" + userID
}

// Get returns the cached streak for a user, or ok=false on miss.
func (s *StreakCache) Get(ctx context.Context, userID string) (model.StreakRes, bool) {
	raw, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if err != nil {
		return model.StreakRes{}, false
	}
	var res model.StreakRes
	if err := json.Unmarshal(raw, &res); err != nil {
		return model.StreakRes{}, false
	}
	return res, true
}

func (s *StreakCache) Set(ctx context.Context, userID string, res model.StreakRes) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(userID), raw, s.ttl).Err()
}

// Invalidate drops a user's cached streak; called whenever an entry is
// created or deleted.
func (s *StreakCache) Invalidate(ctx context.Context, userID string) error {
	err := s.client.Del(ctx, s.key(userID)).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
