package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ovaphlow/pitchfork/service-youapp/internal/profile/entity"
)

// Cache is a read-through cache of profiles keyed by user id.
type Cache interface {
	Get(ctx context.Context, userID string) (*entity.Profile, bool, error)
	Set(ctx context.Context, p *entity.Profile) error
	Delete(ctx context.Context, userID string) error
}

// RedisCache stores profiles as JSON strings with a fixed TTL.
type RedisCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisCache(rdb redis.Cmdable, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func cacheKey(userID string) string { return "youapp:profile:" + userID }

func (c *RedisCache) Get(ctx context.Context, userID string) (*entity.Profile, bool, error) {
	raw, err := c.rdb.Get(ctx, cacheKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	var p entity.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, false, fmt.Errorf("cache decode: %w", err)
	}
	return &p, true, nil
}

func (c *RedisCache) Set(ctx context.Context, p *entity.Profile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.rdb.Set(ctx, cacheKey(p.UserID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, userID string) error {
	if err := c.rdb.Del(ctx, cacheKey(userID)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// NopCache never hits. Used when Redis is not configured.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (*entity.Profile, bool, error) { return nil, false, nil }
func (NopCache) Set(context.Context, *entity.Profile) error                  { return nil }
func (NopCache) Delete(context.Context, string) error                        { return nil }
