package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/tonsisouvanh/mineral-inventory-system/internal/dto"
)

type RedisStatsCache struct {
	client *redis.Client
}

func NewRedisStatsCache(client *redis.Client) *RedisStatsCache {
	return &RedisStatsCache{client: client}
}

func (c *RedisStatsCache) Get(ctx context.Context) (*dto.StatsResponse, bool, error) {
	val, err := c.client.Get(ctx, StatsKey).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var resp dto.StatsResponse
	if err := json.Unmarshal([]byte(val), &resp); err != nil {
		return nil, false, err
	}
	return &resp, true, nil
}

func (c *RedisStatsCache) Set(ctx context.Context, value *dto.StatsResponse, ttl time.Duration) error {
	if value == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, StatsKey, payload, ttl).Err()
}

func (c *RedisStatsCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, StatsKey).Err()
}

// New picks the Redis cache when a client is available.
func New(client *redis.Client) StatsCache {
	if client == nil {
		return NoopStatsCache{}
	}
	return NewRedisStatsCache(client)
}
