package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"channel-insights/domain/model"
	"channel-insights/infrastructure/filecsv"
	"channel-insights/infrastructure/logger"
)

const keyPrefix = "channel-insights:dataset:"

// NewCache connects to Redis and verifies the connection with PING
func NewCache(ctx context.Context, addr, username, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{"addr": addr, "error": err}).Error("Redis ping failed")
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// RedisChannelCache stores each dataset's CSV artifact under a single key with no expiration
type RedisChannelCache struct {
	client *redis.Client
}

func NewRedisChannelCache(client *redis.Client) *RedisChannelCache {
	return &RedisChannelCache{client: client}
}

// Key returns the Redis key used for a cache key
func Key(cacheKey string) string {
	return keyPrefix + cacheKey
}

func (c *RedisChannelCache) Lookup(ctx context.Context, key string) (model.VideoDataset, bool, error) {
	if c.client == nil {
		return nil, false, nil
	}
	raw, err := c.client.Get(ctx, Key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	dataset, err := filecsv.Unmarshal(raw)
	if err != nil {
		return nil, false, err
	}
	return dataset, true, nil
}

func (c *RedisChannelCache) Commit(ctx context.Context, key string, dataset model.VideoDataset) error {
	if c.client == nil {
		return model.ErrCacheNotConfigured
	}
	raw, err := filecsv.Marshal(dataset)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, Key(key), raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
