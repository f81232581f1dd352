package growthbook

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisCache is a Cache backed by Redis, letting multiple client
// instances (e.g. separate processes behind a load balancer) share one
// fetch-failure fallback instead of each keeping its own in-memory copy.
type RedisCache struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

var _ Cache = &RedisCache{}

// NewRedisCache connects to Redis using opts and returns a RedisCache
// that prefixes every key with prefix. Returns an error if the initial
// ping fails.
func NewRedisCache(prefix string, opts *redis.Options, logger *slog.Logger) (*RedisCache, error) {
	client := redis.NewClient(opts)
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisCache{client: client, prefix: prefix, logger: logger}, nil
}

func (c *RedisCache) Get(key string) *CacheEntry {
	val, err := c.client.Get(context.Background(), c.prefix+key).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		c.logger.Error("redis cache get failed", "error", err)
		return nil
	}
	var entry CacheEntry
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		c.logger.Error("redis cache decode failed", "error", err)
		return nil
	}
	return &entry
}

func (c *RedisCache) Set(key string, entry *CacheEntry) {
	ttl := time.Until(entry.StaleAt)
	if ttl <= 0 {
		c.client.Del(context.Background(), c.prefix+key)
		return
	}
	data, err := json.Marshal(entry)
	if err != nil {
		c.logger.Error("redis cache encode failed", "error", err)
		return
	}
	if err := c.client.Set(context.Background(), c.prefix+key, data, ttl).Err(); err != nil {
		c.logger.Error("redis cache set failed", "error", err)
	}
}

func (c *RedisCache) Clear() {
	if err := c.client.FlushDB(context.Background()).Err(); err != nil {
		c.logger.Error("redis cache clear failed", "error", err)
	}
}
