package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// CacheKeyPrefix is the Redis key prefix for cached data.
const CacheKeyPrefix = "cache:"

// CacheService stores JSON values in Redis. A nil client disables caching.
type CacheService struct {
	client *redis.Client
}

func NewCacheService(client *redis.Client) *CacheService {
	return &CacheService{client: client}
}

// Get decodes a cached value into dest. Misses and Redis errors both report false.
func (c *CacheService) Get(ctx context.Context, key string, dest interface{}) bool {
	if c == nil || c.client == nil {
		return false
	}
	val, err := c.client.Get(ctx, CacheKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.WithError(err).WithField("key", key).Warn("cache get failed")
		}
		return false
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false
	}
	return true
}

func (c *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if c == nil || c.client == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, CacheKeyPrefix+key, payload, ttl).Err(); err != nil {
		log.WithError(err).WithField("key", key).Warn("cache set failed")
	}
}

func (c *CacheService) Delete(ctx context.Context, key string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, CacheKeyPrefix+key).Err(); err != nil {
		log.WithError(err).WithField("key", key).Warn("cache delete failed")
	}
}
