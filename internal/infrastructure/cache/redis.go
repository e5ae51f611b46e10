package cache

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	redis "github.com/redis/go-redis/v9"

	"github.com/Orhanguezel/metahub-backend-sub001/pkg/cache"
	"github.com/Orhanguezel/metahub-backend-sub001/pkg/logger"
)

// redisCache backs CacheService with a shared Redis instance so multiple API
// replicas see the same invalidations. Values are stored as JSON, so Get
// returns []byte; callers that need typed values unmarshal themselves.
type redisCache struct {
	client *redis.Client
}

func NewRedisCache(addr, password string, db int) (cache.CacheService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &redisCache{client: client}, nil
}

func (c *redisCache) Get(key string) (interface{}, bool) {
	val, err := c.client.Get(context.Background(), key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Get().Warn().Err(err).Str("key", key).Msg("Redis GET failed")
		return nil, false
	}
	return val, true
}

func (c *redisCache) Set(key string, value interface{}, duration time.Duration) {
	payload, err := json.Marshal(value)
	if err != nil {
		logger.Get().Warn().Err(err).Str("key", key).Msg("Redis SET marshal failed")
		return
	}
	if err := c.client.Set(context.Background(), key, payload, duration).Err(); err != nil {
		logger.Get().Warn().Err(err).Str("key", key).Msg("Redis SET failed")
	}
}

func (c *redisCache) Delete(key string) {
	if err := c.client.Del(context.Background(), key).Err(); err != nil {
		logger.Get().Warn().Err(err).Str("key", key).Msg("Redis DEL failed")
	}
}

func (c *redisCache) Flush() {
	if err := c.client.FlushDB(context.Background()).Err(); err != nil {
		logger.Get().Warn().Err(err).Msg("Redis FLUSHDB failed")
	}
}
