package cache

import (
	"context"
	"errors"
	"time"

	fthealth "github.com/Financial-Times/go-fthealth/v1_1"
	"github.com/redis/go-redis/v9"
)

// RedisCache backs the role-document cache with Redis so cached fetches
// survive restarts and are shared between instances.
type RedisCache struct {
	rdb *redis.Client
}

func NewRedisCache(redisURL string) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisCache{rdb: redis.NewClient(opt)}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}

func (c *RedisCache) Healthcheck() fthealth.Check {
	return fthealth.Check{
		ID:               "redis-cache-check",
		Name:             "Redis cache is accessible",
		BusinessImpact:   "Role documents are re-fetched from the registry on every screening, slowing searches",
		Severity:         3,
		PanicGuide:       "https://github.com/firmify/board-candidate-screener",
		TechnicalSummary: "Cannot reach the configured Redis instance. Check the REDIS_URL and the health of the Redis deployment.",
		Timeout:          10 * time.Second,
		Checker: func() (string, error) {
			if err := c.rdb.Ping(context.Background()).Err(); err != nil {
				return "failed to ping redis", err
			}
			return "", nil
		},
	}
}
