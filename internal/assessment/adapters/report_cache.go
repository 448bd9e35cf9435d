// Package adapters bridges the assessment service to infrastructure it
// depends on but does not own.
package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"conform/internal/platform/redis"
	"conform/pkg/platform/sentinel"
)

// RedisReportCache stores serialized assessment reports in Redis.
// Satisfies the service's ReportCache interface.
type RedisReportCache struct {
	client *redis.Client
}

func NewRedisReportCache(client *redis.Client) *RedisReportCache {
	return &RedisReportCache{client: client}
}

func (c *RedisReportCache) Get(ctx context.Context, key string) ([]byte, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("report cache get: %w", err)
	}
	return payload, nil
}

func (c *RedisReportCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("report cache set: %w", err)
	}
	return nil
}
