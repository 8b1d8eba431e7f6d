package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const roleKeyPrefix = "access-guard:role:"

// RedisRoleCache shares role lookups across API instances.
type RedisRoleCache struct {
	client *redis.Client
}

func NewRedisRoleCache(client *redis.Client) *RedisRoleCache {
	return &RedisRoleCache{client: client}
}

func (c *RedisRoleCache) Get(ctx context.Context, accountID string, _ time.Time) (string, bool, error) {
	value, err := c.client.Get(ctx, roleKey(accountID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (c *RedisRoleCache) Set(ctx context.Context, accountID string, role string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, roleKey(accountID), role, ttl).Err()
}

func (c *RedisRoleCache) Invalidate(ctx context.Context, accountID string) error {
	return c.client.Del(ctx, roleKey(accountID)).Err()
}

func roleKey(accountID string) string {
	return roleKeyPrefix + strings.TrimSpace(accountID)
}
