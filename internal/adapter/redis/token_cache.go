package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const tokenKeyPrefix = "token:"

// TokenCache keeps the issued session token per member so logout can
// revoke it before expiry.
type TokenCache struct {
	client *redis.Client
}

func NewTokenCache(client *redis.Client) *TokenCache {
	return &TokenCache{client: client}
}

func (c *TokenCache) Set(ctx context.Context, memberID, token string, ttl time.Duration) error {
	return c.client.Set(ctx, tokenKeyPrefix+memberID, token, ttl).Err()
}

func (c *TokenCache) Get(ctx context.Context, memberID string) (string, error) {
	token, err := c.client.Get(ctx, tokenKeyPrefix+memberID).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return token, err
}

func (c *TokenCache) Del(ctx context.Context, memberID string) error {
	return c.client.Del(ctx, tokenKeyPrefix+memberID).Err()
}
