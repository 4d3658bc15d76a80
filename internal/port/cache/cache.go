package cache

import (
	"context"
	"time"
)

// TokenCache keeps the currently issued session token per member so a
// logout can invalidate it before it expires.
type TokenCache interface {
	Set(ctx context.Context, memberID, token string, ttl time.Duration) error
	// Get returns "" without error when no token is cached.
	Get(ctx context.Context, memberID string) (string, error)
	Del(ctx context.Context, memberID string) error
}
