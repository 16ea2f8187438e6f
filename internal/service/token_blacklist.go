package service

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistKeyPrefix = "jwt:blacklist:"

// TokenBlacklist records revoked token IDs until their natural expiry so
// that logout invalidates a bearer token before it times out. Backed by
// Redis when a client is configured; falls back to an in-process map so a
// single instance still gets logout semantics without Redis.
type TokenBlacklist struct {
	redis *redis.Client

	mu      sync.RWMutex
	entries map[string]time.Time
}

// NewTokenBlacklist creates a new TokenBlacklist. rdb may be nil.
func NewTokenBlacklist(rdb *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{
		redis:   rdb,
		entries: make(map[string]time.Time),
	}
}

// Revoke marks a token ID as revoked until expiresAt
func (b *TokenBlacklist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	if b.redis != nil {
		return b.redis.Set(ctx, blacklistKeyPrefix+jti, "1", ttl).Err()
	}

	b.mu.Lock()
	b.entries[jti] = expiresAt
	b.mu.Unlock()
	return nil
}

// IsRevoked reports whether a token ID was revoked before natural expiry.
// On a Redis error it fails open to avoid locking every user out.
func (b *TokenBlacklist) IsRevoked(ctx context.Context, jti string) bool {
	if b.redis != nil {
		n, err := b.redis.Exists(ctx, blacklistKeyPrefix+jti).Result()
		if err != nil {
			return false
		}
		return n > 0
	}

	b.mu.RLock()
	expiresAt, ok := b.entries[jti]
	b.mu.RUnlock()
	if !ok {
		return false
	}

	if time.Now().After(expiresAt) {
		b.mu.Lock()
		delete(b.entries, jti)
		b.mu.Unlock()
		return false
	}

	return true
}
