package utils

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistKeyPrefix = "jwt:blacklist:"

// TokenBlacklist remembers revoked tokens until they expire. Redis is preferred;
// without a client the entries live in process memory.
type TokenBlacklist struct {
	rdb *redis.Client

	mu      sync.RWMutex
	entries map[string]time.Time
}

// NewTokenBlacklist creates a blacklist backed by rdb, which may be nil.
func NewTokenBlacklist(rdb *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{rdb: rdb, entries: map[string]time.Time{}}
}

// Revoke stores a token until expiresAt to support logout semantics.
func (b *TokenBlacklist) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if b.rdb != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return b.rdb.Set(ctx, blacklistKeyPrefix+token, "1", ttl).Err()
	}
	now := time.Now()
	b.mu.Lock()
	defer b.mu.Unlock()
	// tokens that are never looked up again would otherwise stay forever
	for tok, exp := range b.entries {
		if now.After(exp) {
			delete(b.entries, tok)
		}
	}
	b.entries[token] = expiresAt
	return nil
}

// IsRevoked checks if a token was revoked before natural expiration.
func (b *TokenBlacklist) IsRevoked(ctx context.Context, token string) bool {
	if b.rdb != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		n, err := b.rdb.Exists(ctx, blacklistKeyPrefix+token).Result()
		if err != nil {
			// fail open on Redis errors to avoid locking everyone out
			Sugar.Warnf("token blacklist lookup failed: %v", err)
			return false
		}
		return n > 0
	}

	b.mu.RLock()
	expiresAt, ok := b.entries[token]
	b.mu.RUnlock()
	if !ok {
		return false
	}
	if time.Now().After(expiresAt) {
		b.mu.Lock()
		delete(b.entries, token)
		b.mu.Unlock()
		return false
	}
	return true
}
