package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlocklist remembers revoked token ids until they expire.
type TokenBlocklist interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// RedisTokenBlocklist stores revoked ids as expiring Redis keys.
type RedisTokenBlocklist struct {
	client    *redis.Client
	keyPrefix string
}

func NewRedisTokenBlocklist(client *redis.Client) *RedisTokenBlocklist {
	return &RedisTokenBlocklist{client: client, keyPrefix: "revoked_token"}
}

func (b *RedisTokenBlocklist) key(tokenID string) string {
	return b.keyPrefix + ":" + tokenID
}

func (b *RedisTokenBlocklist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return b.client.Set(ctx, b.key(tokenID), 1, ttl).Err()
}

func (b *RedisTokenBlocklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := b.client.Get(ctx, b.key(tokenID)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MemoryTokenBlocklist is a process-local blocklist used when Redis is unavailable.
type MemoryTokenBlocklist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewMemoryTokenBlocklist() *MemoryTokenBlocklist {
	return &MemoryTokenBlocklist{revoked: make(map[string]time.Time)}
}

func (b *MemoryTokenBlocklist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	for id, exp := range b.revoked {
		if now.After(exp) {
			delete(b.revoked, id)
		}
	}
	b.revoked[tokenID] = until
	return nil
}

func (b *MemoryTokenBlocklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	exp, ok := b.revoked[tokenID]
	return ok && time.Now().Before(exp), nil
}
