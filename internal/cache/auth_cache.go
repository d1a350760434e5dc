package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist holds revoked token ids until the token would have expired anyway.
type TokenBlacklist struct {
	rdb *redis.Client
}

func NewTokenBlacklist(rdb *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{rdb: rdb}
}

func (b *TokenBlacklist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return b.rdb.Set(ctx, "blacklist:"+tokenID, "revoked", ttl).Err()
}

func (b *TokenBlacklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := b.rdb.Exists(ctx, "blacklist:"+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Attempts counts failures per key and locks the key out once a limit is reached.
type Attempts struct {
	rdb    *redis.Client
	prefix string
}

// NewAttempts namespaces its counters, e.g. "login" or "register".
func NewAttempts(rdb *redis.Client, prefix string) *Attempts {
	return &Attempts{rdb: rdb, prefix: prefix}
}

// CooldownRemaining returns how long the key stays locked, zero when it is not.
func (a *Attempts) CooldownRemaining(ctx context.Context, key string) time.Duration {
	ttl, err := a.rdb.TTL(ctx, a.prefix+"_cooldown:"+key).Result()
	if err != nil || ttl < 0 {
		return 0
	}
	return ttl
}

// Fail records an attempt and starts the cooldown once max is reached.
func (a *Attempts) Fail(ctx context.Context, key string, max int, window, cooldown time.Duration) (remaining int) {
	counter := a.prefix + "_attempts:" + key
	n, err := a.rdb.Incr(ctx, counter).Result()
	if err != nil {
		return max
	}
	if n == 1 {
		a.rdb.Expire(ctx, counter, window)
	}
	if n >= int64(max) {
		a.rdb.Set(ctx, a.prefix+"_cooldown:"+key, "1", cooldown)
		a.rdb.Del(ctx, counter)
		return 0
	}
	return max - int(n)
}

func (a *Attempts) Reset(ctx context.Context, key string) {
	a.rdb.Del(ctx, a.prefix+"_attempts:"+key, a.prefix+"_cooldown:"+key)
}
