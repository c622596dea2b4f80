// Package idempotency rejects repeated submissions of the same action within a short window.
package idempotency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Guard claims a key for a window. Claim returns false when the key is already held.
type Guard interface {
	Claim(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// Key builds a stable key from the parts identifying a submission
func Key(scope string, parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return fmt.Sprintf("academy:dedupe:%s:%s", scope, hex.EncodeToString(sum[:12]))
}

// RedisGuard stores claims with SET NX and a TTL
type RedisGuard struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisGuard creates a guard backed by client
func NewRedisGuard(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *RedisGuard {
	return &RedisGuard{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "idempotency").Logger(),
	}
}

// Claim takes the key. Redis outages let the submission through so scheduling keeps working.
func (g *RedisGuard) Claim(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339Nano), g.ttl).Result()
	if err != nil {
		g.logger.Warn().Err(err).Str("key", key).Msg("Dedupe check unavailable, allowing submission")
		return true, nil
	}
	return ok, nil
}

// Release frees the key, used when the guarded write failed
func (g *RedisGuard) Release(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to release dedupe key: %w", err)
	}
	return nil
}

// NoopGuard is used when redis is not configured
type NoopGuard struct{}

// Claim always succeeds
func (NoopGuard) Claim(context.Context, string) (bool, error) { return true, nil }

// Release does nothing
func (NoopGuard) Release(context.Context, string) error { return nil }

// NewRedisClient connects to addr and pings it. It returns nil, nil when addr is empty.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return client, nil
}
