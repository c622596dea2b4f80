package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyIsStableAndScoped(t *testing.T) {
	a := Key("schedule-class", "12", "Intro", "2025-01-10T19:00:00Z")
	b := Key("schedule-class", "12", "Intro", "2025-01-10T19:00:00Z")
	c := Key("schedule-class", "12", "Intro", "2025-01-10T19:30:00Z")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Contains(t, a, "academy:dedupe:schedule-class:")

	// parts are delimited so shifting characters between them changes the key
	assert.NotEqual(t, Key("s", "ab", "c"), Key("s", "a", "bc"))
}

func TestNoopGuard(t *testing.T) {
	var g Guard = NoopGuard{}
	ok, err := g.Claim(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = g.Claim(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, g.Release(context.Background(), "k"))
}

func TestRedisGuardFailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	g := NewRedisGuard(client, time.Second, zerolog.Nop())
	ok, err := g.Claim(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewRedisClientWithoutAddr(t *testing.T) {
	client, err := NewRedisClient(context.Background(), "", "", 0)
	require.NoError(t, err)
	assert.Nil(t, client)
}
