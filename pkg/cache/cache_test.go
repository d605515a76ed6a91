package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "listings:options:models:Toyota", Key("options", "models", "Toyota"))
	assert.Equal(t, "listings:reference", Key("reference"))
}

func TestNilCache(t *testing.T) {
	var c *RedisCache
	ctx := context.Background()

	assert.False(t, c.IsAvailable())
	assert.Zero(t, c.TTL())
	assert.NoError(t, c.Close())

	var out map[string]any
	hit, err := c.GetJSON(ctx, Key("x"), &out)
	assert.False(t, hit)
	assert.NoError(t, err)

	assert.ErrorIs(t, c.SetJSON(ctx, Key("x"), 1), ErrUnavailable)
	assert.ErrorIs(t, c.SetJSONWithTTL(ctx, Key("x"), 1, time.Second), ErrUnavailable)

	_, err = c.FlushCache(ctx)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Empty(t, c.GetAllKeys(ctx))
	assert.Zero(t, c.GetKeyTTL(ctx, Key("x")))
	assert.Equal(t, "unavailable", c.GetStats(ctx)["status"])
}

func TestNewRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	assert.Nil(t, NewRedisCache(ctx, "redis://127.0.0.1:1", 0, time.Minute, zap.NewNop()))
	assert.Nil(t, NewRedisCache(ctx, "not a url", 0, time.Minute, zap.NewNop()))
}
