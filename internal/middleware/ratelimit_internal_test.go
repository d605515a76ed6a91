package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterSweep(t *testing.T) {
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 1, nil)
	rl.now = func() time.Time { return clock }

	busy := rl.Limiter("192.0.2.1")
	rl.Limiter("192.0.2.2")

	clock = clock.Add(DefaultLimiterIdle / 2)
	assert.Same(t, busy, rl.Limiter("192.0.2.1"), "use keeps the bucket alive")

	clock = clock.Add(DefaultLimiterIdle/2 + time.Second)
	assert.Equal(t, 1, rl.Sweep())
	assert.Equal(t, 1, rl.Len())
	assert.Same(t, busy, rl.Limiter("192.0.2.1"))

	clock = clock.Add(DefaultLimiterIdle + time.Second)
	assert.Equal(t, 1, rl.Sweep())
	assert.Zero(t, rl.Len())
	assert.NotSame(t, busy, rl.Limiter("192.0.2.1"), "an evicted IP gets a fresh bucket")
}
