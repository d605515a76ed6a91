package page

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"car-listings-api/pkg/metrics"
)

func newTestRegistry(ttl time.Duration, m *metrics.Metrics) (*Registry, *time.Time) {
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(func(q string) *Page {
		return New(nil, nil, q, nil)
	}, ttl, m)
	r.now = func() time.Time { return clock }
	return r, &clock
}

func TestRegistryGetOrCreate(t *testing.T) {
	r, _ := newTestRegistry(time.Minute, nil)

	id, p, created := r.GetOrCreate("", "brand=Kia")
	require.True(t, created)
	require.NotEmpty(t, id)
	assert.Equal(t, "Kia", *p.State().Brand)

	again, same, created := r.GetOrCreate(id, "brand=Toyota")
	assert.False(t, created)
	assert.Equal(t, id, again)
	assert.Same(t, p, same, "a known session keeps its page")

	other, _, created := r.GetOrCreate("unknown", "")
	assert.True(t, created)
	assert.NotEqual(t, "unknown", other)
	assert.Equal(t, 2, r.Len())
}

func TestRegistryExpiry(t *testing.T) {
	m := metrics.New()
	r, clock := newTestRegistry(10*time.Minute, m)

	stale, _ := r.Create("")
	*clock = clock.Add(6 * time.Minute)
	fresh, _ := r.Create("")

	_, ok := r.Get(stale)
	require.True(t, ok, "use refreshes the idle timer")

	*clock = clock.Add(8 * time.Minute)
	_, ok = r.Get(fresh)
	assert.True(t, ok)

	*clock = clock.Add(9 * time.Minute)
	_, ok = r.Get(stale)
	assert.False(t, ok, "expired sessions are not returned")

	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BrowseSessions))
}

func TestRegistryRunStopsWithContext(t *testing.T) {
	r, _ := newTestRegistry(0, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		r.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
