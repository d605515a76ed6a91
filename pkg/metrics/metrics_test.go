package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.RateLimited.Inc()
	m.BrowseSessions.Set(3)
	m.OptionsResponses.WithLabelValues("superseded").Inc()

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "car_listings_rate_limited_total 1")
	assert.Contains(t, string(body), "car_listings_browse_sessions 3")
	assert.Contains(t, string(body), `car_listings_options_responses_total{result="superseded"} 1`)
}

func TestNewIsIndependent(t *testing.T) {
	a, b := New(), New()
	a.RateLimited.Inc()
	assert.NotSame(t, a.Registry(), b.Registry())
}
