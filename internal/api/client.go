// Package api is the HTTP client for the listings REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"car-listings-api/pkg/logging"
	"car-listings-api/pkg/metrics"
)

const (
	defaultTimeout = 15 * time.Second
	maxErrorBody   = 4096
)

// Client talks to the listings API. It never retries; callers surface
// failures to the user instead.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
	metrics    *metrics.Metrics
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		c.log = logging.OrNop(log)
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL is the API root requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do sends one request. body, when non-nil, is sent as JSON; out, when
// non-nil, receives the decoded 2xx body. endpoint is a low-cardinality name
// used for logs and metrics.
func (c *Client) do(ctx context.Context, endpoint, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s body: %w", endpoint, err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return fmt.Errorf("creating %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(start)
	c.observe(endpoint, latency)

	fields := []zap.Field{
		zap.String("endpoint", endpoint),
		zap.String("method", method),
		zap.String("url", target),
		zap.Duration("latency", latency),
	}
	if err != nil {
		c.count(endpoint, "transport")
		c.log.Warn("listings api request failed", append(fields, zap.Error(err))...)
		return fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	fields = append(fields, zap.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slurp, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.count(endpoint, fmt.Sprintf("status_%dxx", resp.StatusCode/100))
		c.log.Info("listings api returned error status", fields...)
		return &StatusError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Detail:     parseDetail(slurp),
		}
	}

	c.log.Debug("listings api request", fields...)

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		c.count(endpoint, "ok")
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.count(endpoint, "malformed")
		c.log.Warn("listings api response did not decode", append(fields, zap.Error(err))...)
		return fmt.Errorf("%w: %s: %w", ErrMalformed, endpoint, err)
	}
	c.count(endpoint, "ok")
	return nil
}

func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values, out any) error {
	return c.do(ctx, endpoint, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, endpoint, path string, query url.Values, body, out any) error {
	return c.do(ctx, endpoint, http.MethodPost, path, query, body, out)
}

func (c *Client) count(endpoint, outcome string) {
	if c.metrics == nil {
		return
	}
	c.metrics.UpstreamRequests.WithLabelValues(endpoint, outcome).Inc()
}

func (c *Client) observe(endpoint string, d time.Duration) {
	if c.metrics == nil {
		return
	}
	c.metrics.UpstreamDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// segment escapes one path segment, e.g. a brand name with spaces.
func segment(v string) string {
	return url.PathEscape(strings.TrimSpace(v))
}
