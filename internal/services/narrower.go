package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"car-listings-api/internal/filters"
	"car-listings-api/internal/models"
	"car-listings-api/internal/query"
	"car-listings-api/pkg/metrics"
)

// ErrSuperseded is returned for an options response that arrived after a
// newer request had been issued. Such responses are never applied.
var ErrSuperseded = errors.New("options response superseded by a newer request")

// DynamicOptionsSource answers "which options remain under these filters".
type DynamicOptionsSource interface {
	DynamicOptions(ctx context.Context, req query.SearchRequest) (models.DynamicOptions, error)
}

// OptionsRequest is one issued options refresh.
type OptionsRequest struct {
	Seq  uint64
	Body query.SearchRequest
}

// Narrower applies dynamic option responses in last-request-wins order.
// One Narrower belongs to one filter state owner.
type Narrower struct {
	source  DynamicOptionsSource
	metrics *metrics.Metrics

	seq atomic.Uint64
	mu  sync.Mutex
}

func NewNarrower(source DynamicOptionsSource, m *metrics.Metrics) *Narrower {
	return &Narrower{source: source, metrics: m}
}

// Begin issues a new request for st. Every earlier request becomes stale.
func (n *Narrower) Begin(st filters.State) OptionsRequest {
	return OptionsRequest{
		Seq:  n.seq.Add(1),
		Body: query.DynamicOptionsRequest(st),
	}
}

// Latest is the sequence number of the most recently issued request.
func (n *Narrower) Latest() uint64 {
	return n.seq.Load()
}

// Complete hands a response to apply if req is still the latest request.
// The check and apply run under one lock, so two responses never interleave.
func (n *Narrower) Complete(req OptionsRequest, opts models.DynamicOptions, err error, apply func(models.DynamicOptions)) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if req.Seq != n.seq.Load() {
		n.count("superseded")
		return ErrSuperseded
	}
	if err != nil {
		n.count("error")
		return err
	}
	apply(opts)
	n.count("applied")
	return nil
}

// Refresh issues, fetches and completes one request.
func (n *Narrower) Refresh(ctx context.Context, st filters.State, apply func(models.DynamicOptions)) error {
	return n.Fetch(ctx, n.Begin(st), apply)
}

// Fetch sends an already issued request and completes it.
func (n *Narrower) Fetch(ctx context.Context, req OptionsRequest, apply func(models.DynamicOptions)) error {
	opts, err := n.source.DynamicOptions(ctx, req.Body)
	return n.Complete(req, opts, err, apply)
}

func (n *Narrower) count(result string) {
	if n.metrics == nil {
		return
	}
	n.metrics.OptionsResponses.WithLabelValues(result).Inc()
}
