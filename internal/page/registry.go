package page

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"car-listings-api/pkg/metrics"
)

// Factory opens a new page on an initial query string.
type Factory func(initialQuery string) *Page

type session struct {
	page     *Page
	lastSeen time.Time
}

// Registry keeps one Page per browse session, dropping sessions idle for
// longer than ttl.
type Registry struct {
	newPage Factory
	ttl     time.Duration
	metrics *metrics.Metrics
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

func NewRegistry(factory Factory, ttl time.Duration, m *metrics.Metrics) *Registry {
	return &Registry{
		newPage:  factory,
		ttl:      ttl,
		metrics:  m,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// Get returns the live page of id and marks the session as used.
func (r *Registry) Get(id string) (*Page, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok || r.expired(s) {
		return nil, false
	}
	s.lastSeen = r.now()
	return s.page, true
}

// Create opens a new session.
func (r *Registry) Create(initialQuery string) (string, *Page) {
	id := uuid.NewString()
	p := r.newPage(initialQuery)

	r.mu.Lock()
	r.sessions[id] = &session{page: p, lastSeen: r.now()}
	r.gauge()
	r.mu.Unlock()
	return id, p
}

// GetOrCreate returns the page of id, opening a new session when id is
// unknown or expired. created reports which happened.
func (r *Registry) GetOrCreate(id, initialQuery string) (string, *Page, bool) {
	if id != "" {
		if p, ok := r.Get(id); ok {
			return id, p, false
		}
	}
	newID, p := r.Create(initialQuery)
	return newID, p, true
}

// Sweep drops expired sessions and returns how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		if r.expired(s) {
			delete(r.sessions, id)
			removed++
		}
	}
	r.gauge()
	return removed
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) expired(s *session) bool {
	return r.ttl > 0 && r.now().Sub(s.lastSeen) > r.ttl
}

func (r *Registry) gauge() {
	if r.metrics == nil {
		return
	}
	r.metrics.BrowseSessions.Set(float64(len(r.sessions)))
}
