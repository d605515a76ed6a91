package urlcodec

import (
	"sync"

	"car-listings-api/internal/filters"
)

// History receives the query strings produced while a page is open.
type History interface {
	Push(query string)
	Replace(query string)
}

// MemoryHistory is a browser-like history stack for one browse session.
type MemoryHistory struct {
	mu      sync.Mutex
	entries []string
	index   int
}

func NewMemoryHistory(initial string) *MemoryHistory {
	return &MemoryHistory{entries: []string{initial}}
}

// Push adds an entry after the current one and drops any forward entries.
// Pushing the current entry again is a no-op.
func (h *MemoryHistory) Push(query string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.entries[h.index] == query {
		return
	}
	h.entries = append(h.entries[:h.index+1], query)
	h.index++
}

func (h *MemoryHistory) Replace(query string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.index] = query
}

func (h *MemoryHistory) Back() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.index == 0 {
		return h.entries[0], false
	}
	h.index--
	return h.entries[h.index], true
}

func (h *MemoryHistory) Forward() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.index == len(h.entries)-1 {
		return h.entries[h.index], false
	}
	h.index++
	return h.entries[h.index], true
}

func (h *MemoryHistory) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.index]
}

// Entries returns a copy of the stack and the current position.
func (h *MemoryHistory) Entries() ([]string, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.entries...), h.index
}

// Sync ties state changes to a History. Only user-initiated changes push;
// a state decoded from navigation is never written back.
type Sync struct {
	history History
}

func NewSync(h History) *Sync {
	return &Sync{history: h}
}

// UserChanged records a change made through the filter controls.
func (s *Sync) UserChanged(st filters.State) string {
	q := Encode(st)
	s.history.Push(q)
	return q
}

// Derived records a change the page made on its own, such as clearing a
// selection that dropped out of the narrowed options.
func (s *Sync) Derived(st filters.State) string {
	q := Encode(st)
	s.history.Replace(q)
	return q
}

// Navigated decodes the query the user navigated to. History is left untouched.
func (s *Sync) Navigated(raw string) filters.State {
	return DecodeString(raw)
}
