// Package page holds the server-side equivalent of one open listings page:
// a filter state, its history, its results and its narrowed options.
package page

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"car-listings-api/internal/filters"
	"car-listings-api/internal/models"
	"car-listings-api/internal/services"
	"car-listings-api/internal/urlcodec"
	"car-listings-api/pkg/logging"
)

// Loader fetches the results for a state.
type Loader interface {
	SearchListings(ctx context.Context, st filters.State) (*models.ListingsPage, error)
}

// Snapshot is a consistent read of a Page.
type Snapshot struct {
	Filters      filters.State          `json:"filters"`
	Query        string                 `json:"query"`
	Results      *models.ListingsPage   `json:"results,omitempty"`
	Options      *models.DynamicOptions `json:"options,omitempty"`
	Cleared      []filters.Field        `json:"cleared,omitempty"`
	Loading      bool                   `json:"loading"`
	Error        string                 `json:"error,omitempty"`
	History      []string               `json:"history"`
	HistoryIndex int                    `json:"history_index"`
}

// Page owns one filter state. Every mutation goes through its methods and
// is serialized by mu.
type Page struct {
	loader   Loader
	narrower *services.Narrower
	history  *urlcodec.MemoryHistory
	urlSync  *urlcodec.Sync
	log      *zap.Logger

	mu      sync.Mutex
	state   filters.State
	results *models.ListingsPage
	options *models.DynamicOptions
	cleared []filters.Field
	loads   int
	errMsg  string
}

// New opens a page on the state encoded in initialQuery.
func New(loader Loader, narrower *services.Narrower, initialQuery string, log *zap.Logger) *Page {
	st := urlcodec.DecodeString(initialQuery)
	history := urlcodec.NewMemoryHistory(urlcodec.Encode(st))
	return &Page{
		loader:   loader,
		narrower: narrower,
		history:  history,
		urlSync:  urlcodec.NewSync(history),
		log:      logging.OrNop(log),
		state:    st,
	}
}

// State returns a copy of the current filter state.
func (p *Page) State() filters.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.Clone()
}

func (p *Page) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Page) snapshotLocked() Snapshot {
	entries, index := p.history.Entries()
	snap := Snapshot{
		Filters:      p.state.Clone(),
		Query:        urlcodec.Encode(p.state),
		Results:      p.results,
		Options:      p.options,
		Cleared:      append([]filters.Field(nil), p.cleared...),
		Loading:      p.loads > 0,
		Error:        p.errMsg,
		History:      entries,
		HistoryIndex: index,
	}
	return snap
}

// Dispatch applies a user edit, pushes the new URL and reloads. A rejected
// edit leaves the page untouched and returns the reducer's error.
func (p *Page) Dispatch(ctx context.Context, e filters.Edit) (Snapshot, error) {
	p.mu.Lock()
	next, err := filters.Apply(p.state, e)
	if err != nil {
		snap := p.snapshotLocked()
		p.mu.Unlock()
		return snap, err
	}
	p.state = next
	p.cleared = nil
	p.urlSync.UserChanged(next)
	req, narrowing := p.beginOptionsLocked()
	p.mu.Unlock()

	p.refresh(ctx, req, narrowing)
	return p.Snapshot(), nil
}

// Navigate loads the state encoded in raw, as when the address bar changes.
// The current history entry is rewritten; nothing is pushed.
func (p *Page) Navigate(ctx context.Context, raw string) Snapshot {
	p.mu.Lock()
	p.state = p.urlSync.Navigated(raw)
	p.cleared = nil
	p.history.Replace(urlcodec.Encode(p.state))
	req, narrowing := p.beginOptionsLocked()
	p.mu.Unlock()

	p.refresh(ctx, req, narrowing)
	return p.Snapshot()
}

// Back moves one history entry back. It reports false at the oldest entry.
func (p *Page) Back(ctx context.Context) (Snapshot, bool) {
	return p.travel(ctx, p.history.Back)
}

// Forward moves one history entry forward. It reports false at the newest entry.
func (p *Page) Forward(ctx context.Context) (Snapshot, bool) {
	return p.travel(ctx, p.history.Forward)
}

func (p *Page) travel(ctx context.Context, move func() (string, bool)) (Snapshot, bool) {
	p.mu.Lock()
	q, moved := move()
	if !moved {
		snap := p.snapshotLocked()
		p.mu.Unlock()
		return snap, false
	}
	p.state = p.urlSync.Navigated(q)
	p.cleared = nil
	req, narrowing := p.beginOptionsLocked()
	p.mu.Unlock()

	p.refresh(ctx, req, narrowing)
	return p.Snapshot(), true
}

// Load fetches results for the current state. Results for a state that has
// since changed are dropped.
func (p *Page) Load(ctx context.Context) error {
	p.mu.Lock()
	st := p.state.Clone()
	p.loads++
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.loads--
		p.mu.Unlock()
	}()

	res, err := p.loader.SearchListings(ctx, st)

	p.mu.Lock()
	defer p.mu.Unlock()
	if !filters.Equal(st, p.state) {
		return nil
	}
	if err != nil {
		p.log.Warn("listings load failed", zap.String("query", urlcodec.Encode(st)), zap.Error(err))
		p.results = nil
		p.errMsg = services.MsgListings
		return err
	}
	p.results = res
	p.errMsg = ""
	return nil
}

// RefreshOptions asks for the options still available under the current
// state and applies them if no newer request was issued meanwhile. Selections
// missing from the new lists are cleared with a history replace.
func (p *Page) RefreshOptions(ctx context.Context) (Snapshot, error) {
	p.mu.Lock()
	req, narrowing := p.beginOptionsLocked()
	p.mu.Unlock()
	if !narrowing {
		return p.Snapshot(), nil
	}
	return p.completeOptions(ctx, req)
}

// beginOptionsLocked issues the options request for the current state. It
// runs under mu together with the state change, so a response for an older
// state can never pass as the latest one.
func (p *Page) beginOptionsLocked() (services.OptionsRequest, bool) {
	if p.narrower == nil {
		return services.OptionsRequest{}, false
	}
	return p.narrower.Begin(p.state), true
}

func (p *Page) completeOptions(ctx context.Context, req services.OptionsRequest) (Snapshot, error) {
	reload, stale := false, false
	err := p.narrower.Fetch(ctx, req, func(opts models.DynamicOptions) {
		p.mu.Lock()
		defer p.mu.Unlock()

		// A state change issues its request under mu, so this is exact.
		if req.Seq != p.narrower.Latest() {
			stale = true
			return
		}
		p.options = &opts
		next, cleared := filters.Narrow(p.state, opts.ByField())
		if len(cleared) == 0 {
			return
		}
		p.state = next
		p.cleared = cleared
		p.urlSync.Derived(next)
		reload = true
	})
	if err == nil && stale {
		err = services.ErrSuperseded
	}
	if err != nil {
		if !errors.Is(err, services.ErrSuperseded) {
			p.log.Info("options refresh failed", zap.Error(err))
		}
		return p.Snapshot(), err
	}

	if reload {
		_ = p.Load(ctx)
	}
	return p.Snapshot(), nil
}

// refresh runs the results load and the options request side by side.
func (p *Page) refresh(ctx context.Context, req services.OptionsRequest, narrowing bool) {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = p.Load(ctx)
	}()
	if narrowing {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = p.completeOptions(ctx, req)
		}()
	}
	wg.Wait()
}
