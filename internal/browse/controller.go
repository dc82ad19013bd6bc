// Package browse drives incremental ("infinite scroll") loading of places.
// A Controller requests pages one at a time, accumulates them, and re-derives
// the visible list whenever a page arrives or the filter criteria change.
package browse

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pkordes/dfw-explorer/internal/domain"
	"github.com/pkordes/dfw-explorer/internal/filter"
)

// DefaultPageSize is the number of places requested per page.
const DefaultPageSize = 24

// DefaultSearchDelay is how long search input must be idle before it is
// applied.
const DefaultSearchDelay = 300 * time.Millisecond

// PlaceFetcher is the data source a Controller pages through.
// *source.Fetcher satisfies it.
type PlaceFetcher interface {
	FetchPlaces(ctx context.Context, c domain.FilterCriteria) ([]domain.Place, error)
}

// Options configures a Controller. Zero values select the defaults.
type Options struct {
	PageSize    int
	SearchDelay time.Duration
	// OnCriteriaChange is called, outside the controller's lock, after the
	// criteria changed and accumulation restarted. Callers typically request
	// the first page from it.
	OnCriteriaChange func(domain.FilterCriteria)
}

// State is a point-in-time snapshot of a Controller.
type State struct {
	Places   []domain.Place
	Criteria domain.FilterCriteria
	// Page is the number of pages accumulated under the current criteria.
	Page    int
	Loading bool
	// InitialLoading is set while the first page is outstanding (render a
	// full skeleton); LoadingMore while a later page is (render an append
	// skeleton).
	InitialLoading bool
	LoadingMore    bool
	// Done is set once a page came back shorter than the page size.
	Done bool
	Err  error
}

// Controller accumulates pages of places for one set of filter criteria.
// It is safe for concurrent use.
//
// Every request is tagged with the generation of the criteria it was issued
// under. Changing criteria bumps the generation, so a response that arrives
// after the change is dropped instead of being appended.
type Controller struct {
	fetcher  PlaceFetcher
	pageSize int
	onChange func(domain.FilterCriteria)
	log      *slog.Logger
	search   *Debouncer

	mu          sync.Mutex
	criteria    domain.FilterCriteria
	generation  uint64
	page        int
	items       []domain.Place
	view        []domain.Place
	stale       bool
	loading     bool
	loadingPage int
	done        bool
	err         error
}

// NewController constructs an idle Controller with no pages loaded.
func NewController(fetcher PlaceFetcher, opts Options, log *slog.Logger) *Controller {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.SearchDelay <= 0 {
		opts.SearchDelay = DefaultSearchDelay
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	c := &Controller{
		fetcher:  fetcher,
		pageSize: opts.PageSize,
		onChange: opts.OnCriteriaChange,
		log:      log,
		view:     []domain.Place{},
	}
	c.search = NewDebouncer(opts.SearchDelay, c.applySearch)
	return c
}

// RequestNextPage fetches and accumulates the next page. It is a no-op when
// a page is already outstanding or the end of the data has been reached.
// A response that arrives after the criteria changed is discarded.
func (c *Controller) RequestNextPage(ctx context.Context) error {
	c.mu.Lock()
	if c.loading || c.done {
		c.mu.Unlock()
		return nil
	}
	gen := c.generation
	next := c.page + 1
	req := c.criteria.WithPage(next, c.pageSize)
	c.loading, c.loadingPage, c.err = true, next, nil
	c.mu.Unlock()

	places, err := c.fetcher.FetchPlaces(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.log.DebugContext(ctx, "discarding stale page", "page", next, "generation", gen)
		return nil
	}
	c.loading, c.loadingPage = false, 0
	if err != nil {
		c.err = err
		return err
	}

	if c.stale || next == 1 {
		c.items = append([]domain.Place(nil), places...)
		c.stale = false
	} else {
		c.items = append(c.items, places...)
	}
	c.page = next
	c.done = len(places) < c.pageSize
	c.view = filter.Apply(c.items, c.criteria, true)
	return nil
}

// SetCriteria replaces the filter criteria (Limit and Offset are ignored).
// When any filter changed, paging restarts at page 1, the visible list is
// immediately re-derived from the places accumulated so far, and any
// outstanding request is orphaned. It reports whether anything changed.
func (c *Controller) SetCriteria(next domain.FilterCriteria) bool {
	next.Limit, next.Offset = 0, 0

	c.mu.Lock()
	if c.criteria.SameFilters(next) {
		c.mu.Unlock()
		return false
	}
	c.criteria = next
	c.generation++
	c.page = 0
	c.done = false
	c.loading, c.loadingPage = false, 0
	c.err = nil
	c.stale = true
	c.view = filter.Apply(c.items, next, true)
	onChange := c.onChange
	c.mu.Unlock()

	if onChange != nil {
		onChange(next)
	}
	return true
}

// SearchInput records a keystroke-level change of the search text. The text
// is applied once input has been idle for the configured search delay.
func (c *Controller) SearchInput(text string) {
	c.search.Push(text)
}

func (c *Controller) applySearch(text string) {
	c.mu.Lock()
	next := c.criteria
	c.mu.Unlock()

	next.Search = text
	c.SetCriteria(next)
}

// State returns a snapshot of the controller.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Places:         append([]domain.Place{}, c.view...),
		Criteria:       c.criteria,
		Page:           c.page,
		Loading:        c.loading,
		InitialLoading: c.loading && c.loadingPage == 1,
		LoadingMore:    c.loading && c.loadingPage > 1,
		Done:           c.done,
		Err:            c.err,
	}
}

// Close stops any pending debounced search.
func (c *Controller) Close() {
	c.search.Stop()
}
