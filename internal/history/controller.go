package history

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/table-reservation/internal/model"
)

// ListController owns the query parameters and the page of reservations
// currently displayed.  Every parameter change re-issues a combined fetch of
// the reservation page and the table catalog; the results are committed
// together or not at all.
//
// Each load carries a sequence number.  When a load completes after a newer
// one was issued its result is dropped, so a slow response can never
// overwrite the list of a later query.
type ListController struct {
	svc     ReservationService
	catalog *TableCatalog
	notify  Notifier
	t       Translator
	log     *slog.Logger

	mu         sync.Mutex
	query      Query
	content    []model.Reservation
	totalPages int
	tables     []model.Table
	seq        uint64
	inflight   int
}

// Snapshot is a consistent copy of the controller's displayed state.
type Snapshot struct {
	Query      Query
	Content    []model.Reservation
	TotalPages int
	Tables     []model.Table
	Loading    bool
}

// NewListController returns a controller starting from DefaultQuery(pageSize)
// with an empty list.
func NewListController(svc ReservationService, catalog *TableCatalog, notify Notifier, t Translator, log *slog.Logger, pageSize int) *ListController {
	return &ListController{
		svc:     svc,
		catalog: catalog,
		notify:  notify,
		t:       t,
		log:     log,
		query:   DefaultQuery(pageSize),
		content: []model.Reservation{},
	}
}

// Load fetches the page described by the current query.  On failure the
// previously displayed list is kept and a single error notification is
// sent.  ErrStale is returned when a newer load superseded this one.
func (c *ListController) Load(ctx context.Context) error {
	c.mu.Lock()
	q := c.query
	c.seq++
	seq := c.seq
	c.mu.Unlock()
	return c.fetch(ctx, q, seq)
}

// Reload refetches the current page with unchanged parameters.
func (c *ListController) Reload(ctx context.Context) error {
	return c.Load(ctx)
}

// SetFilter changes the status filter, returns to the first page and loads.
func (c *ListController) SetFilter(ctx context.Context, status model.Status) error {
	c.mu.Lock()
	c.query.Status = status
	c.query.Page = 0
	c.mu.Unlock()
	return c.Load(ctx)
}

// SetSort changes the ordering, returns to the first page and loads.
func (c *ListController) SetSort(ctx context.Context, s model.Sort) error {
	c.mu.Lock()
	c.query.Sort = s
	c.query.Page = 0
	c.mu.Unlock()
	return c.Load(ctx)
}

// SetPage moves to page n, keeping filter and sort, and loads.
func (c *ListController) SetPage(ctx context.Context, n int) error {
	if n < 0 {
		return ErrInvalidPage
	}
	c.mu.Lock()
	c.query.Page = n
	c.mu.Unlock()
	return c.Load(ctx)
}

// Query returns the current query parameters.
func (c *ListController) Query() Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Loading reports whether any load is in flight.
func (c *ListController) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight > 0
}

// Snapshot returns a copy of the displayed state.
func (c *ListController) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Query:      c.query,
		Content:    slices.Clone(c.content),
		TotalPages: c.totalPages,
		Tables:     slices.Clone(c.tables),
		Loading:    c.inflight > 0,
	}
}

// reset restores the initial query and empties the list.  Loads still in
// flight are superseded.
func (c *ListController) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = DefaultQuery(c.query.PageSize)
	c.content = []model.Reservation{}
	c.totalPages = 0
	c.tables = nil
	c.seq++
}

// beginLoading marks a load in flight and returns the function that ends it.
func (c *ListController) beginLoading() func() {
	c.mu.Lock()
	c.inflight++
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		c.inflight--
		c.mu.Unlock()
	}
}

func (c *ListController) fetch(ctx context.Context, q Query, seq uint64) error {
	done := c.beginLoading()
	defer done()

	var (
		page   model.Page
		tables []model.Table
		g      errgroup.Group
	)
	g.Go(func() error {
		p, err := c.svc.ListMine(ctx, q)
		if err != nil {
			return fmt.Errorf("list reservations: %w", err)
		}
		page = p
		return nil
	})
	g.Go(func() error {
		t, err := c.catalog.LoadAll(ctx)
		if err != nil {
			return err
		}
		tables = t
		return nil
	})
	err := g.Wait()

	c.mu.Lock()
	if seq != c.seq {
		latest := c.seq
		c.mu.Unlock()
		c.log.Debug("discarding superseded reservation load", "seq", seq, "latest", latest, "error", err)
		return ErrStale
	}
	if err != nil {
		c.mu.Unlock()
		c.log.Warn("reservation load failed", "page", q.Page, "sort", q.Sort.String(), "status", string(q.Status), "error", err)
		c.notify.Notify(KindError, c.t.T(MsgErrorFetching))
		return err
	}
	content := page.Content
	if content == nil {
		content = []model.Reservation{}
	}
	c.content = content
	c.totalPages = page.TotalPages
	c.tables = tables
	c.mu.Unlock()

	c.log.Debug("reservation page loaded", "page", q.Page, "items", len(content), "total_pages", page.TotalPages)
	return nil
}
