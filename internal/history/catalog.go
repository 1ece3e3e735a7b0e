package history

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/iliyamo/table-reservation/internal/model"
)

// TableSource fetches the complete table catalog.
type TableSource interface {
	ListTables(ctx context.Context) ([]model.Table, error)
}

// TableCatalog holds the table set for one view activation.  The first
// successful LoadAll is kept until Reset; reservation mutations never
// invalidate it since they cannot change which tables exist.
type TableCatalog struct {
	src    TableSource
	flight singleflight.Group

	mu     sync.Mutex
	tables []model.Table
	byID   map[uint64]int
	loaded bool
	gen    uint64
}

// NewTableCatalog returns an empty catalog backed by src.
func NewTableCatalog(src TableSource) *TableCatalog {
	return &TableCatalog{src: src}
}

// LoadAll returns the cached catalog, fetching it first when this
// activation has not loaded it yet.  Concurrent misses share one fetch.  A
// failed fetch is not cached.
func (c *TableCatalog) LoadAll(ctx context.Context) ([]model.Table, error) {
	c.mu.Lock()
	if c.loaded {
		out := c.copyLocked()
		c.mu.Unlock()
		return out, nil
	}
	gen := c.gen
	c.mu.Unlock()

	v, err, _ := c.flight.Do(strconv.FormatUint(gen, 10), func() (any, error) {
		tables, err := c.src.ListTables(ctx)
		if err != nil {
			return nil, fmt.Errorf("load table catalog: %w", err)
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		// A Reset while the fetch was in flight starts a new activation; the
		// result still answers the waiting calls but is not kept.
		if gen == c.gen && !c.loaded {
			c.storeLocked(tables)
		}
		return tables, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]model.Table(nil), v.([]model.Table)...), nil
}

// Reset forgets the catalog so the next LoadAll fetches it again.
func (c *TableCatalog) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables = nil
	c.byID = nil
	c.loaded = false
	c.gen++
}

// Loaded reports whether the catalog holds a fetched table set.
func (c *TableCatalog) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Tables returns a copy of the cached catalog in service order.
func (c *TableCatalog) Tables() []model.Table {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyLocked()
}

// Lookup returns the table with the given id.
func (c *TableCatalog) Lookup(id uint64) (model.Table, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.byID[id]
	if !ok {
		return model.Table{}, false
	}
	return c.tables[i], true
}

// FirstMatch returns the first catalog table, in catalog order, whose id is
// one of the reservation's tables.  When several match only the first is
// returned.
func (c *TableCatalog) FirstMatch(r model.Reservation) (model.Table, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return firstMatch(c.tables, r)
}

func firstMatch(tables []model.Table, r model.Reservation) (model.Table, bool) {
	for _, t := range tables {
		if r.HasTable(t.ID) {
			return t, true
		}
	}
	return model.Table{}, false
}

func (c *TableCatalog) storeLocked(tables []model.Table) {
	c.tables = append([]model.Table(nil), tables...)
	c.byID = make(map[uint64]int, len(tables))
	for i, t := range c.tables {
		if _, dup := c.byID[t.ID]; !dup {
			c.byID[t.ID] = i
		}
	}
	c.loaded = true
}

func (c *TableCatalog) copyLocked() []model.Table {
	return append([]model.Table(nil), c.tables...)
}
