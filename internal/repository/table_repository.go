package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/table-reservation/internal/model"
)

// TableRepo reads the restaurant_tables catalog.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo returns a TableRepo bound to db.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

// ListActive returns every active table ordered by id.  An empty catalog
// yields an empty, non-nil slice.
func (r *TableRepo) ListActive(ctx context.Context) ([]model.Table, error) {
	const q = `SELECT id, name, capacity, location, is_active, created_at
FROM restaurant_tables WHERE is_active = TRUE ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := []model.Table{}
	for rows.Next() {
		var (
			t   model.Table
			loc sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.Name, &t.Capacity, &loc, &t.IsActive, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.Location = loc.String
		tables = append(tables, t)
	}
	return tables, rows.Err()
}
