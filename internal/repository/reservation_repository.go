package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/table-reservation/internal/model"
)

// ReservationRepo reads and updates reservations together with the tables
// they are booked on.  Table links live in reservation_tables, ordered by
// position.  All timestamps are stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// ListParams selects one page of reservations.  When AllUsers is false only
// reservations of UserID are returned.  Status may be model.StatusAll.
type ListParams struct {
	UserID   uint64
	AllUsers bool
	Page     int
	Size     int
	Sort     model.Sort
	Status   model.Status
}

// sortColumns whitelists the columns a client may order by.
var sortColumns = map[model.SortKey]string{
	model.SortCreatedAt:       "created_at",
	model.SortReservationTime: "reservation_time",
}

const reservationColumns = `id, public_id, user_id, reservation_time, number_of_people, note, status, created_at, updated_at`

// listQuery builds the count and page statements for p.  Only whitelisted
// identifiers are interpolated; every value is a placeholder argument.
func listQuery(p ListParams) (countSQL, pageSQL string, args []any, err error) {
	col, ok := sortColumns[p.Sort.Key]
	if !ok {
		return "", "", nil, fmt.Errorf("unsupported sort key %q", p.Sort.Key)
	}
	dir := "ASC"
	if p.Sort.Descending() {
		dir = "DESC"
	}

	var where []string
	if !p.AllUsers {
		where = append(where, "user_id = ?")
		args = append(args, p.UserID)
	}
	if p.Status != model.StatusAll {
		where = append(where, "status = ?")
		args = append(args, string(p.Status))
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	countSQL = "SELECT COUNT(*) FROM reservations" + cond
	// id breaks ties so pages never overlap.
	pageSQL = fmt.Sprintf("SELECT %s FROM reservations%s ORDER BY %s %s, id %s LIMIT ? OFFSET ?",
		reservationColumns, cond, col, dir, dir)
	return countSQL, pageSQL, args, nil
}

// List returns the requested page.  Pages past the end are empty but still
// report the real totals.
func (r *ReservationRepo) List(ctx context.Context, p ListParams) (model.Page, error) {
	countSQL, pageSQL, args, err := listQuery(p)
	if err != nil {
		return model.Page{}, err
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return model.Page{}, err
	}

	page := model.Page{
		Content:       []model.Reservation{},
		TotalPages:    totalPages(total, p.Size),
		TotalElements: total,
		Page:          p.Page,
		Size:          p.Size,
	}
	if total == 0 {
		return page, nil
	}

	pageArgs := append(append([]any{}, args...), p.Size, p.Page*p.Size)
	rows, err := r.db.QueryContext(ctx, pageSQL, pageArgs...)
	if err != nil {
		return model.Page{}, err
	}
	defer rows.Close()
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return model.Page{}, err
		}
		page.Content = append(page.Content, res)
	}
	if err := rows.Err(); err != nil {
		return model.Page{}, err
	}

	if err := r.attachTables(ctx, r.db, page.Content); err != nil {
		return model.Page{}, err
	}
	return page, nil
}

// totalPages is ceil(total/size).
func totalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// Locked is a reservation read inside an update transaction plus the
// summed capacity of its tables.
type Locked struct {
	Reservation model.Reservation
	Capacity    int
}

// UpdateFunc derives the new state of a locked reservation.  Returning an
// error aborts the update and is passed through unchanged.
type UpdateFunc func(cur Locked) (model.Reservation, error)

// UpdateForUser locks the reservation publicID owned by userID, lets apply
// compute the new values and writes them back in one transaction.  It
// returns ErrNotFound when the reservation does not exist or belongs to
// another user.
func (r *ReservationRepo) UpdateForUser(ctx context.Context, publicID string, userID uint64, apply UpdateFunc) (model.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Reservation{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	cur, err := r.lockForUserTx(ctx, tx, publicID, userID)
	if err != nil {
		return model.Reservation{}, err
	}

	next, err := apply(cur)
	if err != nil {
		return model.Reservation{}, err
	}

	const upd = `UPDATE reservations SET reservation_time = ?, number_of_people = ?, note = ?, status = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, upd, next.ReservationTime.UTC(), next.NumberOfPeople, next.Note, string(next.StatusName), cur.Reservation.ID); err != nil {
		return model.Reservation{}, err
	}

	// Read back to pick up updated_at.
	row := tx.QueryRowContext(ctx, "SELECT "+reservationColumns+" FROM reservations WHERE id = ?", cur.Reservation.ID)
	updated, err := scanReservation(row)
	if err != nil {
		return model.Reservation{}, err
	}
	updated.TableIDs = cur.Reservation.TableIDs

	if err := tx.Commit(); err != nil {
		return model.Reservation{}, err
	}
	committed = true
	return updated, nil
}

func (r *ReservationRepo) lockForUserTx(ctx context.Context, tx *sql.Tx, publicID string, userID uint64) (Locked, error) {
	q := "SELECT " + reservationColumns + " FROM reservations WHERE public_id = ? AND user_id = ? FOR UPDATE"
	res, err := scanReservation(tx.QueryRowContext(ctx, q, publicID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return Locked{}, ErrNotFound
	}
	if err != nil {
		return Locked{}, err
	}

	list := []model.Reservation{res}
	if err := r.attachTables(ctx, tx, list); err != nil {
		return Locked{}, err
	}

	const capQ = `SELECT COALESCE(SUM(t.capacity), 0)
FROM reservation_tables rt JOIN restaurant_tables t ON t.id = rt.table_id
WHERE rt.reservation_id = ?`
	var capacity int
	if err := tx.QueryRowContext(ctx, capQ, res.ID).Scan(&capacity); err != nil {
		return Locked{}, err
	}
	return Locked{Reservation: list[0], Capacity: capacity}, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// attachTables fills TableIDs of every reservation with a single IN query.
// Reservations without tables get an empty slice.
func (r *ReservationRepo) attachTables(ctx context.Context, q queryer, list []model.Reservation) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]any, len(list))
	index := make(map[uint64]int, len(list))
	for i := range list {
		ids[i] = list[i].ID
		index[list[i].ID] = i
		list[i].TableIDs = []uint64{}
	}
	query := `SELECT reservation_id, table_id FROM reservation_tables WHERE reservation_id IN (` +
		placeholders(len(ids)) + `) ORDER BY reservation_id, position, table_id`
	rows, err := q.QueryContext(ctx, query, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var resID, tableID uint64
		if err := rows.Scan(&resID, &tableID); err != nil {
			return err
		}
		if i, ok := index[resID]; ok {
			list[i].TableIDs = append(list[i].TableIDs, tableID)
		}
	}
	return rows.Err()
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(s rowScanner) (model.Reservation, error) {
	var (
		res    model.Reservation
		status string
	)
	err := s.Scan(&res.ID, &res.PublicID, &res.UserID, &res.ReservationTime, &res.NumberOfPeople,
		&res.Note, &status, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return model.Reservation{}, err
	}
	res.StatusName = model.Status(status)
	return res, nil
}
