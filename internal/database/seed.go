package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/utils"
)

// Demo accounts created by SeedDemo.  Both use DemoPassword.
const (
	DemoCustomerEmail = "customer@example.com"
	DemoOwnerEmail    = "owner@example.com"
	DemoPassword      = "password"
)

type demoTable struct {
	name     string
	capacity int
	location string
}

var demoTables = []demoTable{
	{"T1", 2, "hall"},
	{"T2", 2, "hall"},
	{"T3", 4, "hall"},
	{"T4", 4, "window"},
	{"T5", 6, "terrace"},
	{"T6", 8, "private room"},
}

// demoReservation references tables by their 1-based position in demoTables.
type demoReservation struct {
	publicID string
	at       time.Time
	people   int
	note     string
	status   model.Status
	tables   []int
}

// demoReservations returns a history that covers every status and both
// past and future times, relative to now.
func demoReservations(now time.Time) []demoReservation {
	day := 24 * time.Hour
	at := func(days int, hour int) time.Time {
		d := now.Truncate(day).Add(time.Duration(days) * day)
		return d.Add(time.Duration(hour) * time.Hour).UTC()
	}
	return []demoReservation{
		{uuid.NewString(), at(-30, 19), 2, "Anniversary dinner", model.StatusCompleted, []int{1}},
		{uuid.NewString(), at(-12, 12), 4, "", model.StatusCompleted, []int{3}},
		{uuid.NewString(), at(-3, 20), 3, "Cancelled because of rain", model.StatusCancelled, []int{5}},
		{uuid.NewString(), at(2, 19), 2, "Window seat please", model.StatusConfirmed, []int{4}},
		{uuid.NewString(), at(5, 18), 6, "Birthday, we bring a cake", model.StatusPending, []int{3, 4}},
		{uuid.NewString(), at(9, 13), 8, "", model.StatusPending, []int{6}},
		{uuid.NewString(), at(14, 20), 2, "Sinh nhật vợ", model.StatusPending, []int{2}},
	}
}

// SeedDemo fills an empty database with demo accounts, tables and a
// reservation history for DemoCustomerEmail.  It does nothing when any user
// already exists.
func SeedDemo(ctx context.Context, db *sql.DB, bcryptCost int, now time.Time) (seeded bool, err error) {
	var users int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&users); err != nil {
		return false, err
	}
	if users > 0 {
		return false, nil
	}

	hash, err := utils.HashPassword(DemoPassword, bcryptCost)
	if err != nil {
		return false, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const insUser = `INSERT INTO users (email, password_hash, role) VALUES (?, ?, ?)`
	res, err := tx.ExecContext(ctx, insUser, DemoCustomerEmail, hash, model.RoleCustomer)
	if err != nil {
		return false, fmt.Errorf("insert customer: %w", err)
	}
	customerID, err := res.LastInsertId()
	if err != nil {
		return false, err
	}
	if _, err := tx.ExecContext(ctx, insUser, DemoOwnerEmail, hash, model.RoleOwner); err != nil {
		return false, fmt.Errorf("insert owner: %w", err)
	}

	tableIDs := make([]int64, len(demoTables))
	for i, t := range demoTables {
		res, err := tx.ExecContext(ctx, `INSERT INTO restaurant_tables (name, capacity, location) VALUES (?, ?, ?)`,
			t.name, t.capacity, t.location)
		if err != nil {
			return false, fmt.Errorf("insert table %s: %w", t.name, err)
		}
		if tableIDs[i], err = res.LastInsertId(); err != nil {
			return false, err
		}
	}

	// created_at is spread out so newest-first ordering is stable.
	created := now.Add(-45 * 24 * time.Hour).UTC()
	for i, r := range demoReservations(now) {
		res, err := tx.ExecContext(ctx, `INSERT INTO reservations
(public_id, user_id, reservation_time, number_of_people, note, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.publicID, customerID, r.at, r.people, r.note, string(r.status),
			created.Add(time.Duration(i)*24*time.Hour), created.Add(time.Duration(i)*24*time.Hour))
		if err != nil {
			return false, fmt.Errorf("insert reservation: %w", err)
		}
		resID, err := res.LastInsertId()
		if err != nil {
			return false, err
		}
		for pos, t := range r.tables {
			if _, err := tx.ExecContext(ctx, `INSERT INTO reservation_tables (reservation_id, table_id, position) VALUES (?, ?, ?)`,
				resID, tableIDs[t-1], pos); err != nil {
				return false, fmt.Errorf("link reservation table: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	committed = true
	return true, nil
}
