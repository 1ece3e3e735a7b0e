package model

import "time"

// Table describes a physical restaurant table that reservations refer to by
// id.  It corresponds to a row in the `restaurant_tables` table.
//
// Fields:
//
//	ID        – primary key identifier.
//	Name      – display name shown to customers (e.g. "T5").
//	Capacity  – number of seats at the table.
//	Location  – free-form area label (terrace, hall, ...).
//	IsActive  – inactive tables are hidden from the catalog.
//	CreatedAt – creation timestamp.
type Table struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	Location  string    `json:"location,omitempty"`
	IsActive  bool      `json:"-"`
	CreatedAt time.Time `json:"-"`
}
