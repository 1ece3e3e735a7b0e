package model

import "time"

// Reservation is a customer's booking of one or more restaurant tables for a
// given time and party size.  The JSON names follow the reservation service
// wire contract shared by the server and the history client.
//
// Fields:
//
//	ID              – reservations.id, internal numeric identifier.
//	PublicID        – reservations.public_id, UUID exposed in URLs.
//	UserID          – owner of the reservation (never sent to clients).
//	ReservationTime – when the party is expected.
//	NumberOfPeople  – party size, always positive.
//	Note            – optional free text, empty when absent.
//	StatusName      – lifecycle state; unknown values are kept verbatim.
//	TableIDs        – reserved tables in booking order, possibly empty.
//	CreatedAt       – creation timestamp.
//	UpdatedAt       – last update timestamp.
type Reservation struct {
	ID              uint64    `json:"id"`
	PublicID        string    `json:"publicId"`
	UserID          uint64    `json:"-"`
	ReservationTime time.Time `json:"reservationTime"`
	NumberOfPeople  int       `json:"numberOfPeople"`
	Note            string    `json:"note"`
	StatusName      Status    `json:"statusName"`
	TableIDs        []uint64  `json:"tableIds"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Editable reports whether the reservation may still be edited or
// cancelled by its owner.  Unknown statuses are not editable.
func (r Reservation) Editable() bool {
	return r.StatusName.IsValid() && !r.StatusName.IsTerminal()
}

// HasTable reports whether id is one of the reservation's tables.
func (r Reservation) HasTable(id uint64) bool {
	for _, t := range r.TableIDs {
		if t == id {
			return true
		}
	}
	return false
}

// Patch is a partial reservation update.  Nil fields are left unchanged by
// the service.  Cancellation is expressed as a patch whose only field is
// StatusName = CANCELLED.
type Patch struct {
	ReservationTime *time.Time `json:"reservationTime,omitempty"`
	NumberOfPeople  *int       `json:"numberOfPeople,omitempty"`
	Note            *string    `json:"note,omitempty"`
	StatusName      *Status    `json:"statusName,omitempty"`
}

// CancelPatch returns the minimal patch that cancels a reservation.
func CancelPatch() Patch {
	st := StatusCancelled
	return Patch{StatusName: &st}
}

// Apply returns a copy of r with the non-nil fields of p applied.
func (p Patch) Apply(r Reservation) Reservation {
	if p.ReservationTime != nil {
		r.ReservationTime = *p.ReservationTime
	}
	if p.NumberOfPeople != nil {
		r.NumberOfPeople = *p.NumberOfPeople
	}
	if p.Note != nil {
		r.Note = *p.Note
	}
	if p.StatusName != nil {
		r.StatusName = *p.StatusName
	}
	return r
}

// Page is one page of reservations as returned by the service.  TotalPages
// is authoritative and must never be recomputed by clients.
type Page struct {
	Content       []Reservation `json:"content"`
	TotalPages    int           `json:"totalPages"`
	TotalElements int64         `json:"totalElements"`
	Page          int           `json:"page"`
	Size          int           `json:"size"`
}
