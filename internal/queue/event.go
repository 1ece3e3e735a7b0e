// Package queue defines the reservation events exchanged over RabbitMQ and
// the consumer that records them in the audit log.
package queue

import (
	"time"

	"github.com/iliyamo/table-reservation/internal/model"
)

// ReservationUpdatedQueue is the durable queue carrying ReservationUpdatedEvent.
const ReservationUpdatedQueue = "reservation.updated"

// ReservationUpdatedEvent is published after a customer changed or
// cancelled a reservation.  It carries enough for the audit log without a
// database lookup.
type ReservationUpdatedEvent struct {
	ReservationID   uint64   `json:"reservation_id"`
	PublicID        string   `json:"public_id"`
	UserID          uint64   `json:"user_id"`
	PreviousStatus  string   `json:"previous_status"`
	Status          string   `json:"status"`
	ReservationTime string   `json:"reservation_time"`
	NumberOfPeople  int      `json:"number_of_people"`
	TableIDs        []uint64 `json:"table_ids"`
	UpdatedAt       string   `json:"updated_at"`
}

// NewReservationUpdatedEvent describes the change from before to after.
func NewReservationUpdatedEvent(before, after model.Reservation) ReservationUpdatedEvent {
	updated := after.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	return ReservationUpdatedEvent{
		ReservationID:   after.ID,
		PublicID:        after.PublicID,
		UserID:          after.UserID,
		PreviousStatus:  string(before.StatusName),
		Status:          string(after.StatusName),
		ReservationTime: after.ReservationTime.UTC().Format(time.RFC3339),
		NumberOfPeople:  after.NumberOfPeople,
		TableIDs:        after.TableIDs,
		UpdatedAt:       updated.UTC().Format(time.RFC3339),
	}
}
