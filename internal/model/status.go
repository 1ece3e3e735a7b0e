package model

// Status is the lifecycle state of a table reservation as stored in
// reservations.status and sent on the wire as statusName.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

// Statuses lists every known status in display order.
var Statuses = []Status{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted}

// ParseStatus returns the Status named by s and whether it is one of the
// four known values.  Matching is exact; the wire format is upper case.
func ParseStatus(s string) (Status, bool) {
	st := Status(s)
	return st, st.IsValid()
}

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// IsTerminal reports whether no further change is allowed.  Reservations in
// a terminal state can neither be edited nor cancelled.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// CanTransition reports whether moving from s to next is a legal lifecycle
// step.  Keeping the same non-terminal status is always legal so that a full
// edit which echoes the current status back is accepted.
func (s Status) CanTransition(next Status) bool {
	if !s.IsValid() || !next.IsValid() || s.IsTerminal() {
		return false
	}
	if s == next {
		return true
	}
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCancelled || next == StatusCompleted
	}
	return false
}

// String returns the wire representation of the status.
func (s Status) String() string {
	return string(s)
}
