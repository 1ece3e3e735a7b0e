package model

import (
	"fmt"
	"strings"
)

// SortKey names a reservation attribute the list can be ordered by.
type SortKey string

const (
	SortCreatedAt       SortKey = "createdAt"
	SortReservationTime SortKey = "reservationTime"
)

// Direction is the ordering direction of a Sort.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort is a sort key plus direction.  Its wire form is "key,direction",
// e.g. "createdAt,desc".
type Sort struct {
	Key SortKey
	Dir Direction
}

// DefaultSort orders reservations newest first.
var DefaultSort = Sort{Key: SortCreatedAt, Dir: Desc}

// SortOptions lists the supported orderings in menu order: newest, oldest,
// earliest reservation time, latest reservation time.
var SortOptions = []Sort{
	{Key: SortCreatedAt, Dir: Desc},
	{Key: SortCreatedAt, Dir: Asc},
	{Key: SortReservationTime, Dir: Asc},
	{Key: SortReservationTime, Dir: Desc},
}

// String returns the wire form of the sort.
func (s Sort) String() string {
	return string(s.Key) + "," + string(s.Dir)
}

// Descending reports whether s orders from largest to smallest.
func (s Sort) Descending() bool {
	return s.Dir == Desc
}

// ParseSort parses the "key,direction" wire form.  Only the keys and
// directions declared above are accepted.
func ParseSort(raw string) (Sort, error) {
	key, dir, ok := strings.Cut(strings.TrimSpace(raw), ",")
	if !ok {
		return Sort{}, fmt.Errorf("invalid sort %q: want key,direction", raw)
	}
	s := Sort{Key: SortKey(strings.TrimSpace(key)), Dir: Direction(strings.ToLower(strings.TrimSpace(dir)))}
	switch s.Key {
	case SortCreatedAt, SortReservationTime:
	default:
		return Sort{}, fmt.Errorf("invalid sort key %q", key)
	}
	switch s.Dir {
	case Asc, Desc:
	default:
		return Sort{}, fmt.Errorf("invalid sort direction %q", dir)
	}
	return s, nil
}

// StatusAll is the empty status filter: every status is listed.
const StatusAll Status = ""

// ParseStatusFilter parses a list filter.  The empty string and "all"
// select every status; anything else must be a known status name.
func ParseStatusFilter(raw string) (Status, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "all") {
		return StatusAll, nil
	}
	st, ok := ParseStatus(strings.ToUpper(raw))
	if !ok {
		return StatusAll, fmt.Errorf("invalid status filter %q", raw)
	}
	return st, nil
}
