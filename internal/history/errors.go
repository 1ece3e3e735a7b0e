package history

import "errors"

var (
	// ErrNotEditable is returned when editing a CANCELLED, COMPLETED or
	// unknown-status reservation is attempted.
	ErrNotEditable = errors.New("reservation can no longer be edited")
	// ErrNotCancellable is returned when cancelling a CANCELLED, COMPLETED
	// or unknown-status reservation is attempted.
	ErrNotCancellable = errors.New("reservation can no longer be cancelled")
	// ErrNoSession is returned by EditSession.Confirm when nothing is open.
	ErrNoSession = errors.New("no reservation is being edited")
	// ErrInvalidPage is returned for negative page numbers.
	ErrInvalidPage = errors.New("page must not be negative")
	// ErrInvalidPartySize is returned when the party size is not a positive integer.
	ErrInvalidPartySize = errors.New("number of people must be a positive integer")
	// ErrStale is returned by a load whose result was discarded because a
	// newer load was issued while it was in flight.
	ErrStale = errors.New("superseded by a newer load")
)
