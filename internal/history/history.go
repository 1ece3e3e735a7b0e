// Package history implements the customer's reservation-history view: the
// query state and paged list, the table catalog used to render table names,
// and the edit and cancel flows with their post-mutation refresh.
//
// All remote access goes through ReservationService.  Outcomes the customer
// must see are reported through a Notifier with messages resolved by a
// Translator; neither is used for control flow.
package history

import (
	"context"

	"github.com/iliyamo/table-reservation/internal/model"
)

// DefaultPageSize is the fixed number of reservations per page.
const DefaultPageSize = 10

// Query is the set of parameters that fully determines which page of
// reservations is fetched.  Status is model.StatusAll for "every status".
type Query struct {
	Page     int
	PageSize int
	Sort     model.Sort
	Status   model.Status
}

// DefaultQuery is the query a freshly activated view starts from.
func DefaultQuery(pageSize int) Query {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return Query{Page: 0, PageSize: pageSize, Sort: model.DefaultSort, Status: model.StatusAll}
}

// ReservationService is the remote reservation/table service.
type ReservationService interface {
	// ListMine returns one page of the caller's reservations.
	ListMine(ctx context.Context, q Query) (model.Page, error)
	// ListTables returns the full table catalog.
	ListTables(ctx context.Context) ([]model.Table, error)
	// UpdateReservation applies a partial update and returns the result.
	UpdateReservation(ctx context.Context, publicID string, patch model.Patch) (model.Reservation, error)
}

// Kind classifies a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notifier delivers user-visible notifications.
type Notifier interface {
	Notify(kind Kind, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(kind Kind, message string)

// Notify calls f(kind, message).
func (f NotifierFunc) Notify(kind Kind, message string) { f(kind, message) }

// Translator resolves a message key to user-facing text.
type Translator interface {
	T(key string) string
}

type keyTranslator struct{}

func (keyTranslator) T(key string) string { return key }

type discardNotifier struct{}

func (discardNotifier) Notify(Kind, string) {}
