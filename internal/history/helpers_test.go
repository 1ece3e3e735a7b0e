package history

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/iliyamo/table-reservation/internal/model"
)

// MockService is a testify mock of ReservationService.
type MockService struct {
	mock.Mock
}

func (m *MockService) ListMine(ctx context.Context, q Query) (model.Page, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(model.Page), args.Error(1)
}

func (m *MockService) ListTables(ctx context.Context) ([]model.Table, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Table), args.Error(1)
}

func (m *MockService) UpdateReservation(ctx context.Context, publicID string, patch model.Patch) (model.Reservation, error) {
	args := m.Called(ctx, publicID, patch)
	return args.Get(0).(model.Reservation), args.Error(1)
}

// listQueries returns the queries passed to ListMine, in call order.
func (m *MockService) listQueries() []Query {
	var out []Query
	for _, c := range m.Calls {
		if c.Method == "ListMine" {
			out = append(out, c.Arguments.Get(1).(Query))
		}
	}
	return out
}

type note struct {
	kind    Kind
	message string
}

// recorder is a Notifier remembering every notification.
type recorder struct {
	mu    sync.Mutex
	notes []note
}

func (r *recorder) Notify(kind Kind, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, note{kind: kind, message: message})
}

func (r *recorder) all() []note {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]note(nil), r.notes...)
}

var errTransport = errors.New("connection refused")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var testTables = []model.Table{
	{ID: 1, Name: "T1", Capacity: 2},
	{ID: 5, Name: "T5", Capacity: 4},
	{ID: 9, Name: "Terrace", Capacity: 6},
}

func reservation(publicID string, status model.Status, tableIDs ...uint64) model.Reservation {
	return model.Reservation{
		ID:              1,
		PublicID:        publicID,
		ReservationTime: time.Date(2030, 5, 1, 19, 0, 0, 0, time.UTC),
		NumberOfPeople:  2,
		Note:            "window seat",
		StatusName:      status,
		TableIDs:        tableIDs,
	}
}

// memService is an in-memory reservation service enforcing the same
// transition rules as the real one.
type memService struct {
	mu           sync.Mutex
	reservations []model.Reservation
	tables       []model.Table
	tableCalls   int
}

func (s *memService) ListMine(_ context.Context, q Query) (model.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []model.Reservation
	for _, r := range s.reservations {
		if q.Status == model.StatusAll || r.StatusName == q.Status {
			matched = append(matched, r)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if q.Sort.Key == model.SortReservationTime {
			ta, tb := a.ReservationTime, b.ReservationTime
			if q.Sort.Descending() {
				return ta.After(tb)
			}
			return ta.Before(tb)
		}
		if q.Sort.Descending() {
			return a.ID > b.ID
		}
		return a.ID < b.ID
	})
	total := len(matched)
	start := q.Page * q.PageSize
	end := start + q.PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	return model.Page{
		Content:       append([]model.Reservation{}, matched[start:end]...),
		TotalPages:    (total + q.PageSize - 1) / q.PageSize,
		TotalElements: int64(total),
		Page:          q.Page,
		Size:          q.PageSize,
	}, nil
}

func (s *memService) ListTables(context.Context) ([]model.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tableCalls++
	return append([]model.Table(nil), s.tables...), nil
}

func (s *memService) UpdateReservation(_ context.Context, publicID string, patch model.Patch) (model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.reservations {
		if r.PublicID != publicID {
			continue
		}
		if patch.StatusName != nil && !r.StatusName.CanTransition(*patch.StatusName) {
			return model.Reservation{}, errors.New("409 illegal status transition")
		}
		if patch.StatusName == nil && r.StatusName.IsTerminal() {
			return model.Reservation{}, errors.New("409 reservation is closed")
		}
		s.reservations[i] = patch.Apply(r)
		return s.reservations[i], nil
	}
	return model.Reservation{}, errors.New("404 reservation not found")
}
