package history

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/table-reservation/internal/model"
)

// EditForm carries the values confirmed in the edit dialog.  NumberOfPeople
// is the raw text of the party-size field.
type EditForm struct {
	ReservationTime time.Time
	NumberOfPeople  string
	Note            string
}

// EditSession is the single-slot state of the edit dialog: either closed,
// or open on one reservation together with its representative table.
type EditSession struct {
	catalog *TableCatalog
	coord   *MutationCoordinator
	notify  Notifier
	t       Translator

	mu          sync.Mutex
	open        bool
	reservation model.Reservation
	table       model.Table
	hasTable    bool
}

// NewEditSession returns a closed session.
func NewEditSession(catalog *TableCatalog, coord *MutationCoordinator, notify Notifier, t Translator) *EditSession {
	return &EditSession{catalog: catalog, coord: coord, notify: notify, t: t}
}

// Open starts editing r, replacing any reservation already open.  The
// representative table is the first catalog table r is booked on.
func (s *EditSession) Open(r model.Reservation) error {
	if !r.Editable() {
		return ErrNotEditable
	}
	table, ok := s.catalog.FirstMatch(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = true
	s.reservation = r
	s.table = table
	s.hasTable = ok
	return nil
}

// Current returns the reservation being edited and whether the dialog is open.
func (s *EditSession) Current() (model.Reservation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reservation, s.open
}

// Table returns the representative table of the open reservation, if any.
func (s *EditSession) Table() (model.Table, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table, s.open && s.hasTable
}

// Close discards the session without contacting the service.
func (s *EditSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

// Confirm sends the edited reservation.  On success the session is cleared
// and the list refreshed; on failure the session stays open so the
// customer can retry or close it.
func (s *EditSession) Confirm(ctx context.Context, form EditForm) (model.Reservation, error) {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return model.Reservation{}, ErrNoSession
	}
	orig := s.reservation
	s.mu.Unlock()

	people, err := parsePartySize(form.NumberOfPeople)
	if err != nil {
		s.notify.Notify(KindError, s.t.T(MsgUpdateFail))
		return model.Reservation{}, err
	}

	return s.coord.run(ctx, mutation{
		publicID:   orig.PublicID,
		patch:      editPatch(orig, form, people),
		successKey: MsgUpdateSuccess,
		failureKey: MsgUpdateFail,
		settle: func(applied bool) {
			if applied {
				s.clearIf(orig.PublicID)
			}
		},
	})
}

// editPatch merges the original reservation with the edited fields.  The
// current status is echoed back unchanged.
func editPatch(orig model.Reservation, form EditForm, people int) model.Patch {
	at := form.ReservationTime
	note := form.Note
	status := orig.StatusName
	return model.Patch{
		ReservationTime: &at,
		NumberOfPeople:  &people,
		Note:            &note,
		StatusName:      &status,
	}
}

func parsePartySize(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0, ErrInvalidPartySize
	}
	return n, nil
}

func (s *EditSession) clearIf(publicID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.open && s.reservation.PublicID == publicID {
		s.clearLocked()
	}
}

func (s *EditSession) clearLocked() {
	s.open = false
	s.reservation = model.Reservation{}
	s.table = model.Table{}
	s.hasTable = false
}
