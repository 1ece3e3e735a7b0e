package history

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/iliyamo/table-reservation/internal/model"
)

// noteSummaryLen is the number of characters of a note shown in a row.
const noteSummaryLen = 20

// View is one reservation-history screen: the list, the table catalog and
// the edit and cancel flows wired to the same service.
type View struct {
	Catalog   *TableCatalog
	List      *ListController
	Mutations *MutationCoordinator
	Edit      *EditSession
	Gate      *ConfirmationGate

	t Translator
}

type options struct {
	notify   Notifier
	t        Translator
	log      *slog.Logger
	pageSize int
}

// Option configures a View.
type Option func(*options)

// WithNotifier sets the notification sink.  Notifications are dropped by
// default.
func WithNotifier(n Notifier) Option { return func(o *options) { o.notify = n } }

// WithTranslator sets the message lookup.  By default keys are shown as is.
func WithTranslator(t Translator) Option { return func(o *options) { o.t = t } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.log = l } }

// WithPageSize sets the fixed page size.
func WithPageSize(n int) Option { return func(o *options) { o.pageSize = n } }

// NewView wires the components around svc.  The view is idle until
// Activate is called.
func NewView(svc ReservationService, opts ...Option) *View {
	o := options{
		notify:   discardNotifier{},
		t:        keyTranslator{},
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(&o)
	}

	catalog := NewTableCatalog(svc)
	list := NewListController(svc, catalog, o.notify, o.t, o.log.With("component", "reservation_list"), o.pageSize)
	coord := NewMutationCoordinator(svc, list, o.notify, o.t, o.log.With("component", "reservation_mutations"))
	return &View{
		Catalog:   catalog,
		List:      list,
		Mutations: coord,
		Edit:      NewEditSession(catalog, coord, o.notify, o.t),
		Gate:      NewConfirmationGate(coord),
		t:         o.t,
	}
}

// Activate starts a fresh activation: the table catalog is forgotten, the
// query returns to its defaults, transient dialogs are closed and the first
// page is loaded.
func (v *View) Activate(ctx context.Context) error {
	v.Catalog.Reset()
	v.List.reset()
	v.Edit.Close()
	v.Gate.Decline()
	return v.List.Load(ctx)
}

// Row is one rendered reservation.
type Row struct {
	Number      int
	Reservation model.Reservation
	Tables      string
	Status      string
	Note        string
	CanEdit     bool
	CanCancel   bool
}

// Rows derives the rendered rows of the displayed page.
func (v *View) Rows() []Row {
	snap := v.List.Snapshot()
	names := make(map[uint64]string, len(snap.Tables))
	for _, t := range snap.Tables {
		if _, dup := names[t.ID]; !dup {
			names[t.ID] = t.Name
		}
	}

	rows := make([]Row, 0, len(snap.Content))
	for i, r := range snap.Content {
		editable := r.Editable()
		rows = append(rows, Row{
			Number:      i + 1 + snap.Query.Page*snap.Query.PageSize,
			Reservation: r,
			Tables:      v.tableNames(r.TableIDs, names),
			Status:      v.StatusLabel(r.StatusName),
			Note:        SummarizeNote(r.Note),
			CanEdit:     editable,
			CanCancel:   editable,
		})
	}
	return rows
}

// PageInfo is what a paginator needs to render.
type PageInfo struct {
	Current int
	Total   int
}

// Pagination returns the current page and the authoritative page count.
func (v *View) Pagination() PageInfo {
	snap := v.List.Snapshot()
	return PageInfo{Current: snap.Query.Page, Total: snap.TotalPages}
}

// StatusLabel returns the translated label of s.
func (v *View) StatusLabel(s model.Status) string {
	return v.t.T(StatusKey(s))
}

// T resolves a message key with the view's translator.
func (v *View) T(key string) string {
	return v.t.T(key)
}

// tableNames joins the names of ids in order.  Ids missing from the catalog
// render as "(ID n)".
func (v *View) tableNames(ids []uint64, names map[uint64]string) string {
	if len(ids) == 0 {
		return v.t.T(MsgUnknownTable)
	}
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		if n, ok := names[id]; ok && n != "" {
			parts = append(parts, n)
			continue
		}
		parts = append(parts, fmt.Sprintf("(ID %d)", id))
	}
	return strings.Join(parts, ", ")
}

// SummarizeNote shortens notes longer than twenty characters.
func SummarizeNote(note string) string {
	if utf8.RuneCountInString(note) <= noteSummaryLen {
		return note
	}
	return string([]rune(note)[:noteSummaryLen]) + "..."
}
