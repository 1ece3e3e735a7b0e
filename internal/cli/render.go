package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iliyamo/table-reservation/internal/history"
	"github.com/iliyamo/table-reservation/internal/model"
)

const timeLayout = "2006-01-02 15:04"

// notifier prints notifications, one per line.
type notifier struct {
	w io.Writer
}

func newNotifier(w io.Writer) history.Notifier { return notifier{w: w} }

func (n notifier) Notify(kind history.Kind, message string) {
	prefix := "ok"
	if kind == history.KindError {
		prefix = "error"
	}
	fmt.Fprintf(n.w, "%s: %s\n", prefix, message)
}

// renderPage prints the displayed page of v.
func renderPage(w io.Writer, v *history.View) {
	snap := v.List.Snapshot()
	fmt.Fprintf(w, "%s  [%s: %s] [%s: %s]\n", v.T(history.MsgTitle),
		v.T(history.MsgFilterLabel), v.StatusLabel(snap.Query.Status),
		v.T(history.MsgSortLabel), v.T(history.SortKey(snap.Query.Sort)))

	rows := v.Rows()
	if len(rows) == 0 {
		fmt.Fprintln(w, v.T(history.MsgNoReservations))
		fmt.Fprintln(w, v.T(history.MsgNoReservationsTip))
		return
	}

	fmt.Fprintf(w, "%-4s  %-36s  %-28s  %-6s  %-14s  %s\n", "#", "ID",
		v.T(history.MsgTableTime), v.T(history.MsgNumberOfPeople), v.T(history.MsgStatusLabel), v.T(history.MsgDetails))
	for _, r := range rows {
		where := r.Tables + " @ " + r.Reservation.ReservationTime.Local().Format(timeLayout)
		fmt.Fprintf(w, "%-4d  %-36s  %-28s  %-6d  %-14s  %s\n", r.Number, r.Reservation.PublicID,
			where, r.Reservation.NumberOfPeople, r.Status, r.Note)
	}
	p := v.Pagination()
	if p.Total > 0 {
		fmt.Fprintf(w, "Page %d/%d\n", p.Current+1, p.Total)
	}
}

// parseTime accepts RFC 3339 or "2006-01-02 15:04" in local time.
func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{timeLayout, "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q: use YYYY-MM-DD HH:MM or RFC 3339", s)
}

var sortAliases = map[string]model.Sort{
	"newest":    {Key: model.SortCreatedAt, Dir: model.Desc},
	"oldest":    {Key: model.SortCreatedAt, Dir: model.Asc},
	"time-asc":  {Key: model.SortReservationTime, Dir: model.Asc},
	"time-desc": {Key: model.SortReservationTime, Dir: model.Desc},
}

// parseSort accepts an alias (newest, oldest, time-asc, time-desc) or the
// wire form "key,direction".
func parseSort(s string) (model.Sort, error) {
	if v, ok := sortAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return v, nil
	}
	return model.ParseSort(s)
}

// applyQuery moves an activated view to the given filter, sort and page.
func applyQuery(ctx context.Context, v *history.View, status model.Status, sort model.Sort, page int) error {
	q := v.List.Query()
	if status != q.Status {
		if err := v.List.SetFilter(ctx, status); err != nil {
			return err
		}
	}
	if sort != q.Sort {
		if err := v.List.SetSort(ctx, sort); err != nil {
			return err
		}
	}
	if page != v.List.Query().Page {
		return v.List.SetPage(ctx, page)
	}
	return nil
}

// findReservation pages through the activated view until publicID is
// displayed.
func findReservation(ctx context.Context, v *history.View, publicID string) (model.Reservation, error) {
	for {
		snap := v.List.Snapshot()
		for _, r := range snap.Content {
			if r.PublicID == publicID {
				return r, nil
			}
		}
		next := snap.Query.Page + 1
		if next >= snap.TotalPages {
			return model.Reservation{}, fmt.Errorf("reservation %s not found", publicID)
		}
		if err := v.List.SetPage(ctx, next); err != nil {
			return model.Reservation{}, err
		}
	}
}
