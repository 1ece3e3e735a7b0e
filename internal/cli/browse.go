package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iliyamo/table-reservation/internal/history"
	"github.com/iliyamo/table-reservation/internal/model"
)

const browseHelp = `commands:
  n | p               next / previous page
  page N              go to page N
  filter STATUS       all, pending, confirmed, cancelled, completed
  sort KEY            newest, oldest, time-asc, time-desc
  edit ROW            edit the reservation on row ROW
  cancel ROW          cancel the reservation on row ROW
  refresh             reload the current page
  q                   quit`

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse your reservations interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			in := bufio.NewReader(cmd.InOrStdin())

			v := newView(cmd)
			// A failed first load is already reported; the customer can refresh.
			_ = v.Activate(ctx)
			renderPage(out, v)

			for {
				line, err := prompt(cmd, in, "> ")
				if err != nil {
					if errors.Is(err, io.EOF) {
						return nil
					}
					return err
				}
				verb, arg, _ := strings.Cut(line, " ")
				arg = strings.TrimSpace(arg)

				var cmdErr error
				switch strings.ToLower(verb) {
				case "":
					continue
				case "q", "quit", "exit":
					return nil
				case "h", "help", "?":
					fmt.Fprintln(out, browseHelp)
					continue
				case "n", "next":
					p := v.Pagination()
					if p.Current+1 >= p.Total {
						fmt.Fprintln(out, "already on the last page")
						continue
					}
					cmdErr = v.List.SetPage(ctx, p.Current+1)
				case "p", "prev":
					p := v.Pagination()
					if p.Current == 0 {
						fmt.Fprintln(out, "already on the first page")
						continue
					}
					cmdErr = v.List.SetPage(ctx, p.Current-1)
				case "page":
					n, err := strconv.Atoi(arg)
					if err != nil {
						fmt.Fprintln(out, "usage: page N")
						continue
					}
					cmdErr = v.List.SetPage(ctx, n-1)
				case "filter":
					st, err := model.ParseStatusFilter(arg)
					if err != nil {
						fmt.Fprintln(out, err)
						continue
					}
					cmdErr = v.List.SetFilter(ctx, st)
				case "sort":
					s, err := parseSort(arg)
					if err != nil {
						fmt.Fprintln(out, err)
						continue
					}
					cmdErr = v.List.SetSort(ctx, s)
				case "refresh", "r":
					cmdErr = v.List.Reload(ctx)
				case "edit", "e":
					r, ok := rowReservation(out, v, arg)
					if !ok {
						continue
					}
					cmdErr = browseEdit(cmd, in, v, r)
				case "cancel", "c":
					r, ok := rowReservation(out, v, arg)
					if !ok {
						continue
					}
					cmdErr = confirmCancel(ctx, cmd, in, v, r, false)
				default:
					fmt.Fprintf(out, "unknown command %q, type help\n", verb)
					continue
				}

				// Service failures were already notified.
				if errors.Is(cmdErr, history.ErrInvalidPage) || errors.Is(cmdErr, history.ErrNotEditable) ||
					errors.Is(cmdErr, history.ErrNotCancellable) || errors.Is(cmdErr, history.ErrInvalidPartySize) {
					fmt.Fprintln(out, cmdErr)
				}
				renderPage(out, v)
			}
		},
	}
}

// rowReservation resolves a 1-based absolute row number, as printed in the
// "#" column, to a displayed reservation.
func rowReservation(out io.Writer, v *history.View, arg string) (model.Reservation, bool) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		fmt.Fprintln(out, "usage: edit|cancel ROW")
		return model.Reservation{}, false
	}
	for _, row := range v.Rows() {
		if row.Number == n {
			return row.Reservation, true
		}
	}
	fmt.Fprintf(out, "no row %d on this page\n", n)
	return model.Reservation{}, false
}

// clearNote is the answer that empties the note.
const clearNote = "-"

// browseEdit opens the edit session on r and prompts for each field.  An
// empty answer keeps the shown value and clearNote empties the note.  When
// the update fails the session stays open and the customer may retry with
// the values just entered.
func browseEdit(cmd *cobra.Command, in *bufio.Reader, v *history.View, r model.Reservation) error {
	if err := v.Edit.Open(r); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	form := formFor(r)

	for {
		if err := promptForm(cmd, in, v, &form); err != nil {
			v.Edit.Close()
			return err
		}
		_, err := v.Edit.Confirm(cmd.Context(), form)
		if err == nil {
			return nil
		}
		if errors.Is(err, history.ErrInvalidPartySize) {
			fmt.Fprintln(out, err)
		}
		answer, perr := prompt(cmd, in, "try again? [y/N]: ")
		if perr != nil || !isYes(answer) {
			v.Edit.Close()
			if perr != nil && !errors.Is(perr, io.EOF) {
				return perr
			}
			return err
		}
	}
}

// promptForm asks for each editable field, showing the current value of form.
func promptForm(cmd *cobra.Command, in *bufio.Reader, v *history.View, form *history.EditForm) error {
	for {
		at, err := prompt(cmd, in, fmt.Sprintf("time [%s]: ", form.ReservationTime.Local().Format(timeLayout)))
		if err != nil {
			return err
		}
		if at == "" {
			break
		}
		t, err := parseTime(at)
		if err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), err)
			continue
		}
		form.ReservationTime = t
		break
	}

	people, err := prompt(cmd, in, fmt.Sprintf("%s [%s]: ", v.T(history.MsgNumberOfPeople), form.NumberOfPeople))
	if err != nil {
		return err
	}
	if people != "" {
		form.NumberOfPeople = people
	}

	note, err := prompt(cmd, in, fmt.Sprintf("note [%s] (%s to clear): ", form.Note, clearNote))
	if err != nil {
		return err
	}
	switch note {
	case "":
	case clearNote:
		form.Note = ""
	default:
		form.Note = note
	}
	return nil
}

func isYes(answer string) bool {
	a := strings.ToLower(strings.TrimSpace(answer))
	return a == "y" || a == "yes"
}
