package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/iliyamo/table-reservation/internal/history"
	"github.com/iliyamo/table-reservation/internal/model"
)

func newEditCmd() *cobra.Command {
	var (
		at     string
		people string
		note   string
	)

	cmd := &cobra.Command{
		Use:   "edit <publicId>",
		Short: "Change the time, party size or note of a reservation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			v := newView(cmd)
			if err := v.Activate(ctx); err != nil {
				return err
			}
			r, err := findReservation(ctx, v, args[0])
			if err != nil {
				return err
			}
			if err := v.Edit.Open(r); err != nil {
				return err
			}

			form := formFor(r)
			if cmd.Flags().Changed("time") {
				if form.ReservationTime, err = parseTime(at); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("people") {
				form.NumberOfPeople = people
			}
			if cmd.Flags().Changed("note") {
				form.Note = note
			}

			updated, err := v.Edit.Confirm(ctx, form)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %d  %s\n", updated.PublicID,
				updated.ReservationTime.Local().Format(timeLayout), updated.NumberOfPeople, v.StatusLabel(updated.StatusName))
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "time", "", "new reservation time (YYYY-MM-DD HH:MM or RFC 3339)")
	cmd.Flags().StringVar(&people, "people", "", "new number of people")
	cmd.Flags().StringVar(&note, "note", "", "new note (empty clears it)")
	return cmd
}

// formFor prefills the edit form with the current values of r.
func formFor(r model.Reservation) history.EditForm {
	return history.EditForm{
		ReservationTime: r.ReservationTime,
		NumberOfPeople:  strconv.Itoa(r.NumberOfPeople),
		Note:            r.Note,
	}
}
