package cli

import (
	"bufio"
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iliyamo/table-reservation/internal/history"
	"github.com/iliyamo/table-reservation/internal/model"
)

func newCancelCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "cancel <publicId>",
		Short: "Cancel a reservation",
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
			in := bufio.NewReader(cmd.InOrStdin())
			return confirmCancel(ctx, cmd, in, v, r, yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "cancel without asking for confirmation")
	return cmd
}

// confirmCancel arms the gate with r, asks for confirmation unless yes is
// set, and confirms or declines.
func confirmCancel(ctx context.Context, cmd *cobra.Command, in *bufio.Reader, v *history.View, r model.Reservation, yes bool) error {
	if err := v.Gate.RequestCancel(r); err != nil {
		return err
	}
	if !yes {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n%s\n", v.T(history.MsgConfirmCancelTitle), v.T(history.MsgConfirmCancelMessage))
		answer, err := prompt(cmd, in, fmt.Sprintf("[y] %s / [N] %s: ",
			v.T(history.MsgConfirmCancelButton), v.T(history.MsgCancelButton)))
		if err != nil {
			v.Gate.Decline()
			return err
		}
		if !isYes(answer) {
			v.Gate.Decline()
			return nil
		}
	}
	return v.Gate.Confirm(ctx)
}
