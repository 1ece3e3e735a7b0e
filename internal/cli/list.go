package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iliyamo/table-reservation/internal/model"
)

func newListCmd() *cobra.Command {
	var (
		page   int
		status string
		sortBy string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your reservations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if page < 1 {
				return fmt.Errorf("--page must be at least 1")
			}
			st, err := model.ParseStatusFilter(status)
			if err != nil {
				return err
			}
			s, err := parseSort(sortBy)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			v := newView(cmd)
			if err := v.Activate(ctx); err != nil {
				return err
			}
			if err := applyQuery(ctx, v, st, s, page-1); err != nil {
				return err
			}
			renderPage(cmd.OutOrStdout(), v)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number, starting at 1")
	cmd.Flags().StringVar(&status, "status", "all", "status filter (all, pending, confirmed, cancelled, completed)")
	cmd.Flags().StringVar(&sortBy, "sort", "newest", "ordering (newest, oldest, time-asc, time-desc)")
	return cmd
}
