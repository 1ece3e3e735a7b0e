package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the restaurant tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := client.ListTables(cmd.Context())
			if err != nil {
				return fmt.Errorf("list tables: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(tables) == 0 {
				fmt.Fprintln(out, "No tables found.")
				return nil
			}
			fmt.Fprintf(out, "%-6s  %-20s  %-8s  %s\n", "ID", "NAME", "CAPACITY", "LOCATION")
			for _, t := range tables {
				fmt.Fprintf(out, "%-6d  %-20s  %-8d  %s\n", t.ID, t.Name, t.Capacity, t.Location)
			}
			return nil
		},
	}
}
