package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ivory/pkg/types"
)

func newSortCmd() *cobra.Command {
	var desc bool
	cmd := &cobra.Command{
		Use:   "sort <table> <column>",
		Short: "Reorder the rows of a table by a column",
		Long: `Reorder every row of the table by the values of one column. The new
order is saved; later adds still place rows by ID.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTable(args[0], func(tbl types.Table) error {
				if err := tbl.SortBy(args[1], !desc); err != nil {
					return err
				}
				order := "ascending"
				if desc {
					order = "descending"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Sorted %s by %s (%s)\n",
					args[0], types.NormalizeName(args[1]), order)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&desc, "desc", false, "sort in descending order")
	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <table>",
		Short: "Print a table as CSV",
		Long:  "Print the header and every row as comma-separated values, or an array of\nrow objects with --json.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTable(args[0], func(tbl types.Table) error {
				if !flags.jsonMode {
					fmt.Fprint(cmd.OutOrStdout(), tbl.RenderAsText())
					return nil
				}

				schema := tbl.Schema()
				cols := make([][]types.Cell, len(schema))
				for i, info := range schema {
					cells, err := tbl.GetColumn(info.Name)
					if err != nil {
						return err
					}
					cols[i] = cells
				}
				rows := make([]map[string]types.Cell, len(cols[0]))
				for r := range rows {
					row := make([]types.Cell, len(cols))
					for i := range cols {
						row[i] = cols[i][r]
					}
					rows[r] = rowObject(schema, row)
				}
				return writeJSON(cmd.OutOrStdout(), rows)
			})
		},
	}
}
