package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ivory/pkg/types"
)

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <table> <id|-> [values...]",
		Short: "Add a row",
		Long: `Add a row with one value per column in schema order. The row is
inserted before the first row whose ID is not less than the new one.
Pass "-" as the ID to generate a time-ordered UUID.

Example:
  ivory add people alice 30 true`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTable(args[0], func(tbl types.Table) error {
				row, err := parseRow(tbl.Schema(), args[1:])
				if err != nil {
					return err
				}
				at, err := tbl.Add(row)
				if err != nil {
					return err
				}
				id := row[0].AsText()
				if flags.jsonMode {
					return writeJSON(cmd.OutOrStdout(), map[string]any{"id": id, "row": at})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s at row %d\n", id, at)
				return nil
			})
		},
	}
}

func newDeleteCmd() *cobra.Command {
	var column string
	cmd := &cobra.Command{
		Use:   "delete <table> <id>",
		Short: "Delete a row by ID, or every row matching --column",
		Long: `Delete the row with the given ID. With --column, the second argument is
a value and every row whose cell in that column equals it is deleted.

Example:
  ivory delete people alice
  ivory delete people 30 --column age`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTable(args[0], func(tbl types.Table) error {
				if column == "" {
					if err := tbl.Delete(args[1]); err != nil {
						return err
					}
					return reportDeleted(cmd, 1)
				}
				value, err := parseValue(tbl, column, args[1])
				if err != nil {
					return err
				}
				n, err := tbl.DeleteWhere(column, value)
				if err != nil {
					return err
				}
				return reportDeleted(cmd, n)
			})
		},
	}
	cmd.Flags().StringVar(&column, "column", "", "delete rows whose cell in this column equals the value")
	return cmd
}

func reportDeleted(cmd *cobra.Command, n int) error {
	if flags.jsonMode {
		return writeJSON(cmd.OutOrStdout(), map[string]int{"deleted": n})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d row(s)\n", n)
	return nil
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <table> <id> [column]",
		Short: "Print a cell, or a whole row",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTable(args[0], func(tbl types.Table) error {
				if len(args) == 3 {
					cell, err := tbl.Get(args[1], args[2])
					if err != nil {
						return err
					}
					if flags.jsonMode {
						return writeJSON(cmd.OutOrStdout(), cell)
					}
					fmt.Fprintln(cmd.OutOrStdout(), cell.String())
					return nil
				}

				row, err := tbl.Row(args[1])
				if err != nil {
					return err
				}
				schema := tbl.Schema()
				if flags.jsonMode {
					return writeJSON(cmd.OutOrStdout(), rowObject(schema, row))
				}
				for i, info := range schema {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", info.Name, row[i])
				}
				return nil
			})
		},
	}
}

func newFindCmd() *cobra.Command {
	var exists bool
	cmd := &cobra.Command{
		Use:   "find <table> <column> <value>",
		Short: "List the IDs of rows whose cell equals a value",
		Long: `List, in row order, the IDs of rows whose cell in the column equals the
value. Text matches ignore case. With --exists only report whether any
row matches.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTable(args[0], func(tbl types.Table) error {
				value, err := parseValue(tbl, args[1], args[2])
				if err != nil {
					return err
				}
				if exists {
					ok, err := tbl.Exists(args[1], value)
					if err != nil {
						return err
					}
					if flags.jsonMode {
						return writeJSON(cmd.OutOrStdout(), map[string]bool{"exists": ok})
					}
					fmt.Fprintln(cmd.OutOrStdout(), ok)
					return nil
				}

				ids, err := tbl.Find(args[1], value)
				if err != nil {
					return err
				}
				if flags.jsonMode {
					return writeJSON(cmd.OutOrStdout(), ids)
				}
				for _, id := range ids {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&exists, "exists", false, "only report whether a match exists")
	return cmd
}
