package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ivory/pkg/types"
)

func newColumnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "column",
		Short: "Add, delete or show columns",
	}
	cmd.AddCommand(newColumnAddCmd(), newColumnDeleteCmd(), newColumnShowCmd())
	return cmd
}

func newColumnAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <table> <name> <kind>",
		Short: "Add a column",
		Long: `Add a column of the given kind to a table. Existing rows get the
zero value of the kind.

Kinds: text, int64, float64, bool, char`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := types.ParseKind(args[2])
			if err != nil {
				return err
			}
			return withTable(args[0], func(tbl types.Table) error {
				if err := tbl.AddColumn(args[1], kind); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added column %s (%s) to %s\n",
					types.NormalizeName(args[1]), kind, args[0])
				return nil
			})
		},
	}
}

func newColumnDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <table> <name>",
		Short: "Delete a column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTable(args[0], func(tbl types.Table) error {
				if err := tbl.DeleteColumn(args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted column %s from %s\n",
					types.NormalizeName(args[1]), args[0])
				return nil
			})
		},
	}
}

func newColumnShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <table> <name>",
		Short: "Print every value of a column in row order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTable(args[0], func(tbl types.Table) error {
				cells, err := tbl.GetColumn(args[1])
				if err != nil {
					return err
				}
				if flags.jsonMode {
					return writeJSON(cmd.OutOrStdout(), cells)
				}
				for _, c := range cells {
					fmt.Fprintln(cmd.OutOrStdout(), c.String())
				}
				return nil
			})
		},
	}
}
