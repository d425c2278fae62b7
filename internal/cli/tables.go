package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <table>",
		Short: "Create an empty table",
		Long:  "Create a table holding only the ID column.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			backend, _, err := attachBackend()
			if err != nil {
				return err
			}
			defer detach(backend, &err)

			tbl, err := backend.CreateTable(args[0])
			if err != nil {
				return err
			}
			if flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"table": args[0], "schema": tbl.Schema()})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created table %s\n", args[0])
			return nil
		},
	}
}

func newDropCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drop <table>",
		Short: "Delete a table and its snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			backend, _, err := attachBackend()
			if err != nil {
				return err
			}
			defer detach(backend, &err)

			if err := backend.DropTable(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Dropped table %s\n", args[0])
			return nil
		},
	}
}

func newTablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			backend, _, err := attachBackend()
			if err != nil {
				return err
			}
			defer detach(backend, &err)

			names, err := backend.ListTables()
			if err != nil {
				return sysError(err)
			}
			if flags.jsonMode {
				if names == nil {
					names = []string{}
				}
				return writeJSON(cmd.OutOrStdout(), names)
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
