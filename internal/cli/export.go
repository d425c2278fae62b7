package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ivory/internal/export"
	"github.com/mesh-intelligence/ivory/internal/paths"
	"github.com/mesh-intelligence/ivory/pkg/types"
)

func newExportCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "export <table> <db-file>",
		Short: "Copy a table into a SQLite database",
		Long: `Write the table into a SQLite database file as a table of the same name.
An existing file is left untouched and a numbered name is chosen next to
it, unless --force is given, in which case the table inside the file is
replaced.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath := args[1]
			if !force {
				p, err := paths.UniquePath(dbPath)
				if err != nil {
					return sysError(err)
				}
				dbPath = p
			}
			return withTable(args[0], func(tbl types.Table) error {
				name, err := paths.TableName(args[0])
				if err != nil {
					return err
				}
				if err := export.SQLite(cmd.Context(), dbPath, name, tbl); err != nil {
					return sysError(err)
				}
				if flags.jsonMode {
					return writeJSON(cmd.OutOrStdout(), map[string]any{"table": name, "path": dbPath, "rows": tbl.Len()})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s (%d rows) to %s\n", name, tbl.Len(), dbPath)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "write into an existing database file")
	return cmd
}
