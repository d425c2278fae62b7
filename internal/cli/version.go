package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ivory/pkg/ivory"
)

const modulePath = "github.com/mesh-intelligence/ivory"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the ivory version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "ivory v%s\nmodule: %s\n", ivory.Version, modulePath)
			return nil
		},
	}
}
