package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/typelayout/pkg/typelayout"
)

const modulePath = "github.com/mesh-intelligence/typelayout"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the typelayout version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "typelayout v%s\nmodule: %s\n", typelayout.Version, modulePath)
			return nil
		},
	}
}
