package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/typelayout/internal/schema"
)

func newLoadCmd(a *app) *cobra.Command {
	var jobs int
	cmd := &cobra.Command{
		Use:   "load FILE...",
		Short: "Define types from TOML definition files",
		Long: `Decode one or more TOML files of [[type]] tables and define their types in
argument order. Files are decoded in parallel; nothing is defined if any file
fails to decode. Definitions stop at the first rejected type.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := schema.DecodeFiles(cmd.Context(), args, jobs)
			if err != nil {
				return err
			}
			n, err := a.session.defineAll(defs)
			fmt.Fprintf(cmd.OutOrStdout(), "Defined %d of %d types\n", n, len(defs))
			return err
		},
	}
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "files decoded concurrently (default GOMAXPROCS)")
	return cmd
}
