package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/typelayout/pkg/types"
)

func newDescribeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "describe NAME...",
		Short: "Show the unpacked, packed and optimized layouts of types",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reports := make([]types.LayoutReport, 0, len(args))
			for _, name := range args {
				rep, err := a.session.reg.Describe(name)
				if err != nil {
					return err
				}
				reports = append(reports, rep)
			}

			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				if len(reports) == 1 {
					return printJSON(out, reports[0])
				}
				return printJSON(out, reports)
			}
			for i, rep := range reports {
				if i > 0 {
					fmt.Fprintln(out)
				}
				printReport(out, rep)
			}
			return nil
		},
	}
}
