package cli

import (
	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List defined types in definition order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := a.listEntries()
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), entries)
			}
			printList(cmd.OutOrStdout(), entries)
			return nil
		},
	}
}

func (a *app) listEntries() []listEntry {
	defs := a.session.reg.Definitions()
	entries := make([]listEntry, 0, len(defs))
	for _, def := range defs {
		entries = append(entries, listEntry{Name: def.Name, Kind: def.Kind, Members: def.Members})
	}
	return entries
}
