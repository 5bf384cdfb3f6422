package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/typelayout/pkg/types"
)

func newAtomicCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "atomic NAME SIZE ALIGN",
		Short: "Define an atomic type",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := parseAtomic(args[0], args[1], args[2])
			if err != nil {
				return err
			}
			return a.runDefine(cmd, def)
		},
	}
}

func newStructCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "struct NAME MEMBER...",
		Aliases: []string{"record"},
		Short:   "Define a record whose members are laid out together",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDefine(cmd, types.Aggregate(args[0], args[1:]...))
		},
	}
}

func newUnionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "union NAME MEMBER...",
		Aliases: []string{"variant"},
		Short:   "Define a variant holding one member at a time",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDefine(cmd, types.Variant(args[0], args[1:]...))
		},
	}
}

// parseAtomic converts textual size and alignment into an atomic definition.
func parseAtomic(name, size, align string) (types.Definition, error) {
	s, err := strconv.ParseUint(size, 10, 64)
	if err != nil {
		return types.Definition{}, fmt.Errorf("size %q: %w", size, types.ErrInvalidSize)
	}
	al, err := strconv.ParseUint(align, 10, 64)
	if err != nil {
		return types.Definition{}, fmt.Errorf("alignment %q: %w", align, types.ErrInvalidAlignment)
	}
	return types.Atomic(name, s, al), nil
}

func (a *app) runDefine(cmd *cobra.Command, def types.Definition) error {
	if err := a.session.define(def); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		rep, err := a.session.reg.Describe(def.Name)
		if err != nil {
			return err
		}
		return printJSON(out, rep)
	}
	fmt.Fprintf(out, "Defined %s %s\n", def.Kind, def.Name)
	return nil
}
