package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/typelayout/internal/sqlite"
	"github.com/mesh-intelligence/typelayout/pkg/types"
)

// Export formats.
const (
	formatJSONL   = "jsonl"
	formatMsgpack = "msgpack"
)

// resolveFormat picks the format from the flag, or from the file extension
// when the flag is empty.
func resolveFormat(flag, path string) (string, error) {
	switch strings.ToLower(flag) {
	case formatJSONL:
		return formatJSONL, nil
	case formatMsgpack:
		return formatMsgpack, nil
	case "":
	default:
		return "", fmt.Errorf("unknown format %q (want %s or %s)", flag, formatJSONL, formatMsgpack)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp", ".msgpack":
		return formatMsgpack, nil
	default:
		return formatJSONL, nil
	}
}

func newExportCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Write the definition log to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := resolveFormat(format, path)
			if err != nil {
				return err
			}
			defs, err := a.session.definitions()
			if err != nil {
				return &systemError{err}
			}
			switch f {
			case formatMsgpack:
				err = sqlite.WriteSnapshot(path, a.session.cfg.Policy(), defs)
			default:
				err = sqlite.WriteJSONL(path, defs)
			}
			if err != nil {
				return &systemError{fmt.Errorf("export %s: %w", path, err)}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d definitions to %s\n", len(defs), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "jsonl or msgpack (default from file extension)")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Define every type from an exported definition log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := resolveFormat(format, path)
			if err != nil {
				return err
			}
			defs, policy, err := readExport(f, path)
			if err != nil {
				return err
			}
			if current := a.session.cfg.Policy(); policy != "" && policy != current {
				a.logger.Warn("snapshot packed alignment differs",
					zap.String("snapshot", string(policy)),
					zap.String("current", string(current)))
				fmt.Fprintf(cmd.ErrOrStderr(),
					"Warning: %s was exported with packed alignment %q; layouts are recomputed with %q\n",
					path, policy, current)
			}
			// The catalog assigns fresh identities.
			for i := range defs {
				defs[i].ID = ""
			}
			n, err := a.session.defineAll(defs)
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d definitions\n", n, len(defs))
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "jsonl or msgpack (default from file extension)")
	return cmd
}

// readExport reads an exported definition log. The packed alignment policy
// is returned for snapshots only; JSONL exports do not record it.
func readExport(format, path string) ([]types.Definition, types.PackedAlignmentPolicy, error) {
	if format == formatMsgpack {
		snap, err := sqlite.ReadSnapshot(path)
		if err != nil {
			return nil, "", fmt.Errorf("import %s: %w", path, err)
		}
		return snap.Definitions, snap.PackedAlignment, nil
	}
	defs, err := sqlite.ReadJSONL(path)
	if err != nil {
		return nil, "", fmt.Errorf("import %s: %w", path, err)
	}
	return defs, "", nil
}
