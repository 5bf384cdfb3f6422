package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/typelayout/internal/paths"
	"github.com/mesh-intelligence/typelayout/internal/sqlite"
	"github.com/mesh-intelligence/typelayout/pkg/types"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration and catalog storage",
		Long:  "Create the configuration directory with a default config.yaml, then initialize the catalog in the data directory.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, a)
		},
	}
}

func runInit(cmd *cobra.Command, a *app) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return &systemError{fmt.Errorf("resolve config dir: %w", err)}
	}

	dataDir := a.flags.dataDir
	if dataDir != "" {
		if dataDir, err = filepath.Abs(dataDir); err != nil {
			return &systemError{fmt.Errorf("resolve data dir: %w", err)}
		}
	}

	configPath := filepath.Join(configDir, configFileExt)
	created, err := writeConfigIfMissing(configPath, dataDir)
	if err != nil {
		return &systemError{fmt.Errorf("write config: %w", err)}
	}

	cfg, err := a.settings()
	if err != nil {
		return err
	}

	if cfg.Backend == types.BackendSQLite {
		catalog := sqlite.NewBackend()
		if err := catalog.Attach(cfg.Config); err != nil {
			return &systemError{fmt.Errorf("initialize storage: %w", err)}
		}
		if err := catalog.Detach(); err != nil {
			return &systemError{fmt.Errorf("finalize storage: %w", err)}
		}
	}

	out := cmd.OutOrStdout()
	if created {
		fmt.Fprintf(out, "Wrote %s\n", configPath)
	}
	fmt.Fprintf(out, "Catalog initialized (backend %s, data dir %s)\n", cfg.Backend, cfg.DataDir)
	return nil
}
