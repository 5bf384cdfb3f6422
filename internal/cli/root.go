// Package cli implements the typelayout command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/typelayout/internal/paths"
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	backend   string
	jsonMode  bool
}

// app carries the state of one command execution.
type app struct {
	flags   rootFlags
	session *session
	logger  *zap.Logger
}

// NewRootCmd creates the top-level "typelayout" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "typelayout",
		Short: "Compute memory layouts of user-defined types",
		Long: `typelayout computes size, alignment and wasted padding of atomic types,
records (structs) and variants (unions) under three policies: unpacked,
packed, and optimized (members reordered to minimize padding).`,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global persistent flags.
	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	root.PersistentFlags().StringVar(&a.flags.backend, "backend", "", "catalog backend: memory or sqlite (overrides config)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(withSession(a, newAtomicCmd(a)))
	root.AddCommand(withSession(a, newStructCmd(a)))
	root.AddCommand(withSession(a, newUnionCmd(a)))
	root.AddCommand(withSession(a, newDescribeCmd(a)))
	root.AddCommand(withSession(a, newListCmd(a)))
	root.AddCommand(withSession(a, newLoadCmd(a)))
	root.AddCommand(withSession(a, newExportCmd(a)))
	root.AddCommand(withSession(a, newImportCmd(a)))
	root.AddCommand(withSession(a, newResetCmd(a)))
	root.AddCommand(withSession(a, newReplCmd(a)))

	return root
}

// withSession wraps cmd so the session is opened before it runs and closed
// after it finishes, whether or not it fails.
func withSession(a *app, cmd *cobra.Command) *cobra.Command {
	runE := cmd.RunE
	cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
		if err := a.open(); err != nil {
			return err
		}
		defer func() {
			if cerr := a.close(); err == nil {
				err = cerr
			}
		}()
		return runE(cmd, args)
	}
	return cmd
}

// open resolves directories, loads configuration, builds the logger, and
// opens the session.
func (a *app) open() error {
	cfg, err := a.settings()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return &systemError{err}
	}
	a.logger = logger
	installLogger(logger)

	if !cfg.Color {
		color.NoColor = true
	}

	s, err := openSession(cfg, logger)
	if err != nil {
		return &systemError{err}
	}
	a.session = s
	return nil
}

func (a *app) settings() (settings, error) {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return settings{}, &systemError{fmt.Errorf("resolve config dir: %w", err)}
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return settings{}, &systemError{err}
	}
	if a.flags.backend != "" {
		v.Set(cfgKeyBackend, a.flags.backend)
	}
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return settings{}, &systemError{fmt.Errorf("resolve data dir: %w", err)}
	}
	cfg, err := settingsFrom(v, dataDir)
	if err != nil {
		return settings{}, &systemError{err}
	}
	return cfg, nil
}

func (a *app) close() error {
	err := a.session.close()
	a.session = nil
	_ = a.logger.Sync()
	if err != nil {
		return &systemError{err}
	}
	return nil
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	os.Exit(run(NewRootCmd(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes root with args and returns the exit code. Errors are printed
// to stderr.
func run(root *cobra.Command, args []string, stdout, stderr io.Writer) int {
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
	}
	return exitCode(err)
}
