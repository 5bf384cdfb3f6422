package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mesh-intelligence/typelayout/pkg/types"
)

const replPrompt = "> "

const replUsage = `Commands:
  ATOMIC <name> <size> <align>
  STRUCT <name> <member>...
  UNION <name> <member>...
  DESCRIBE <name>
  LIST
  HELP
  EXIT`

func newReplCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Define and describe types interactively",
		Long: `Read commands from standard input, one per line. Commands are
case-insensitive. Errors are reported and the loop continues; EXIT or end of
input ends the session.

` + replUsage,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			r := &repl{
				app:    a,
				out:    cmd.OutOrStdout(),
				errOut: cmd.ErrOrStderr(),
				prompt: isTerminal(in),
			}
			return r.run(in)
		},
	}
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type repl struct {
	app    *app
	out    io.Writer
	errOut io.Writer
	prompt bool
}

// errExit ends the read loop.
var errExit = errors.New("exit")

func (r *repl) run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		if r.prompt {
			fmt.Fprint(r.out, replPrompt)
		}
		if !scanner.Scan() {
			break
		}
		err := r.exec(strings.Fields(scanner.Text()))
		if err == errExit {
			return nil
		}
		if err == nil {
			continue
		}
		if exitCode(err) == exitSysError {
			return err
		}
		fmt.Fprintln(r.errOut, "Error:", err)
	}
	if err := scanner.Err(); err != nil {
		return &systemError{fmt.Errorf("read input: %w", err)}
	}
	return nil
}

// usageError is returned for a malformed command line.
type usageError struct {
	usage string
}

func (e *usageError) Error() string { return "usage: " + e.usage }

func (r *repl) exec(fields []string) error {
	if len(fields) == 0 {
		return nil
	}
	verb, args := strings.ToUpper(fields[0]), fields[1:]
	switch verb {
	case "ATOMIC":
		if len(args) != 3 {
			return &usageError{"ATOMIC <name> <size> <align>"}
		}
		def, err := parseAtomic(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		return r.define(def)
	case "STRUCT", "RECORD":
		if len(args) < 2 {
			return &usageError{"STRUCT <name> <member>..."}
		}
		return r.define(types.Aggregate(args[0], args[1:]...))
	case "UNION", "VARIANT":
		if len(args) < 2 {
			return &usageError{"UNION <name> <member>..."}
		}
		return r.define(types.Variant(args[0], args[1:]...))
	case "DESCRIBE":
		if len(args) != 1 {
			return &usageError{"DESCRIBE <name>"}
		}
		rep, err := r.app.session.reg.Describe(args[0])
		if err != nil {
			return err
		}
		if r.app.flags.jsonMode {
			return printJSON(r.out, rep)
		}
		printReport(r.out, rep)
		return nil
	case "LIST":
		printList(r.out, r.app.listEntries())
		return nil
	case "HELP":
		fmt.Fprintln(r.out, replUsage)
		return nil
	case "EXIT", "QUIT":
		return errExit
	default:
		return fmt.Errorf("unknown command %q\n%s", fields[0], replUsage)
	}
}

func (r *repl) define(def types.Definition) error {
	if err := r.app.session.define(def); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Defined %s %s\n", def.Kind, def.Name)
	return nil
}
