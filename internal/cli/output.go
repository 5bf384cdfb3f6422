package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/mesh-intelligence/typelayout/pkg/types"
)

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	policyColor  = color.New(color.FgYellow, color.Bold)
	wastedColor  = color.New(color.FgRed)
)

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var policyTitles = map[types.Policy]string{
	types.PolicyUnpacked:  "Unpacked",
	types.PolicyPacked:    "Packed",
	types.PolicyOptimized: "Optimized",
}

// printReport writes the human-readable description of a type.
func printReport(w io.Writer, rep types.LayoutReport) {
	title := fmt.Sprintf("Type %s (%s)", rep.Name, rep.Kind)
	if len(rep.Members) > 0 {
		title = fmt.Sprintf("Type %s (%s: %s)", rep.Name, rep.Kind, strings.Join(rep.Members, ", "))
	}
	headingColor.Fprintln(w, title)

	for _, p := range types.Policies {
		l, _ := rep.Get(p)
		fmt.Fprintln(w)
		policyColor.Fprintln(w, policyTitles[p])
		fmt.Fprintf(w, "  size       %d\n", l.Size)
		fmt.Fprintf(w, "  alignment  %d\n", l.Alignment)
		if l.Wasted > 0 {
			fmt.Fprintf(w, "  wasted     %s\n", wastedColor.Sprint(l.Wasted))
		} else {
			fmt.Fprintf(w, "  wasted     %d\n", l.Wasted)
		}
		if p == types.PolicyOptimized && len(rep.OptimizedOrder) > 0 {
			fmt.Fprintf(w, "  order      %s\n", strings.Join(rep.OptimizedOrder, ", "))
		}
	}
}

// listEntry is one row of the list command.
type listEntry struct {
	Name    string     `json:"name"`
	Kind    types.Kind `json:"kind"`
	Members []string   `json:"members,omitempty"`
}

func printList(w io.Writer, entries []listEntry) {
	for _, e := range entries {
		if len(e.Members) == 0 {
			fmt.Fprintf(w, "%-10s %s\n", e.Kind, e.Name)
			continue
		}
		fmt.Fprintf(w, "%-10s %s [%s]\n", e.Kind, e.Name, strings.Join(e.Members, " "))
	}
}
