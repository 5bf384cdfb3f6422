// Package schema reads declarative type definition files written in TOML.
//
// A file holds an array of [[type]] tables, applied in file order:
//
//	[[type]]
//	name = "int"
//	kind = "atomic"
//	size = 4
//	align = 4
//
//	[[type]]
//	name = "pair"
//	kind = "struct"
//	members = ["int", "int"]
package schema

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"
	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/typelayout/pkg/types"
)

type file struct {
	Types []typeEntry `toml:"type"`
}

type typeEntry struct {
	Name    string   `toml:"name"`
	Kind    string   `toml:"kind"`
	Size    int64    `toml:"size"`
	Align   int64    `toml:"align"`
	Members []string `toml:"members"`
}

// DecodeFile reads one definition file. Unknown keys are rejected so typos
// such as "alignment" do not silently produce a zero alignment.
func DecodeFile(path string) ([]types.Definition, error) {
	var f file
	meta, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	defs := make([]types.Definition, 0, len(f.Types))
	for i, e := range f.Types {
		def, err := e.definition()
		if err != nil {
			return nil, fmt.Errorf("%s: [[type]] #%d (%q): %w", path, i+1, e.Name, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func (e typeEntry) definition() (types.Definition, error) {
	if strings.TrimSpace(e.Kind) == "" {
		return types.Definition{}, fmt.Errorf("missing kind")
	}
	kind, err := types.ParseKind(e.Kind)
	if err != nil {
		return types.Definition{}, err
	}

	def := types.Definition{Kind: kind, Name: strings.TrimSpace(e.Name)}
	switch kind {
	case types.KindAtomic:
		if len(e.Members) > 0 {
			return types.Definition{}, fmt.Errorf("atomic type cannot have members")
		}
		if def.Size, err = safecast.Conv[uint64](e.Size); err != nil {
			return types.Definition{}, fmt.Errorf("size: %w", err)
		}
		if def.Alignment, err = safecast.Conv[uint64](e.Align); err != nil {
			return types.Definition{}, fmt.Errorf("align: %w", err)
		}
	default:
		if e.Size != 0 || e.Align != 0 {
			return types.Definition{}, fmt.Errorf("%s type cannot declare size or align", kind)
		}
		def.Members = e.Members
	}
	if err := def.Validate(); err != nil {
		return types.Definition{}, err
	}
	return def, nil
}

// DecodeFiles decodes paths concurrently, using at most jobs goroutines
// (GOMAXPROCS when jobs <= 0). Definitions are returned in argument order,
// then file order. The first decode error cancels the remaining work.
func DecodeFiles(ctx context.Context, paths []string, jobs int) ([]types.Definition, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Each goroutine writes only its own index.
	results := make([][]types.Definition, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			defs, err := DecodeFile(path)
			if err != nil {
				return err
			}
			results[i] = defs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []types.Definition
	for _, defs := range results {
		out = append(out, defs...)
	}
	return out, nil
}
