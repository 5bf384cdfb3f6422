package registry

import (
	"fmt"

	"github.com/mesh-intelligence/typelayout/pkg/types"
)

// ReplayError reports the definition that stopped a replay.
type ReplayError struct {
	Index int
	Def   types.Definition
	Err   error
}

func (e *ReplayError) Error() string {
	return fmt.Sprintf("replay definition %d (%s %q): %v", e.Index, e.Def.Kind, e.Def.Name, e.Err)
}

func (e *ReplayError) Unwrap() error {
	return e.Err
}

// Replay applies defs to r in order and stops at the first failure, which is
// returned as a *ReplayError. Definitions before the failure stay registered.
func Replay(r *Registry, defs []types.Definition) error {
	for i, def := range defs {
		if err := r.Define(def); err != nil {
			return &ReplayError{Index: i, Def: def, Err: err}
		}
	}
	return nil
}
