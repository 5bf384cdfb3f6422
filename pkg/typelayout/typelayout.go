// Package typelayout is the public entry point for embedding the type
// registry in other programs.
package typelayout

import (
	"github.com/mesh-intelligence/typelayout/internal/registry"
	"github.com/mesh-intelligence/typelayout/pkg/types"
)

// Version is the typelayout release version.
const Version = "0.1.0"

// NewRegistry creates an empty in-memory registry using the given packed
// alignment policy. An empty policy selects types.DefaultPackedAlignment.
//
// Example:
//
//	reg := typelayout.NewRegistry(types.PackedFirstMember)
//	_ = reg.DefineAtomic("int", 4, 4)
//	_ = reg.DefineAtomic("bool", 1, 2)
//	_ = reg.DefineAggregate("S", []string{"int", "bool"})
//	report, _ := reg.Describe("S")
func NewRegistry(policy types.PackedAlignmentPolicy) types.Registry {
	return registry.New(registry.WithPackedAlignment(policy))
}
