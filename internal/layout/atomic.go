package layout

import "github.com/mesh-intelligence/typelayout/pkg/types"

// Atomic returns the layouts of a leaf type. All three policies agree and
// waste nothing.
func Atomic(size, alignment uint64) types.Layouts {
	l := types.AtomicLayout(size, alignment)
	return types.Layouts{Unpacked: l, Packed: l, Optimized: l}
}
