package layout

import (
	"fmt"

	"github.com/mesh-intelligence/typelayout/pkg/types"
)

// LayoutErrorKind enumerates layout calculation failures.
type LayoutErrorKind uint8

const (
	// LayoutErrSizeOverflow indicates a size or padding sum above 2^64-1.
	LayoutErrSizeOverflow LayoutErrorKind = iota + 1
	// LayoutErrAlignOverflow indicates a least common multiple above 2^64-1.
	LayoutErrAlignOverflow
)

// LayoutError is returned when a layout cannot be represented in 64 bits.
// It matches types.ErrLayoutOverflow under errors.Is.
type LayoutError struct {
	Kind   LayoutErrorKind
	Policy types.Policy
	A, B   uint64 // operands of the failing operation
}

func (e *LayoutError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case LayoutErrSizeOverflow:
		return fmt.Sprintf("%s layout: size %d + %d overflows", e.Policy, e.A, e.B)
	case LayoutErrAlignOverflow:
		return fmt.Sprintf("%s layout: lcm(%d, %d) overflows", e.Policy, e.A, e.B)
	default:
		return fmt.Sprintf("%s layout: error kind=%d", e.Policy, e.Kind)
	}
}

func (e *LayoutError) Unwrap() error {
	return types.ErrLayoutOverflow
}
