package types

// LayoutInfo is the memory footprint of a type under one layout policy.
// Alignment is always at least 1. For aggregates, Size equals the sum of the
// member sizes in the placed order plus Wasted.
type LayoutInfo struct {
	Size      uint64 `json:"size" msgpack:"size"`
	Alignment uint64 `json:"alignment" msgpack:"alignment"`
	Wasted    uint64 `json:"wasted" msgpack:"wasted"`
}

// AtomicLayout returns the layout shared by all three policies of an atomic type.
func AtomicLayout(size, alignment uint64) LayoutInfo {
	return LayoutInfo{Size: size, Alignment: alignment}
}

// Policy names a layout policy.
type Policy string

// Layout policies, in the order they are reported.
const (
	PolicyUnpacked  Policy = "unpacked"
	PolicyPacked    Policy = "packed"
	PolicyOptimized Policy = "optimized"
)

// Policies lists every policy in report order.
var Policies = []Policy{PolicyUnpacked, PolicyPacked, PolicyOptimized}

// Layouts bundles the three per-policy layouts of a type.
type Layouts struct {
	Unpacked  LayoutInfo `json:"unpacked"`
	Packed    LayoutInfo `json:"packed"`
	Optimized LayoutInfo `json:"optimized"`
}

// Get returns the layout for the given policy. Unknown policies yield the
// zero LayoutInfo and false.
func (l Layouts) Get(p Policy) (LayoutInfo, bool) {
	switch p {
	case PolicyUnpacked:
		return l.Unpacked, true
	case PolicyPacked:
		return l.Packed, true
	case PolicyOptimized:
		return l.Optimized, true
	default:
		return LayoutInfo{}, false
	}
}

// LayoutReport is the result of describing a registered type.
type LayoutReport struct {
	Name    string   `json:"name"`
	Kind    Kind     `json:"kind"`
	Members []string `json:"members,omitempty"`
	Layouts

	// OptimizedOrder is the member order chosen by the optimized layout of an
	// aggregate. Empty for atomic and variant types.
	OptimizedOrder []string `json:"optimized_order,omitempty"`
}
