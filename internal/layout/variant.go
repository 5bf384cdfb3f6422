package layout

import "github.com/mesh-intelligence/typelayout/pkg/types"

// Variant computes the three layouts of a tagged union. Under every policy
// the size is the largest alternative's size, the alignment is the least
// common multiple of the alternatives' alignments, and nothing is wasted.
// Under PackedUnit the packed alignment is 1.
func Variant(members []types.Layouts, policy types.PackedAlignmentPolicy) (types.Layouts, error) {
	if len(members) == 0 {
		return types.Layouts{}, types.ErrNoMembers
	}
	var out types.Layouts
	for _, p := range types.Policies {
		info, err := union(members, p)
		if err != nil {
			return types.Layouts{}, err
		}
		switch p {
		case types.PolicyUnpacked:
			out.Unpacked = info
		case types.PolicyPacked:
			if policy == types.PackedUnit {
				info.Alignment = 1
			}
			out.Packed = info
		case types.PolicyOptimized:
			out.Optimized = info
		}
	}
	return out, nil
}

func union(members []types.Layouts, p types.Policy) (types.LayoutInfo, error) {
	var size uint64
	align := uint64(1)
	for _, m := range members {
		info, _ := m.Get(p)
		size = max(size, info.Size)
		next, ok := lcm(align, max(info.Alignment, 1))
		if !ok {
			return types.LayoutInfo{}, &LayoutError{Kind: LayoutErrAlignOverflow, Policy: p, A: align, B: info.Alignment}
		}
		align = next
	}
	return types.LayoutInfo{Size: size, Alignment: align}, nil
}
