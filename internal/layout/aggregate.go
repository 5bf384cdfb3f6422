package layout

import (
	"slices"

	"github.com/mesh-intelligence/typelayout/pkg/types"
)

// MaxExhaustiveMembers is the largest member count for which the optimized
// layout searches every permutation (6! = 720 orders). Larger aggregates use
// the alignment-descending heuristic.
const MaxExhaustiveMembers = 6

// AggregateLayout is the result of laying out an aggregate.
type AggregateLayout struct {
	types.Layouts

	// OptimizedOrder holds member indices in the order chosen by the
	// optimized layout. It is the declaration order when the optimized
	// layout falls back to the unpacked one.
	OptimizedOrder []int
}

// Aggregate computes the three layouts of a record from its members' layouts,
// given in declaration order. The optimized layout is computed last because
// it may fall back to the unpacked one.
func Aggregate(members []types.Layouts, policy types.PackedAlignmentPolicy) (AggregateLayout, error) {
	if len(members) == 0 {
		return AggregateLayout{}, types.ErrNoMembers
	}

	packed, err := packedAggregate(members, policy)
	if err != nil {
		return AggregateLayout{}, err
	}
	unpacked, err := place(members, declOrder(len(members)), types.PolicyUnpacked)
	if err != nil {
		return AggregateLayout{}, err
	}
	optimized, order, err := optimizedAggregate(members, unpacked)
	if err != nil {
		return AggregateLayout{}, err
	}

	return AggregateLayout{
		Layouts: types.Layouts{
			Unpacked:  unpacked,
			Packed:    packed,
			Optimized: optimized,
		},
		OptimizedOrder: order,
	}, nil
}

// place lays members out in the given order under policy p. The offset starts
// at 0; before each member after the first, padding is inserted up to the
// next multiple of that member's alignment. There is no trailing padding.
// The reported alignment is the first placed member's.
func place(members []types.Layouts, order []int, p types.Policy) (types.LayoutInfo, error) {
	var used, wasted uint64
	for i, idx := range order {
		m, _ := members[idx].Get(p)
		if i > 0 {
			pad := padTo(used, m.Alignment)
			wasted += pad
			next, ok := addU64(used, pad)
			if !ok {
				return types.LayoutInfo{}, &LayoutError{Kind: LayoutErrSizeOverflow, Policy: p, A: used, B: pad}
			}
			used = next
		}
		next, ok := addU64(used, m.Size)
		if !ok {
			return types.LayoutInfo{}, &LayoutError{Kind: LayoutErrSizeOverflow, Policy: p, A: used, B: m.Size}
		}
		used = next
	}
	first, _ := members[order[0]].Get(p)
	return types.LayoutInfo{Size: used, Alignment: first.Alignment, Wasted: wasted}, nil
}

func packedAggregate(members []types.Layouts, policy types.PackedAlignmentPolicy) (types.LayoutInfo, error) {
	var size uint64
	for _, m := range members {
		next, ok := addU64(size, m.Packed.Size)
		if !ok {
			return types.LayoutInfo{}, &LayoutError{Kind: LayoutErrSizeOverflow, Policy: types.PolicyPacked, A: size, B: m.Packed.Size}
		}
		size = next
	}
	align := uint64(1)
	if policy != types.PackedUnit {
		align = members[0].Packed.Alignment
	}
	return types.LayoutInfo{Size: size, Alignment: align}, nil
}

// optimizedAggregate places members by their optimized layouts. Only the
// heuristic path falls back to the unpacked layout; the exhaustive search
// keeps its best order even when nested members make it waste more.
func optimizedAggregate(members []types.Layouts, unpacked types.LayoutInfo) (types.LayoutInfo, []int, error) {
	if len(members) <= MaxExhaustiveMembers {
		return bestPermutation(members)
	}

	order := declOrder(len(members))
	slices.SortStableFunc(order, func(a, b int) int {
		aa, ba := members[a].Optimized.Alignment, members[b].Optimized.Alignment
		switch {
		case aa > ba:
			return -1
		case aa < ba:
			return 1
		default:
			return 0
		}
	})
	sorted, err := place(members, order, types.PolicyOptimized)
	if err != nil {
		return types.LayoutInfo{}, nil, err
	}
	if sorted.Wasted > unpacked.Wasted {
		return unpacked, declOrder(len(members)), nil
	}
	return sorted, order, nil
}

// bestPermutation tries every member order, enumerated lexicographically
// over declaration indices, and keeps the first order with the least waste.
func bestPermutation(members []types.Layouts) (types.LayoutInfo, []int, error) {
	order := declOrder(len(members))
	best, err := place(members, order, types.PolicyOptimized)
	if err != nil {
		return types.LayoutInfo{}, nil, err
	}
	bestOrder := slices.Clone(order)

	for nextPermutation(order) {
		if best.Wasted == 0 {
			break
		}
		got, err := place(members, order, types.PolicyOptimized)
		if err != nil {
			return types.LayoutInfo{}, nil, err
		}
		if got.Wasted < best.Wasted {
			best = got
			copy(bestOrder, order)
		}
	}
	return best, bestOrder, nil
}

func declOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

// nextPermutation advances p to its lexicographic successor and reports
// whether one existed.
func nextPermutation(p []int) bool {
	i := len(p) - 2
	for i >= 0 && p[i] >= p[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	j := len(p) - 1
	for p[j] <= p[i] {
		j--
	}
	p[i], p[j] = p[j], p[i]
	slices.Reverse(p[i+1:])
	return true
}
