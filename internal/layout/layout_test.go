package layout

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/typelayout/pkg/types"
)

var (
	boolT   = Atomic(1, 2)
	charT   = Atomic(1, 1)
	shortT  = Atomic(2, 2)
	intT    = Atomic(4, 4)
	doubleT = Atomic(8, 8)
)

func info(size, align, wasted uint64) types.LayoutInfo {
	return types.LayoutInfo{Size: size, Alignment: align, Wasted: wasted}
}

func TestAtomicLayoutsAreIdentical(t *testing.T) {
	l := Atomic(3, 2)
	assert.Equal(t, info(3, 2, 0), l.Unpacked)
	assert.Equal(t, l.Unpacked, l.Packed)
	assert.Equal(t, l.Unpacked, l.Optimized)
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name      string
		members   []types.Layouts
		unpacked  types.LayoutInfo
		packed    types.LayoutInfo
		optimized types.LayoutInfo
		order     []int
	}{
		{
			name:      "int then bool is already optimal",
			members:   []types.Layouts{intT, boolT},
			unpacked:  info(5, 4, 0),
			packed:    info(5, 4, 0),
			optimized: info(5, 4, 0),
			order:     []int{0, 1},
		},
		{
			name:      "bool then int pads before int",
			members:   []types.Layouts{boolT, intT},
			unpacked:  info(8, 2, 3),
			packed:    info(5, 2, 0),
			optimized: info(5, 4, 0),
			order:     []int{1, 0},
		},
		{
			name:      "single member",
			members:   []types.Layouts{doubleT},
			unpacked:  info(8, 8, 0),
			packed:    info(8, 8, 0),
			optimized: info(8, 8, 0),
			order:     []int{0},
		},
		{
			name:      "int bool short reorders short before bool",
			members:   []types.Layouts{intT, boolT, shortT},
			unpacked:  info(8, 4, 1),
			packed:    info(7, 4, 0),
			optimized: info(7, 4, 0),
			order:     []int{0, 2, 1},
		},
		{
			name:      "no trailing padding after last member",
			members:   []types.Layouts{doubleT, charT},
			unpacked:  info(9, 8, 0),
			packed:    info(9, 8, 0),
			optimized: info(9, 8, 0),
			order:     []int{0, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Aggregate(tt.members, types.PackedFirstMember)
			require.NoError(t, err)
			assert.Equal(t, tt.unpacked, got.Unpacked, "unpacked")
			assert.Equal(t, tt.packed, got.Packed, "packed")
			assert.Equal(t, tt.optimized, got.Optimized, "optimized")
			assert.Equal(t, tt.order, got.OptimizedOrder, "order")
		})
	}
}

func TestAggregateAlignmentIsFirstMember(t *testing.T) {
	got, err := Aggregate([]types.Layouts{charT, doubleT}, types.PackedFirstMember)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.Unpacked.Alignment)
	assert.Equal(t, uint64(1), got.Packed.Alignment)
	// The optimized order puts double first, so its alignment is reported.
	assert.Equal(t, uint64(8), got.Optimized.Alignment)
}

func TestAggregatePackedUnitPolicy(t *testing.T) {
	got, err := Aggregate([]types.Layouts{doubleT, intT}, types.PackedUnit)
	require.NoError(t, err)
	assert.Equal(t, info(12, 1, 0), got.Packed)
	assert.Equal(t, uint64(8), got.Unpacked.Alignment)
}

func TestAggregateTieBreakKeepsFirstPermutation(t *testing.T) {
	// [z, x, y] and [z, y, x] both waste nothing; the lexicographically
	// smaller index order wins.
	x, y, z := charT, charT, intT
	got, err := Aggregate([]types.Layouts{x, y, z}, types.PackedFirstMember)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0, 1}, got.OptimizedOrder)
	assert.Equal(t, info(6, 4, 0), got.Optimized)
	assert.Equal(t, info(8, 1, 2), got.Unpacked)
}

func TestAggregateHeuristicAboveSixMembers(t *testing.T) {
	members := []types.Layouts{charT, intT, charT, doubleT, shortT, intT, charT}
	got, err := Aggregate(members, types.PackedFirstMember)
	require.NoError(t, err)
	assert.Equal(t, info(33, 1, 12), got.Unpacked)
	assert.Equal(t, info(21, 8, 0), got.Optimized)
	assert.Equal(t, []int{3, 1, 5, 4, 0, 2, 6}, got.OptimizedOrder)
}

func TestAggregateHeuristicFallsBackToUnpacked(t *testing.T) {
	wide := Atomic(1, 8)
	filler := Atomic(7, 1)
	members := []types.Layouts{wide, filler, wide, filler, wide, filler, wide}
	got, err := Aggregate(members, types.PackedFirstMember)
	require.NoError(t, err)
	assert.Equal(t, info(25, 8, 0), got.Unpacked)
	assert.Equal(t, got.Unpacked, got.Optimized)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, got.OptimizedOrder)
}

func TestAggregateNested(t *testing.T) {
	inner, err := Aggregate([]types.Layouts{boolT, intT}, types.PackedFirstMember)
	require.NoError(t, err)

	outer, err := Aggregate([]types.Layouts{charT, inner.Layouts}, types.PackedFirstMember)
	require.NoError(t, err)
	// Unpacked: char@0, inner (align 2) at 2, size 8.
	assert.Equal(t, info(10, 1, 1), outer.Unpacked)
	// Packed consumes the inner packed size.
	assert.Equal(t, info(6, 1, 0), outer.Packed)
	// Optimized consumes the inner optimized layout (5, 4): inner first, char after.
	assert.Equal(t, info(6, 4, 0), outer.Optimized)
}

func TestAggregateErrors(t *testing.T) {
	_, err := Aggregate(nil, types.PackedFirstMember)
	assert.ErrorIs(t, err, types.ErrNoMembers)

	huge := Atomic(math.MaxUint64-2, 1)
	_, err = Aggregate([]types.Layouts{huge, intT}, types.PackedFirstMember)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrLayoutOverflow)
	var le *LayoutError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, LayoutErrSizeOverflow, le.Kind)
}

func TestVariant(t *testing.T) {
	got, err := Variant([]types.Layouts{intT, doubleT}, types.PackedFirstMember)
	require.NoError(t, err)
	assert.Equal(t, info(8, 8, 0), got.Unpacked)
	assert.Equal(t, info(8, 8, 0), got.Packed)
	assert.Equal(t, info(8, 8, 0), got.Optimized)
}

func TestVariantUsesLeastCommonMultiple(t *testing.T) {
	odd := Atomic(3, 3)
	got, err := Variant([]types.Layouts{odd, intT}, types.PackedFirstMember)
	require.NoError(t, err)
	assert.Equal(t, info(4, 12, 0), got.Unpacked)
}

func TestVariantPerPolicyMembers(t *testing.T) {
	s, err := Aggregate([]types.Layouts{boolT, intT}, types.PackedFirstMember)
	require.NoError(t, err)

	got, err := Variant([]types.Layouts{s.Layouts, charT}, types.PackedFirstMember)
	require.NoError(t, err)
	assert.Equal(t, info(8, 2, 0), got.Unpacked)
	assert.Equal(t, info(5, 2, 0), got.Packed)
	assert.Equal(t, info(5, 4, 0), got.Optimized)

	unit, err := Variant([]types.Layouts{s.Layouts, charT}, types.PackedUnit)
	require.NoError(t, err)
	assert.Equal(t, info(5, 1, 0), unit.Packed)
}

func TestVariantErrors(t *testing.T) {
	_, err := Variant(nil, types.PackedFirstMember)
	assert.ErrorIs(t, err, types.ErrNoMembers)

	a := Atomic(1, 1<<40+1)
	b := Atomic(1, 1<<40+3)
	_, err = Variant([]types.Layouts{a, b}, types.PackedFirstMember)
	assert.ErrorIs(t, err, types.ErrLayoutOverflow)
}

func TestNextPermutationIsLexicographic(t *testing.T) {
	p := []int{0, 1, 2}
	var seen [][]int
	for {
		seen = append(seen, append([]int(nil), p...))
		if !nextPermutation(p) {
			break
		}
	}
	assert.Equal(t, [][]int{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}, seen)
}

func randomMembers(rng *rand.Rand, n int) []types.Layouts {
	aligns := []uint64{1, 2, 4, 8, 16}
	out := make([]types.Layouts, n)
	for i := range out {
		out[i] = Atomic(uint64(rng.Intn(24)+1), aligns[rng.Intn(len(aligns))])
	}
	return out
}

func sumSizes(members []types.Layouts, p types.Policy) uint64 {
	var sum uint64
	for _, m := range members {
		l, _ := m.Get(p)
		sum += l.Size
	}
	return sum
}

// TestFlatAggregateProperties checks flat aggregates of atomic members. For them
// the optimized search sees the same member layouts as the unpacked one, so
// optimized waste never exceeds unpacked waste.
func TestFlatAggregateProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for n := 1; n <= 9; n++ {
		for trial := 0; trial < 40; trial++ {
			members := randomMembers(rng, n)
			got, err := Aggregate(members, types.PackedFirstMember)
			require.NoError(t, err)

			for _, p := range types.Policies {
				l, _ := got.Get(p)
				assert.Equal(t, sumSizes(members, p)+l.Wasted, l.Size, "n=%d policy=%s", n, p)
				assert.GreaterOrEqual(t, l.Alignment, uint64(1))
			}
			assert.Zero(t, got.Packed.Wasted)
			assert.LessOrEqual(t, got.Optimized.Wasted, got.Unpacked.Wasted, "flat n=%d", n)

			if n > MaxExhaustiveMembers {
				continue
			}
			perm := declOrder(n)
			for {
				other, err := place(members, perm, types.PolicyOptimized)
				require.NoError(t, err)
				assert.LessOrEqual(t, got.Optimized.Wasted, other.Wasted, "n=%d perm=%v", n, perm)
				if !nextPermutation(perm) {
					break
				}
			}
		}
	}
}

// Nested members are placed by their own optimized layouts, which can carry a
// larger alignment than their unpacked ones. The optimized waste of the outer
// aggregate may then exceed its unpacked waste.
func TestNestedAggregateOptimizedUsesMemberOptimizedLayouts(t *testing.T) {
	inner, err := Aggregate([]types.Layouts{Atomic(1, 1), Atomic(4, 4)}, types.PackedFirstMember)
	require.NoError(t, err)
	assert.Equal(t, types.LayoutInfo{Size: 8, Alignment: 1, Wasted: 3}, inner.Unpacked)
	assert.Equal(t, types.LayoutInfo{Size: 5, Alignment: 4}, inner.Optimized)

	outer, err := Aggregate([]types.Layouts{inner.Layouts, inner.Layouts}, types.PackedFirstMember)
	require.NoError(t, err)
	assert.Equal(t, types.LayoutInfo{Size: 16, Alignment: 1}, outer.Unpacked)
	assert.Equal(t, types.LayoutInfo{Size: 10, Alignment: 1}, outer.Packed)
	assert.Equal(t, types.LayoutInfo{Size: 13, Alignment: 4, Wasted: 3}, outer.Optimized)
	assert.Equal(t, []int{0, 1}, outer.OptimizedOrder)
	assert.Greater(t, outer.Optimized.Wasted, outer.Unpacked.Wasted)
}

func TestVariantProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 100; trial++ {
		members := randomMembers(rng, rng.Intn(5)+1)
		got, err := Variant(members, types.PackedFirstMember)
		require.NoError(t, err)
		for _, p := range types.Policies {
			l, _ := got.Get(p)
			var maxSize uint64
			for _, m := range members {
				ml, _ := m.Get(p)
				assert.GreaterOrEqual(t, l.Size, ml.Size)
				assert.Zero(t, l.Alignment%ml.Alignment, "policy %s", p)
				maxSize = max(maxSize, ml.Size)
			}
			assert.Equal(t, maxSize, l.Size)
			assert.Zero(t, l.Wasted)
		}
	}
}
