package layout

import "math/bits"

func addU64(a, b uint64) (uint64, bool) {
	sum, carry := bits.Add64(a, b, 0)
	return sum, carry == 0
}

// padTo returns the number of bytes needed to move offset up to the next
// multiple of align. Alignments of 0 and 1 never need padding.
func padTo(offset, align uint64) uint64 {
	if align <= 1 {
		return 0
	}
	r := offset % align
	if r == 0 {
		return 0
	}
	return align - r
}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// lcm returns the least common multiple of a and b, and false on overflow.
func lcm(a, b uint64) (uint64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	hi, lo := bits.Mul64(a/gcd(a, b), b)
	return lo, hi == 0
}
