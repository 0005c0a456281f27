// Package bitops provides the bit-level math used to derive cache
// geometry constants from byte sizes.
package bitops

import "math/bits"

// IsPowerOfTwo reports whether n has exactly one set bit. Zero is not a
// power of two, so zero-sized geometry fails the builder's checks.
func IsPowerOfTwo(n uint64) bool {
	return n != 0 && n&(n-1) == 0
}

// FloorLog2 returns the position of the most significant set bit of n.
// It returns -1 when n is 0.
func FloorLog2(n uint64) int {
	if n == 0 {
		return -1
	}

	return bits.Len64(n) - 1
}

// CeilLog2 returns the smallest e such that 1<<e >= n.
func CeilLog2(n uint64) int {
	return FloorLog2(n-1) + 1
}
