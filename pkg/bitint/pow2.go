/*
Package bitint provides the power-of-two helpers used to size FFT buffers.

All functions are allocation free and O(1), so they are safe to call from the
analysis hot path as well as at configuration time.

Usage:

	fftSize := bitint.NextPowerOfTwo(200) // 256
	ok := bitint.IsPowerOfTwo(fftSize)    // true
	stages := bitint.Log2(fftSize)        // 8

----------------------------------------------------------------------

NextPowerOfTwo subtracts one before taking the bit length so that exact
powers of two are preserved:

	size = 8, size-1 = 7 (0111), bits.Len(7) = 3, 1<<3 = 8
	size = 9, size-1 = 8 (1000), bits.Len(8) = 4, 1<<4 = 16
*/
package bitint

import "math/bits"

// NextPowerOfTwo returns the smallest power of two >= size.
// Non-positive sizes return 1.
//
//	Input  Output
//	4      4
//	5      8
//	200    256
//	0      1
func NextPowerOfTwo(size int) int {
	if size <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(size-1))
}

// IsPowerOfTwo reports whether n is a positive power of two.
// Powers of two have exactly one bit set, so n&(n-1) clears it to zero.
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}

// Log2 returns the base-2 logarithm of a power of two, i.e. the number of
// butterfly stages an FFT of that length needs. For other inputs it returns
// floor(log2(n)); non-positive inputs return 0.
func Log2(n int) int {
	if n <= 0 {
		return 0
	}
	return bits.Len(uint(n)) - 1
}
