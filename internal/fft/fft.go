// SPDX-License-Identifier: MIT

// Package fft implements an in-place iterative radix-2 Cooley-Tukey transform
// over single-precision complex buffers.
//
// The transform never allocates: the bit-reversal permutation is done with a
// running reversed counter and the twiddle factors are accumulated
// multiplicatively inside each block instead of calling sin/cos per element.
package fft

import (
	"fmt"
	"math"

	"micfeatures/pkg/bitint"
)

// Transform replaces buf with its discrete Fourier transform in place.
//
// The forward transform uses the e^{-2πi/L} twiddle and is unnormalized. The
// inverse uses e^{+2πi/L} and divides every element by len(buf), so
// Transform(Transform(x, false), true) reconstructs x.
//
// len(buf) must be a power of two. Anything else is a programming error and
// panics; callers round sizes up with bitint.NextPowerOfTwo when configuring.
func Transform(buf []Complex, inverse bool) {
	n := len(buf)
	if !bitint.IsPowerOfTwo(n) {
		panic(fmt.Sprintf("fft: buffer length %d is not a power of two", n))
	}
	if n == 1 {
		return
	}

	// Bit-reversal permutation.
	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j ^= bit
		if i < j {
			buf[i], buf[j] = buf[j], buf[i]
		}
	}

	sign := -1.0
	if inverse {
		sign = 1.0
	}

	// Butterfly stages.
	for length := 2; length <= n; length <<= 1 {
		half := length >> 1
		angle := sign * 2 * math.Pi / float64(length)
		wlen := Complex{float32(math.Cos(angle)), float32(math.Sin(angle))}

		for start := 0; start < n; start += length {
			w := Complex{1, 0}
			for k := range half {
				u := buf[start+k]
				v := buf[start+k+half].Mul(w)
				buf[start+k] = u.Add(v)
				buf[start+k+half] = u.Sub(v)
				w = w.Mul(wlen)
			}
		}
	}

	if inverse {
		scale := 1 / float32(n)
		for i := range buf {
			buf[i].Re *= scale
			buf[i].Im *= scale
		}
	}
}
