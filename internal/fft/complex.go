// SPDX-License-Identifier: MIT
package fft

// Complex is a single-precision complex number. It carries only the
// operations the butterfly needs, and is laid out as two float32 fields so a
// buffer of them stays compact and cache friendly.
type Complex struct {
	Re float32
	Im float32
}

// Add returns a + b.
func (a Complex) Add(b Complex) Complex {
	return Complex{a.Re + b.Re, a.Im + b.Im}
}

// Sub returns a - b.
func (a Complex) Sub(b Complex) Complex {
	return Complex{a.Re - b.Re, a.Im - b.Im}
}

// Mul returns a * b.
func (a Complex) Mul(b Complex) Complex {
	return Complex{
		a.Re*b.Re - a.Im*b.Im,
		a.Re*b.Im + a.Im*b.Re,
	}
}

// Power returns |a|², the squared magnitude.
func (a Complex) Power() float32 {
	return a.Re*a.Re + a.Im*a.Im
}

// Complex128 converts to the builtin type, mainly for comparisons against
// reference implementations.
func (a Complex) Complex128() complex128 {
	return complex(float64(a.Re), float64(a.Im))
}
