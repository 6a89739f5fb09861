// SPDX-License-Identifier: MIT
package fft

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	testFFTSize    = 1024
	testSampleRate = 44100
)

func randomBuffer(n int, seed uint64) []Complex {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	buf := make([]Complex, n)
	for i := range buf {
		buf[i] = Complex{float32(rng.Float64()*2 - 1), float32(rng.Float64()*2 - 1)}
	}
	return buf
}

func realSine(n int, cycles float64, amplitude float64) []Complex {
	buf := make([]Complex, n)
	for i := range buf {
		buf[i] = Complex{Re: float32(amplitude * math.Sin(2*math.Pi*cycles*float64(i)/float64(n)))}
	}
	return buf
}

func argmaxPower(buf []Complex) int {
	best, bestPower := 0, float32(-1)
	for i, c := range buf {
		if p := c.Power(); p > bestPower {
			best, bestPower = i, p
		}
	}
	return best
}

func TestComplexArithmetic(t *testing.T) {
	a := Complex{1, 2}
	b := Complex{3, -4}

	tests := []struct {
		name     string
		got      Complex
		expected Complex
	}{
		{"Add", a.Add(b), Complex{4, -2}},
		{"Sub", a.Sub(b), Complex{-2, 6}},
		{"Mul", a.Mul(b), Complex{11, 2}}, // (1+2i)(3-4i) = 3 - 4i + 6i + 8
		{"Mul identity", a.Mul(Complex{1, 0}), a},
		{"Mul i", a.Mul(Complex{0, 1}), Complex{-2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %+v, want %+v", tt.got, tt.expected)
			}
		})
	}

	if p := b.Power(); p != 25 {
		t.Errorf("Power() = %v, want 25", p)
	}
}

func TestTransformRoundTrip(t *testing.T) {
	for _, n := range []int{1, 2, 4, 8, 64, 256, 1024, 4096} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			original := randomBuffer(n, uint64(n))
			buf := make([]Complex, n)
			copy(buf, original)

			Transform(buf, false)
			Transform(buf, true)

			for i := range buf {
				dr := math.Abs(float64(buf[i].Re - original[i].Re))
				di := math.Abs(float64(buf[i].Im - original[i].Im))
				if dr > 1e-3 || di > 1e-3 {
					t.Fatalf("index %d: got %+v, want %+v", i, buf[i], original[i])
				}
			}
		})
	}
}

func TestTransformMatchesReference(t *testing.T) {
	for _, n := range []int{2, 16, 256, 1024} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			input := randomBuffer(n, 42+uint64(n))

			seq := make([]complex128, n)
			for i, c := range input {
				seq[i] = c.Complex128()
			}
			want := fourier.NewCmplxFFT(n).Coefficients(nil, seq)

			got := make([]Complex, n)
			copy(got, input)
			Transform(got, false)

			// Relative to the transform's overall scale.
			tolerance := 1e-5 * float64(n)
			for k := range got {
				if d := cmplx.Abs(got[k].Complex128() - want[k]); d > tolerance {
					t.Fatalf("bin %d: got %v, want %v (|diff| %.3g > %.3g)",
						k, got[k].Complex128(), want[k], d, tolerance)
				}
			}
		})
	}
}

func TestTransformInverseMatchesReference(t *testing.T) {
	const n = 256
	input := randomBuffer(n, 7)

	coeff := make([]complex128, n)
	for i, c := range input {
		coeff[i] = c.Complex128()
	}
	want := fourier.NewCmplxFFT(n).Sequence(nil, coeff)

	got := make([]Complex, n)
	copy(got, input)
	Transform(got, true)

	for i := range got {
		// gonum's Sequence is unnormalized.
		if d := cmplx.Abs(got[i].Complex128()*n - want[i]); d > 1e-2 {
			t.Fatalf("index %d: got %v, want %v", i, got[i].Complex128()*n, want[i])
		}
	}
}

func TestTransformSinePeak(t *testing.T) {
	const n = 256

	for _, k := range []int{1, 5, 17, 64, 127} {
		t.Run(fmt.Sprintf("bin=%d", k), func(t *testing.T) {
			buf := realSine(n, float64(k), 0.5)
			Transform(buf, false)

			if peak := argmaxPower(buf[:n/2]); peak != k {
				t.Errorf("dominant bin = %d, want %d", peak, k)
			}
		})
	}

	// Frequencies between bins leak, but stay within one bin.
	for _, cycles := range []float64{5.3, 5.8, 40.5} {
		t.Run(fmt.Sprintf("cycles=%.1f", cycles), func(t *testing.T) {
			buf := realSine(n, cycles, 0.5)
			Transform(buf, false)

			peak := argmaxPower(buf[:n/2])
			if math.Abs(float64(peak)-cycles) > 1 {
				t.Errorf("dominant bin = %d, want within one bin of %.1f", peak, cycles)
			}
		})
	}
}

func TestTransformImpulse(t *testing.T) {
	const n = 64
	buf := make([]Complex, n)
	buf[0] = Complex{1, 0}

	Transform(buf, false)

	for k, c := range buf {
		if math.Abs(float64(c.Re)-1) > 1e-6 || math.Abs(float64(c.Im)) > 1e-6 {
			t.Fatalf("bin %d: got %+v, want {1 0}", k, c)
		}
	}
}

func TestTransformPanicsOnNonPowerOfTwo(t *testing.T) {
	for _, n := range []int{0, 3, 200} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("expected panic for length %d", n)
				}
			}()
			Transform(make([]Complex, n), false)
		})
	}
}

func TestTransformHotPath(t *testing.T) {
	buf := randomBuffer(testFFTSize, 1)

	allocs := testing.AllocsPerRun(100, func() {
		Transform(buf, false)
		Transform(buf, true)
	})

	if allocs > 0 {
		t.Errorf("Expected zero allocations in Transform hot path, got %.1f", allocs)
	}
}

func BenchmarkTransform(b *testing.B) {
	buf := make([]Complex, testFFTSize)
	for i := range buf {
		tm := float64(i) / testSampleRate
		signal := math.Sin(2*math.Pi*440*tm)*0.5 +
			math.Sin(2*math.Pi*880*tm)*0.3 +
			math.Sin(2*math.Pi*1320*tm)*0.2
		buf[i] = Complex{Re: float32(signal)}
	}

	b.ReportAllocs()

	for b.Loop() {
		Transform(buf, false)
		Transform(buf, true)
	}
}
