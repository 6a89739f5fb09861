// SPDX-License-Identifier: MIT
package analysis

import (
	"math"
	"testing"

	"micfeatures/pkg/utils"
)

func TestSpectrumBuilderPeak(t *testing.T) {
	const size = 256
	b := newSpectrumBuilder(size)

	for _, bin := range []int{3, 20, 100} {
		window := make([]float32, size)
		for i := range window {
			window[i] = float32(math.Sin(2 * math.Pi * float64(bin*i) / size))
		}

		spectrum := b.build(window)
		if len(spectrum) != size/2 {
			t.Fatalf("len(spectrum) = %d, want %d", len(spectrum), size/2)
		}
		if got := utils.FindPeakBin(spectrum, 0, len(spectrum)-1); got != bin {
			t.Errorf("peak bin = %d, want %d", got, bin)
		}
		// |X[k]| = N/2 for a unit sine on bin k, so power/(N/2) = N/2.
		if !approx(spectrum[bin], size/2, 0.01) {
			t.Errorf("spectrum[%d] = %v, want %v", bin, spectrum[bin], size/2)
		}
	}
}

func TestSpectrumBuilderDC(t *testing.T) {
	b := newSpectrumBuilder(8)
	spectrum := b.build([]float32{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5})

	// X[0] = 4, power 16, scaled by 1/4.
	if !approx(spectrum[0], 4, 1e-5) {
		t.Errorf("spectrum[0] = %v, want 4", spectrum[0])
	}
	for i := 1; i < len(spectrum); i++ {
		if !approx(spectrum[i], 0, 1e-5) {
			t.Errorf("spectrum[%d] = %v, want 0", i, spectrum[i])
		}
	}
}

func TestSpectrumBuilderHotPath(t *testing.T) {
	b := newSpectrumBuilder(1024)
	window := utils.GenerateComplexWave(1024, 44100)

	allocs := testing.AllocsPerRun(100, func() {
		b.build(window)
	})

	if allocs > 0 {
		t.Errorf("Expected zero allocations in spectrum hot path, got %.1f", allocs)
	}
}
