// SPDX-License-Identifier: MIT
package analysis

import "math"

// Loudness is mapped from this decibel range onto 0..1.
const (
	MinLoudnessDB = -40.0
	MaxLoudnessDB = 0.0
)

// epsilon keeps log10 finite for silent input.
const epsilon float32 = math.SmallestNonzeroFloat32

// RMS returns the root-mean-square amplitude of window, or 0 for an empty
// window.
func RMS(window []float32) float32 {
	if len(window) == 0 {
		return 0
	}

	var sum float32
	for _, s := range window {
		sum += s * s
	}
	return float32(math.Sqrt(float64(sum / float32(len(window)))))
}

// Peak returns the largest absolute sample in window.
func Peak(window []float32) float32 {
	var peak float32
	for _, s := range window {
		peak = max(peak, float32(math.Abs(float64(s))))
	}
	return peak
}

// NormalizeLoudness maps a linear amplitude onto 0..1 through its level in
// dBFS: -40 dB and below is 0, 0 dB (full scale) and above is 1.
func NormalizeLoudness(amplitude float32) float32 {
	db := float32(20 * math.Log10(float64(amplitude+epsilon)))
	return Clamp01(InverseLerp(MinLoudnessDB, MaxLoudnessDB, db))
}

// InverseLerp returns where v lies between a and b, clamped to [0,1].
// A degenerate range returns 0.
func InverseLerp(a, b, v float32) float32 {
	if a == b {
		return 0
	}
	return Clamp01((v - a) / (b - a))
}

// Clamp01 clamps v to [0,1]. NaN maps to 0.
func Clamp01(v float32) float32 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Lerp interpolates from a to b by t, with t clamped to [0,1].
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*Clamp01(t)
}
