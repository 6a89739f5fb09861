// SPDX-License-Identifier: MIT
package analysis

import "math"

// Band edges in Hz. Low is [0, 300), mid is [300, 4000), high is everything
// from 4000 up to Nyquist.
const (
	LowBandUpperHz = 300.0
	MidBandUpperHz = 4000.0
)

// BandBoundaries are the spectrum bin indices that split low/mid and mid/high.
// Both are clamped to [0, spectrumLength].
type BandBoundaries struct {
	LowBin int
	MidBin int
}

// NewBandBoundaries computes the band split points for a spectrum of
// fftSize/2 bins at the given sample rate.
func NewBandBoundaries(sampleRate float64, fftSize int) BandBoundaries {
	spectrumLength := fftSize / 2
	freqPerBin := sampleRate / float64(fftSize)
	return BandBoundaries{
		LowBin: clampBin(int(math.Floor(LowBandUpperHz/freqPerBin)), spectrumLength),
		MidBin: clampBin(int(math.Floor(MidBandUpperHz/freqPerBin)), spectrumLength),
	}
}

func clampBin(bin, spectrumLength int) int {
	return max(0, min(bin, spectrumLength))
}

// BandEnergies holds the summed spectrum power per band.
type BandEnergies struct {
	Low, Mid, High float32
}

// Total returns low + mid + high.
func (e BandEnergies) Total() float32 {
	return e.Low + e.Mid + e.High
}

// Ratios returns each band's share of the total energy. The caller must make
// sure the total is non-zero.
func (e BandEnergies) Ratios() (low, mid, high float32) {
	total := e.Total()
	return e.Low / total, e.Mid / total, e.High / total
}

// SumBands aggregates spectrum power into the three bands.
func SumBands(spectrum []float32, bounds BandBoundaries) BandEnergies {
	return BandEnergies{
		Low:  SumSpectrum(spectrum, 0, bounds.LowBin),
		Mid:  SumSpectrum(spectrum, bounds.LowBin, bounds.MidBin),
		High: SumSpectrum(spectrum, bounds.MidBin, len(spectrum)),
	}
}

// SumSpectrum returns the sum of spectrum[start:end], with end clamped to the
// spectrum length. An empty or inverted range sums to zero.
func SumSpectrum(spectrum []float32, start, end int) float32 {
	end = min(end, len(spectrum))
	start = max(start, 0)

	var sum float32
	for i := start; i < end; i++ {
		sum += spectrum[i]
	}
	return sum
}
