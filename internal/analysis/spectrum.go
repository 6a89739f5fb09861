// SPDX-License-Identifier: MIT
package analysis

import "micfeatures/internal/fft"

// spectrumBuilder turns the FFT window into a power spectrum. It owns the
// complex scratch buffer and the output spectrum so that build never
// allocates.
type spectrumBuilder struct {
	fftSize  int
	buffer   []fft.Complex
	spectrum []float32
	scale    float32 // 1 / (fftSize/2)
}

func newSpectrumBuilder(fftSize int) *spectrumBuilder {
	return &spectrumBuilder{
		fftSize:  fftSize,
		buffer:   make([]fft.Complex, fftSize),
		spectrum: make([]float32, fftSize/2),
		scale:    1 / (float32(fftSize) / 2),
	}
}

// build runs a forward FFT over window (rectangular, no taper) and returns
// (re² + im²) / (fftSize/2) for the first fftSize/2 bins. The returned slice
// is owned by the builder and overwritten on the next call.
func (b *spectrumBuilder) build(window []float32) []float32 {
	for i, s := range window {
		b.buffer[i] = fft.Complex{Re: s}
	}

	fft.Transform(b.buffer, false)

	for i := range b.spectrum {
		b.spectrum[i] = b.buffer[i].Power() * b.scale
	}
	return b.spectrum
}
