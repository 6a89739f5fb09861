// Package utils holds test signal generators, a synthetic capture source and
// a recording transport shared by the tests and the simulate command.
package utils

import "math"

// Waveform returns the sample at absolute index i for a given sample rate.
type Waveform func(i int, sampleRate float64) float32

// Sine returns a sine waveform of the given frequency and peak amplitude.
func Sine(frequency, amplitude float64) Waveform {
	return func(i int, sampleRate float64) float32 {
		t := float64(i) / sampleRate
		return float32(amplitude * math.Sin(2*math.Pi*frequency*t))
	}
}

// Complex returns a 440Hz fundamental with its second and third harmonics,
// scaled to the given peak amplitude.
func Complex(amplitude float64) Waveform {
	return func(i int, sampleRate float64) float32 {
		t := float64(i) / sampleRate
		signal := math.Sin(2*math.Pi*440*t)*0.5 +
			math.Sin(2*math.Pi*880*t)*0.3 +
			math.Sin(2*math.Pi*1320*t)*0.2
		return float32(signal * amplitude)
	}
}

// Silence returns an all-zero waveform.
func Silence() Waveform {
	return func(int, float64) float32 { return 0 }
}

// GenerateSineWave renders size samples of a sine at 0.9 full scale.
func GenerateSineWave(size int, sampleRate, frequency float64) []float32 {
	return render(Sine(frequency, 0.9), size, sampleRate)
}

// GenerateComplexWave renders size samples of the harmonic test signal at
// 0.9 full scale.
func GenerateComplexWave(size int, sampleRate float64) []float32 {
	return render(Complex(0.9), size, sampleRate)
}

func render(w Waveform, size int, sampleRate float64) []float32 {
	buffer := make([]float32, size)
	for i := range buffer {
		buffer[i] = w(i, sampleRate)
	}
	return buffer
}

// FindPeakBin returns the index of the largest value in
// magnitudes[startBin:endBin+1], clamping the range to the slice.
func FindPeakBin(magnitudes []float32, startBin, endBin int) int {
	if len(magnitudes) == 0 {
		return 0
	}

	if startBin < 0 {
		startBin = 0
	}

	if endBin >= len(magnitudes) {
		endBin = len(magnitudes) - 1
	}

	peakBin := startBin
	peakValue := magnitudes[startBin]

	for bin := startBin + 1; bin <= endBin; bin++ {
		if magnitudes[bin] > peakValue {
			peakValue = magnitudes[bin]
			peakBin = bin
		}
	}

	return peakBin
}
