// SPDX-License-Identifier: MIT
package analysis

// captureWindows holds the two trailing windows copied out of the capture
// ring every tick: a short one for loudness and an FFT-sized one for the
// spectrum. Their lengths are fixed at configuration time.
type captureWindows struct {
	rms []float32
	fft []float32
}

func newCaptureWindows(rmsLength, fftSize int) captureWindows {
	return captureWindows{
		rms: make([]float32, rmsLength),
		fft: make([]float32, fftSize),
	}
}

// refresh copies the latest samples from src into both windows. It returns
// false, leaving the windows untouched, when the source is not ready.
func (w *captureWindows) refresh(src CaptureSource) bool {
	writePos := src.WritePosition()
	ringLength := src.Len()
	if writePos < 0 || ringLength <= 0 {
		return false
	}

	src.ReadSlice(w.rms, trailingStart(writePos, len(w.rms), ringLength))
	src.ReadSlice(w.fft, trailingStart(writePos, len(w.fft), ringLength))
	return true
}

// trailingStart returns the ring index where a window of windowLength samples
// ending just before writePos begins. The result is always in
// [0, ringLength), even when the window is longer than the ring.
func trailingStart(writePos, windowLength, ringLength int) int {
	start := (writePos - windowLength + ringLength) % ringLength
	if start < 0 {
		start += ringLength
	}
	return start
}
