// SPDX-License-Identifier: MIT
package analysis

// CaptureSource is the narrow view of a continuously written capture ring
// that the analyzer consumes. Platform adapters (PortAudio, synthetic
// playback) implement it; the analyzer never depends on a concrete device.
type CaptureSource interface {
	// WritePosition returns the ring index the next sample will be written to.
	// A negative value means the source is not ready and the tick is skipped.
	WritePosition() int
	// Len returns the total capacity of the ring in samples.
	Len() int
	// ReadSlice fills dst with consecutive samples starting at ring index
	// start, wrapping at the ring boundary.
	ReadSlice(dst []float32, start int)
}

// FeatureProvider exposes the most recent feature snapshot. The Analyzer
// implements it for single-threaded hosts; runner.Runner implements it for
// concurrent readers.
type FeatureProvider interface {
	CurrentFeatures() FeatureSnapshot
}

// FeatureSnapshot is the externally observable output of one tick. Every
// channel is in [0,1].
type FeatureSnapshot struct {
	NormalizedRMS  float32 `json:"normalizedRms"`
	NormalizedPeak float32 `json:"normalizedPeak"`
	LowBandEnergy  float32 `json:"lowBandEnergy"`
	MidBandEnergy  float32 `json:"midBandEnergy"`
	HighBandEnergy float32 `json:"highBandEnergy"`
}

// Values returns the channels in wire order: rms, peak, low, mid, high.
func (s FeatureSnapshot) Values() [NumChannels]float32 {
	return [NumChannels]float32{
		s.NormalizedRMS,
		s.NormalizedPeak,
		s.LowBandEnergy,
		s.MidBandEnergy,
		s.HighBandEnergy,
	}
}
