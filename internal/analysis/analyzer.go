// SPDX-License-Identifier: MIT

/*
Package analysis implements the real-time feature extraction pipeline: it
turns a continuously written capture ring into five normalized, smoothed
features (RMS, peak and low/mid/high spectral energy share).

Per tick:

	capture ring -> RMS + FFT windows -> FFT -> power spectrum
	             -> raw RMS/peak/band sums -> dB normalization (RMS, peak)
	             -> one-pole smoothing (all channels) -> FeatureSnapshot

Thread Safety:
  - An Analyzer is single-threaded. Configure, Tick and CurrentFeatures must
    be serialized by the caller; no locks are taken.
  - All buffers are allocated in Configure; Tick does not allocate.
*/
package analysis

import (
	"errors"
	"fmt"
	"math"

	applog "micfeatures/internal/log"
	"micfeatures/pkg/bitint"
)

// MaxFFTSize bounds the FFT size a configuration may request.
const MaxFFTSize = 1 << 20

// Configuration errors returned (wrapped) by Configure.
var (
	ErrInvalidSampleRate       = errors.New("sample rate must be positive")
	ErrInvalidFFTSize          = errors.New("fft size hint must be positive")
	ErrFFTSizeTooLarge         = errors.New("fft size exceeds maximum")
	ErrInvalidRMSWindow        = errors.New("rms window must cover at least one sample")
	ErrInvalidSmoothing        = errors.New("smoothing coefficient must be in (0, 1)")
	ErrInvalidSilenceThreshold = errors.New("silence threshold must be a non-negative number")
)

// Params configures an Analyzer.
type Params struct {
	SampleRate       float64 // Capture sample rate in Hz.
	FFTSizeHint      int     // Requested FFT size, rounded up to a power of two.
	RMSWindowSeconds float64 // Length of the loudness window in seconds.
	SilenceThreshold float32 // Total band energy below which bands fade to zero.
	Smoothing        float32 // One-pole coefficient in (0,1); smaller is smoother.
}

// Analyzer is the feature extraction pipeline. The zero value is an
// unconfigured analyzer whose Tick is a no-op.
type Analyzer struct {
	source CaptureSource

	params     Params
	fftSize    int
	configured bool

	windows  captureWindows
	spectrum *spectrumBuilder
	bounds   BandBoundaries
	filter   *SmoothingFilter

	features FeatureSnapshot
}

// Compile-time check for interface implementation.
var _ FeatureProvider = (*Analyzer)(nil)

// NewAnalyzer creates an analyzer reading from source and configures it.
func NewAnalyzer(source CaptureSource, params Params) (*Analyzer, error) {
	if source == nil {
		return nil, errors.New("analysis: capture source cannot be nil")
	}
	a := &Analyzer{source: source}
	if err := a.Configure(params); err != nil {
		return nil, err
	}
	return a, nil
}

// SetSource swaps the capture source. Buffers and smoothing history are kept.
func (a *Analyzer) SetSource(source CaptureSource) {
	a.source = source
}

// Configure validates params, rounds the FFT size up to the next power of two
// and reallocates every buffer, resetting smoothing history and the current
// snapshot. On error the previous configuration stays in effect.
func (a *Analyzer) Configure(params Params) error {
	fftSize, rmsLength, err := validate(params)
	if err != nil {
		return fmt.Errorf("analysis: invalid configuration: %w", err)
	}

	a.params = params
	a.fftSize = fftSize
	a.windows = newCaptureWindows(rmsLength, fftSize)
	a.spectrum = newSpectrumBuilder(fftSize)
	a.bounds = NewBandBoundaries(params.SampleRate, fftSize)
	a.filter = NewSmoothingFilter(params.Smoothing)
	a.features = FeatureSnapshot{}
	a.configured = true

	applog.Infof("Analysis: Configured analyzer (SampleRate: %.1f Hz, FFT: %d, RMS window: %d samples, Bands: low<%d mid<%d, Smoothing: %.2f)",
		params.SampleRate, fftSize, rmsLength, a.bounds.LowBin, a.bounds.MidBin, params.Smoothing)
	return nil
}

// ValidateParams reports whether Configure would accept p.
func ValidateParams(p Params) error {
	if _, _, err := validate(p); err != nil {
		return fmt.Errorf("analysis: invalid configuration: %w", err)
	}
	return nil
}

func validate(p Params) (fftSize, rmsLength int, err error) {
	if !(p.SampleRate > 0) || math.IsInf(p.SampleRate, 0) {
		return 0, 0, fmt.Errorf("%w, got %v", ErrInvalidSampleRate, p.SampleRate)
	}
	if p.FFTSizeHint <= 0 {
		return 0, 0, fmt.Errorf("%w, got %d", ErrInvalidFFTSize, p.FFTSizeHint)
	}
	if p.FFTSizeHint > MaxFFTSize {
		return 0, 0, fmt.Errorf("%w (%d), got %d", ErrFFTSizeTooLarge, MaxFFTSize, p.FFTSizeHint)
	}
	// An FFT of one point has no spectrum to speak of.
	fftSize = max(2, bitint.NextPowerOfTwo(p.FFTSizeHint))

	samples := math.Round(p.RMSWindowSeconds * p.SampleRate)
	if !(samples >= 1) || samples > math.MaxInt32 {
		return 0, 0, fmt.Errorf("%w, got %v seconds", ErrInvalidRMSWindow, p.RMSWindowSeconds)
	}
	if !(p.Smoothing > 0 && p.Smoothing < 1) {
		return 0, 0, fmt.Errorf("%w, got %v", ErrInvalidSmoothing, p.Smoothing)
	}
	if !(p.SilenceThreshold >= 0) {
		return 0, 0, fmt.Errorf("%w, got %v", ErrInvalidSilenceThreshold, p.SilenceThreshold)
	}
	return fftSize, int(samples), nil
}

// Tick advances the pipeline by one frame. When the analyzer is unconfigured
// or the capture source is not ready, nothing changes: the previous snapshot
// and the smoothing history are left as they were.
func (a *Analyzer) Tick() {
	if !a.configured || a.source == nil {
		return
	}
	if !a.windows.refresh(a.source) {
		applog.Debugf("Analysis: Capture source not ready, skipping tick")
		return
	}

	rms := NormalizeLoudness(RMS(a.windows.rms))
	peak := NormalizeLoudness(Peak(a.windows.rms))
	a.features.NormalizedRMS = a.filter.Apply(ChannelRMS, rms)
	a.features.NormalizedPeak = a.filter.Apply(ChannelPeak, peak)

	energies := SumBands(a.spectrum.build(a.windows.fft), a.bounds)

	var low, mid, high float32
	if energies.Total() >= a.params.SilenceThreshold && energies.Total() > 0 {
		low, mid, high = energies.Ratios()
	}
	a.features.LowBandEnergy = a.filter.Apply(ChannelLow, low)
	a.features.MidBandEnergy = a.filter.Apply(ChannelMid, mid)
	a.features.HighBandEnergy = a.filter.Apply(ChannelHigh, high)
}

// CurrentFeatures returns the snapshot produced by the most recent tick.
func (a *Analyzer) CurrentFeatures() FeatureSnapshot {
	return a.features
}

// FFTSize returns the configured (power of two) FFT size.
func (a *Analyzer) FFTSize() int {
	return a.fftSize
}

// SpectrumLength returns the number of magnitude bins, fftSize/2.
func (a *Analyzer) SpectrumLength() int {
	return a.fftSize / 2
}

// RMSWindowLength returns the loudness window length in samples.
func (a *Analyzer) RMSWindowLength() int {
	return len(a.windows.rms)
}

// BandBoundaries returns the current low/mid and mid/high split bins.
func (a *Analyzer) BandBoundaries() BandBoundaries {
	return a.bounds
}

// FrequencyForBin returns the frequency in Hz at the start of bin i.
func (a *Analyzer) FrequencyForBin(i int) float64 {
	if a.fftSize == 0 || i < 0 || i >= a.SpectrumLength() {
		return 0
	}
	return float64(i) * a.params.SampleRate / float64(a.fftSize)
}

// Params returns the parameters of the active configuration.
func (a *Analyzer) Params() Params {
	return a.params
}

// Configured reports whether Configure has succeeded at least once.
func (a *Analyzer) Configured() bool {
	return a.configured
}

// SmoothingState returns a copy of the smoothing history.
func (a *Analyzer) SmoothingState() SmoothingState {
	if a.filter == nil {
		return SmoothingState{}
	}
	return a.filter.State()
}
