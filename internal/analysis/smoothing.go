// SPDX-License-Identifier: MIT
package analysis

import "fmt"

// Channel identifies one smoothed output of the analyzer.
type Channel int

// Output channels, in FeatureSnapshot order.
const (
	ChannelRMS Channel = iota
	ChannelPeak
	ChannelLow
	ChannelMid
	ChannelHigh

	NumChannels = 5
)

// String returns the channel name.
func (c Channel) String() string {
	switch c {
	case ChannelRMS:
		return "rms"
	case ChannelPeak:
		return "peak"
	case ChannelLow:
		return "low"
	case ChannelMid:
		return "mid"
	case ChannelHigh:
		return "high"
	default:
		return fmt.Sprintf("Channel(%d)", int(c))
	}
}

// SmoothingState is the last emitted value of every channel. Zero doubles as
// the "no history yet" sentinel.
type SmoothingState [NumChannels]float32

// SmoothingFilter is a one-pole low-pass applied independently per channel:
//
//	y[t] = lerp(y[t-1], x[t], alpha)
//
// A smaller alpha is smoother and slower. When a channel's previous value is
// exactly zero the input passes straight through, which avoids a ramp up from
// zero on the first reading. A channel that later decays to exactly zero is
// therefore bootstrapped again on its next update.
type SmoothingFilter struct {
	alpha float32
	state SmoothingState
}

// NewSmoothingFilter returns a filter with every channel at the sentinel.
func NewSmoothingFilter(alpha float32) *SmoothingFilter {
	return &SmoothingFilter{alpha: alpha}
}

// Apply filters value on channel ch, stores and returns the result.
func (f *SmoothingFilter) Apply(ch Channel, value float32) float32 {
	prev := f.state[ch]
	if prev == 0 {
		f.state[ch] = value
		return value
	}

	out := Lerp(prev, value, f.alpha)
	f.state[ch] = out
	return out
}

// State returns a copy of the per-channel history.
func (f *SmoothingFilter) State() SmoothingState {
	return f.state
}

// Alpha returns the smoothing coefficient.
func (f *SmoothingFilter) Alpha() float32 {
	return f.alpha
}

// Reset returns every channel to the sentinel.
func (f *SmoothingFilter) Reset() {
	f.state = SmoothingState{}
}
