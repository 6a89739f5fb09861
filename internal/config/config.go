// SPDX-License-Identifier: MIT
package config

import (
	"time"

	"micfeatures/internal/analysis"
)

// Defaults and limits for the capture and analysis pipeline.
const (
	DefaultDeviceID        = MinDeviceID // System default input device
	DefaultSampleRate      = 44100       // CD-quality audio
	DefaultFramesPerBuffer = 512         // Balanced latency/performance
	DefaultLowLatency      = false       // Standard latency mode
	DefaultRingSeconds     = 10.0        // Capture history kept in the ring

	DefaultFFTSize          = 256
	DefaultRMSWindowSeconds = 0.1
	DefaultSilenceThreshold = 0.001
	DefaultSmoothing        = 0.3
	DefaultTickInterval     = 16 * time.Millisecond // ~60 Hz

	DefaultUDPTargetAddress = "127.0.0.1:9090"
	DefaultUDPSendInterval  = 33 * time.Millisecond // ~30 Hz
	DefaultWebSocketAddress = "127.0.0.1:8080"

	MinDeviceID     = -1     // -1 represents the system default device
	MinSampleRate   = 8000   // Minimum usable sample rate (Hz)
	MaxSampleRate   = 192000 // Maximum supported sample rate (Hz)
	MaxBufferFrames = 8192   // Maximum frames per buffer
)

// Config is the application configuration, loaded from YAML.
type Config struct {
	Debug     bool            `yaml:"debug"`             // Shorthand for log_level: debug.
	LogLevel  string          `yaml:"log_level"`         // debug, info, warn or error.
	Command   string          `yaml:"command,omitempty"` // One-off command to run instead of the pipeline.
	Audio     AudioConfig     `yaml:"audio"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Transport TransportConfig `yaml:"transport"`
}

// AudioConfig holds capture device settings.
type AudioConfig struct {
	InputDevice     int     `yaml:"input_device"`      // PortAudio device index (-1 for default).
	SampleRate      float64 `yaml:"sample_rate"`       // Sample rate in Hz.
	FramesPerBuffer int     `yaml:"frames_per_buffer"` // Frames per PortAudio callback.
	LowLatency      bool    `yaml:"low_latency"`       // Request the device's low input latency.
	RingSeconds     float64 `yaml:"ring_seconds"`      // Length of the capture ring in seconds.
}

// AnalysisConfig holds feature extraction settings.
type AnalysisConfig struct {
	FFTSize          int           `yaml:"fft_size"`           // Rounded up to a power of two.
	RMSWindowSeconds float64       `yaml:"rms_window_seconds"` // Loudness window length.
	SilenceThreshold float32       `yaml:"silence_threshold"`  // Total band energy treated as silence.
	Smoothing        float32       `yaml:"smoothing"`          // One-pole coefficient in (0,1).
	TickInterval     time.Duration `yaml:"tick_interval"`      // Time between analysis ticks.
}

// TransportConfig holds settings for publishing features.
type TransportConfig struct {
	UDPEnabled       bool          `yaml:"udp_enabled"`
	UDPTargetAddress string        `yaml:"udp_target_address"` // e.g. "127.0.0.1:9090".
	UDPSendInterval  time.Duration `yaml:"udp_send_interval"`
	WebSocketEnabled bool          `yaml:"websocket_enabled"`
	WebSocketAddress string        `yaml:"websocket_address"` // Listen address for /features.
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		LogLevel: "info",
		Audio: AudioConfig{
			InputDevice:     DefaultDeviceID,
			SampleRate:      DefaultSampleRate,
			FramesPerBuffer: DefaultFramesPerBuffer,
			LowLatency:      DefaultLowLatency,
			RingSeconds:     DefaultRingSeconds,
		},
		Analysis: AnalysisConfig{
			FFTSize:          DefaultFFTSize,
			RMSWindowSeconds: DefaultRMSWindowSeconds,
			SilenceThreshold: DefaultSilenceThreshold,
			Smoothing:        DefaultSmoothing,
			TickInterval:     DefaultTickInterval,
		},
		Transport: TransportConfig{
			UDPTargetAddress: DefaultUDPTargetAddress,
			UDPSendInterval:  DefaultUDPSendInterval,
			WebSocketAddress: DefaultWebSocketAddress,
		},
	}
}

// AnalysisParams converts the configuration into analyzer parameters.
func (c *Config) AnalysisParams() analysis.Params {
	return analysis.Params{
		SampleRate:       c.Audio.SampleRate,
		FFTSizeHint:      c.Analysis.FFTSize,
		RMSWindowSeconds: c.Analysis.RMSWindowSeconds,
		SilenceThreshold: c.Analysis.SilenceThreshold,
		Smoothing:        c.Analysis.Smoothing,
	}
}

// RingLength returns the capture ring length in samples.
func (c *Config) RingLength() int {
	return int(c.Audio.RingSeconds * c.Audio.SampleRate)
}
