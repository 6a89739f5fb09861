// SPDX-License-Identifier: MIT
package config

import (
	"errors"
	"fmt"
	"math"
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"micfeatures/internal/analysis"
	applog "micfeatures/internal/log"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// DefaultSearchPaths are tried in order when LoadConfig is given no path.
var DefaultSearchPaths = []string{"config.yaml"}

// LoadConfig loads configuration from the YAML file at path. If path is empty
// it searches DefaultSearchPaths and falls back to built-in defaults when
// nothing is found. Environment overrides are applied after the file, then
// the result is validated.
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()

	if path == "" {
		for _, candidate := range DefaultSearchPaths {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Level returns the effective log level. Debug forces LevelDebug.
func (c *Config) Level() applog.Level {
	if c.Debug {
		return applog.LevelDebug
	}
	level, _ := applog.ParseLevel(c.LogLevel)
	return level
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.LogLevel != "" {
		if _, ok := applog.ParseLevel(c.LogLevel); !ok {
			return fmt.Errorf("%w: log_level %q is not recognized", ErrInvalidConfig, c.LogLevel)
		}
	}

	// Audio
	if c.Audio.InputDevice < MinDeviceID {
		return fmt.Errorf("%w: audio.input_device must be >= %d, got %d", ErrInvalidConfig, MinDeviceID, c.Audio.InputDevice)
	}
	if c.Audio.SampleRate < MinSampleRate || c.Audio.SampleRate > MaxSampleRate {
		return fmt.Errorf("%w: audio.sample_rate must be within [%d, %d], got %v", ErrInvalidConfig, MinSampleRate, MaxSampleRate, c.Audio.SampleRate)
	}
	if c.Audio.FramesPerBuffer <= 0 || c.Audio.FramesPerBuffer > MaxBufferFrames {
		return fmt.Errorf("%w: audio.frames_per_buffer must be within [1, %d], got %d", ErrInvalidConfig, MaxBufferFrames, c.Audio.FramesPerBuffer)
	}
	if !(c.Audio.RingSeconds > 0) || math.IsInf(c.Audio.RingSeconds, 0) {
		return fmt.Errorf("%w: audio.ring_seconds must be positive, got %v", ErrInvalidConfig, c.Audio.RingSeconds)
	}

	// Analysis
	if c.Analysis.TickInterval <= 0 {
		return fmt.Errorf("%w: analysis.tick_interval must be positive, got %s", ErrInvalidConfig, c.Analysis.TickInterval)
	}
	if c.Analysis.RMSWindowSeconds > c.Audio.RingSeconds {
		return fmt.Errorf("%w: analysis.rms_window_seconds (%v) exceeds audio.ring_seconds (%v)", ErrInvalidConfig, c.Analysis.RMSWindowSeconds, c.Audio.RingSeconds)
	}
	if c.Analysis.FFTSize > c.RingLength() {
		return fmt.Errorf("%w: analysis.fft_size (%d) exceeds the capture ring (%d samples)", ErrInvalidConfig, c.Analysis.FFTSize, c.RingLength())
	}
	if err := analysis.ValidateParams(c.AnalysisParams()); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	// Transport
	if c.Transport.UDPEnabled {
		if _, _, err := net.SplitHostPort(c.Transport.UDPTargetAddress); err != nil {
			return fmt.Errorf("%w: transport.udp_target_address %q: %w", ErrInvalidConfig, c.Transport.UDPTargetAddress, err)
		}
		if c.Transport.UDPSendInterval <= 0 {
			return fmt.Errorf("%w: transport.udp_send_interval must be positive when UDP is enabled", ErrInvalidConfig)
		}
	}
	if c.Transport.WebSocketEnabled {
		if _, _, err := net.SplitHostPort(c.Transport.WebSocketAddress); err != nil {
			return fmt.Errorf("%w: transport.websocket_address %q: %w", ErrInvalidConfig, c.Transport.WebSocketAddress, err)
		}
	}

	return nil
}

// applyEnvOverrides applies ENV_* variables on top of the loaded values.
// Values that fail to parse are ignored with a warning.
func (c *Config) applyEnvOverrides() {
	envBool("ENV_DEBUG", "debug", &c.Debug)
	if val, ok := os.LookupEnv("ENV_LOG_LEVEL"); ok {
		c.LogLevel = val
		applog.Infof("Config: Overriding log_level from env: %s", val)
	}

	if val, ok := os.LookupEnv("ENV_SAMPLE_RATE"); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			c.Audio.SampleRate = f
			applog.Infof("Config: Overriding audio.sample_rate from env: %v", f)
		} else {
			applog.Warnf("Config: Ignoring ENV_SAMPLE_RATE=%q: %v", val, err)
		}
	}
	if val, ok := os.LookupEnv("ENV_FFT_SIZE"); ok {
		if n, err := strconv.Atoi(val); err == nil {
			c.Analysis.FFTSize = n
			applog.Infof("Config: Overriding analysis.fft_size from env: %d", n)
		} else {
			applog.Warnf("Config: Ignoring ENV_FFT_SIZE=%q: %v", val, err)
		}
	}

	envBool("ENV_UDP_ENABLED", "transport.udp_enabled", &c.Transport.UDPEnabled)
	if val, ok := os.LookupEnv("ENV_UDP_TARGET_ADDRESS"); ok {
		c.Transport.UDPTargetAddress = val
		applog.Infof("Config: Overriding transport.udp_target_address from env: %s", val)
	}
	if val, ok := os.LookupEnv("ENV_UDP_SEND_INTERVAL"); ok {
		if d, err := time.ParseDuration(val); err == nil {
			c.Transport.UDPSendInterval = d
			applog.Infof("Config: Overriding transport.udp_send_interval from env: %s", d)
		} else {
			applog.Warnf("Config: Ignoring ENV_UDP_SEND_INTERVAL=%q: %v", val, err)
		}
	}

	envBool("ENV_WS_ENABLED", "transport.websocket_enabled", &c.Transport.WebSocketEnabled)
	if val, ok := os.LookupEnv("ENV_WS_ADDRESS"); ok {
		c.Transport.WebSocketAddress = val
		applog.Infof("Config: Overriding transport.websocket_address from env: %s", val)
	}
}

func envBool(name, key string, dst *bool) {
	val, ok := os.LookupEnv(name)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		applog.Warnf("Config: Ignoring %s=%q: %v", name, val, err)
		return
	}
	*dst = b
	applog.Infof("Config: Overriding %s from env: %v", key, b)
}
