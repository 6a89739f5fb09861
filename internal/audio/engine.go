// SPDX-License-Identifier: MIT
/*
Package audio captures microphone input through PortAudio into a Ring that
the analysis pipeline reads from.

Thread Safety:
  - The PortAudio callback only copies the incoming buffer into the Ring,
    which is guarded by its own mutex.
  - Engine methods (start, stop, device switch) are serialized by the
    engine mutex and must not be called from the callback.
*/
package audio

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"

	"micfeatures/internal/config"
	applog "micfeatures/internal/log"
)

// captureChannels is fixed: the analyzer works on a mono signal.
const captureChannels = 1

type Engine struct {
	mu sync.Mutex

	// Core configuration and capture target.
	config *config.AudioConfig
	ring   *Ring

	// Audio input handling.
	deviceID     int
	inputDevice  *portaudio.DeviceInfo
	inputLatency time.Duration
	inputStream  *portaudio.Stream
}

// NewEngine resolves the configured input device. No stream is opened until
// StartInputStream.
func NewEngine(cfg *config.AudioConfig, ring *Ring) (*Engine, error) {
	if ring == nil {
		return nil, fmt.Errorf("audio: capture ring cannot be nil")
	}

	inputDevice, err := InputDevice(cfg.InputDevice)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		config:   cfg,
		ring:     ring,
		deviceID: cfg.InputDevice,
	}
	e.selectDevice(inputDevice)
	return e, nil
}

func (e *Engine) selectDevice(device *portaudio.DeviceInfo) {
	e.inputDevice = device
	if e.config.LowLatency {
		e.inputLatency = device.DefaultLowInputLatency
	} else {
		e.inputLatency = device.DefaultHighInputLatency
	}
}

// Ring returns the capture ring the engine writes to.
func (e *Engine) Ring() *Ring {
	return e.ring
}

// DeviceName returns the name of the selected input device.
func (e *Engine) DeviceName() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inputDevice.Name
}

// Running reports whether an input stream is open.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inputStream != nil
}

func (e *Engine) StartInputStream() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.startLocked()
}

func (e *Engine) startLocked() error {
	if e.inputStream != nil {
		return nil
	}

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Channels: captureChannels,
			Device:   e.inputDevice,
			Latency:  e.inputLatency,
		},
		Output: portaudio.StreamDeviceParameters{
			Channels: 0, // No output device
			Device:   nil,
		},
		FramesPerBuffer: e.config.FramesPerBuffer,
		SampleRate:      e.config.SampleRate,
	}

	stream, err := portaudio.OpenStream(params, e.processInputStream)
	if err != nil {
		return fmt.Errorf("failed to open input stream on %q: %w", e.inputDevice.Name, err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("failed to start input stream on %q: %w", e.inputDevice.Name, err)
	}
	e.inputStream = stream

	applog.Infof("Audio: Capturing from %q (%.0f Hz, %d frames/buffer, latency %s)",
		e.inputDevice.Name, e.config.SampleRate, e.config.FramesPerBuffer, e.inputLatency)
	return nil
}

func (e *Engine) StopInputStream() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stopLocked()
}

func (e *Engine) stopLocked() error {
	if e.inputStream == nil {
		return nil
	}

	stream := e.inputStream
	e.inputStream = nil

	if err := stream.Stop(); err != nil {
		stream.Close()
		return err
	}
	return stream.Close()
}

// SwitchDevice moves capture to another input device. The ring is cleared so
// the analyzer skips ticks until the new device delivers samples. If the
// stream was running it is restarted on the new device. Selecting the
// current device does nothing.
func (e *Engine) SwitchDevice(deviceID int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if deviceID == e.deviceID {
		return nil
	}

	device, err := InputDevice(deviceID)
	if err != nil {
		return err
	}

	wasRunning := e.inputStream != nil
	if err := e.stopLocked(); err != nil {
		applog.Warnf("Audio: Error stopping stream on %q: %v", e.inputDevice.Name, err)
	}

	prev := e.inputDevice.Name
	e.deviceID = deviceID
	e.selectDevice(device)
	e.ring.Reset()
	applog.Infof("Audio: Switched input from %q to %q", prev, device.Name)

	if wasRunning {
		return e.startLocked()
	}
	return nil
}

// Close stops the input stream if one is open.
func (e *Engine) Close() error {
	return e.StopInputStream()
}

// processInputStream is the PortAudio callback.
// Performance Critical (Hot Path):
// - No allocations
// - Only copies into the ring
func (e *Engine) processInputStream(in []float32) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	e.ring.Write(in)
}
