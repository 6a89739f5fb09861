// SPDX-License-Identifier: MIT
package audio

import (
	"slices"
	"strings"
	"testing"
	"time"

	"micfeatures/internal/config"
)

func newTestEngine(t *testing.T, lowLatency bool) *Engine {
	t.Helper()
	fakeDevices(t)

	cfg := config.NewConfig().Audio
	cfg.LowLatency = lowLatency

	e, err := NewEngine(&cfg, NewRing(64))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func TestNewEngineLatency(t *testing.T) {
	if e := newTestEngine(t, false); e.inputLatency != 20*time.Millisecond {
		t.Errorf("high latency = %s, want 20ms", e.inputLatency)
	}
	if e := newTestEngine(t, true); e.inputLatency != 5*time.Millisecond {
		t.Errorf("low latency = %s, want 5ms", e.inputLatency)
	}
}

func TestNewEngineErrors(t *testing.T) {
	fakeDevices(t)

	cfg := config.NewConfig().Audio
	if _, err := NewEngine(&cfg, nil); err == nil {
		t.Error("expected error for nil ring")
	}

	cfg.InputDevice = 1 // output only
	if _, err := NewEngine(&cfg, NewRing(8)); err == nil || !strings.Contains(err.Error(), "does not support input") {
		t.Errorf("expected non-input device error, got %v", err)
	}
}

func TestEngineCallbackWritesRing(t *testing.T) {
	e := newTestEngine(t, false)

	e.processInputStream([]float32{0.1, 0.2, 0.3})

	if got := e.Ring().WritePosition(); got != 3 {
		t.Fatalf("WritePosition() = %d, want 3", got)
	}
	dst := make([]float32, 3)
	e.Ring().ReadSlice(dst, 0)
	if !slices.Equal(dst, []float32{0.1, 0.2, 0.3}) {
		t.Errorf("ring = %v", dst)
	}
}

func TestEngineSwitchDevice(t *testing.T) {
	e := newTestEngine(t, true)
	e.processInputStream([]float32{1, 2, 3})

	// Same device: nothing happens, captured data is kept.
	if err := e.SwitchDevice(config.MinDeviceID); err != nil {
		t.Fatalf("SwitchDevice(same) error = %v", err)
	}
	if e.Ring().WritePosition() != 3 {
		t.Error("ring reset by a switch to the current device")
	}

	// Invalid device: error, selection unchanged.
	if err := e.SwitchDevice(1); err == nil {
		t.Fatal("expected error switching to an output-only device")
	}
	if e.DeviceName() != "Built-in Microphone" || e.Ring().WritePosition() != 3 {
		t.Errorf("failed switch changed state: device=%q pos=%d", e.DeviceName(), e.Ring().WritePosition())
	}

	if err := e.SwitchDevice(2); err != nil {
		t.Fatalf("SwitchDevice(2) error = %v", err)
	}
	if e.DeviceName() != "USB Interface" {
		t.Errorf("DeviceName() = %q, want USB Interface", e.DeviceName())
	}
	if e.inputLatency != 3*time.Millisecond {
		t.Errorf("latency = %s, want 3ms", e.inputLatency)
	}
	if e.Ring().WritePosition() != -1 {
		t.Error("ring not reset after device switch")
	}
	if e.Running() {
		t.Error("stopped engine started by a device switch")
	}
}

func TestEngineStopWithoutStart(t *testing.T) {
	e := newTestEngine(t, false)
	if err := e.StopInputStream(); err != nil {
		t.Errorf("StopInputStream() error = %v", err)
	}
	if err := e.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
