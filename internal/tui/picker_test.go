// SPDX-License-Identifier: MIT
package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"micfeatures/internal/audio"
)

var testDevices = []audio.Device{
	{ID: 0, Name: "Built-in Microphone", MaxInputChannels: 1, DefaultSampleRate: 44100},
	{ID: 1, Name: "Built-in Output", MaxOutputChannels: 2, DefaultSampleRate: 48000},
	{ID: 2, Name: "USB Interface", MaxInputChannels: 2, MaxOutputChannels: 2, DefaultSampleRate: 48000},
}

func press(t *testing.T, m PickerModel, msgs ...tea.Msg) (PickerModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(PickerModel)
	}
	return m, cmd
}

var (
	down  = tea.KeyMsg{Type: tea.KeyDown}
	up    = tea.KeyMsg{Type: tea.KeyUp}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	quit  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
	size  = tea.WindowSizeMsg{Width: 80, Height: 24}
)

func TestPickerListsInputDevicesOnly(t *testing.T) {
	m := NewPickerModel(testDevices)
	if len(m.devices) != 2 {
		t.Fatalf("listed %d devices, want 2", len(m.devices))
	}

	m, _ = press(t, m, size)
	view := m.View()
	if strings.Contains(view, "Built-in Output") {
		t.Errorf("output-only device listed:\n%s", view)
	}
	if !strings.Contains(view, "USB Interface") {
		t.Errorf("input device missing:\n%s", view)
	}
}

func TestPickerSelectsDeviceAndRate(t *testing.T) {
	m := NewPickerModel(testDevices)

	// Second input device, defaults to its 48kHz rate, then one step down.
	m, cmd := press(t, m, size, down, down, enter, down, enter)

	s := m.Selection()
	if s == nil {
		t.Fatal("no selection after confirming")
	}
	want := Selection{DeviceID: 2, DeviceName: "USB Interface", SampleRate: 88200}
	if *s != want {
		t.Errorf("Selection() = %+v, want %+v", *s, want)
	}
	if cmd == nil {
		t.Error("expected quit command after selection")
	}
}

func TestPickerBackAndCancel(t *testing.T) {
	m := NewPickerModel(testDevices)

	m, _ = press(t, m, size, enter, esc, up)
	if m.active != deviceScreen || m.deviceIdx != 0 {
		t.Errorf("Esc did not return to the device list: screen=%d idx=%d", m.active, m.deviceIdx)
	}

	m, cmd := press(t, m, quit)
	if m.Selection() != nil {
		t.Error("selection set after quitting")
	}
	if cmd == nil {
		t.Error("expected quit command")
	}
}

func TestPickerNoDevices(t *testing.T) {
	m, _ := press(t, NewPickerModel(nil), size, enter, down)
	if m.Selection() != nil {
		t.Error("selection with no devices")
	}
	if !strings.Contains(m.View(), "No input devices found.") {
		t.Errorf("unexpected view:\n%s", m.View())
	}
}

func TestPickerViewBeforeResize(t *testing.T) {
	if got := NewPickerModel(testDevices).View(); got != "Initializing..." {
		t.Errorf("View() = %q, want Initializing...", got)
	}
}
