// SPDX-License-Identifier: MIT

// Package tui provides an interactive terminal picker for the capture device
// and sample rate.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"micfeatures/internal/audio"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5"))

	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#25A065")).
			Bold(true)
)

// ErrCancelled is returned by Pick when the user quits without choosing.
var ErrCancelled = errors.New("device selection cancelled")

// SampleRates are offered on the configuration screen.
var SampleRates = []float64{44100, 48000, 88200, 96000}

type keyMap struct {
	Quit, Up, Down, Select, Back key.Binding
}

var keys = keyMap{
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c")),
	Up:     key.NewBinding(key.WithKeys("up", "k")),
	Down:   key.NewBinding(key.WithKeys("down", "j")),
	Select: key.NewBinding(key.WithKeys("enter")),
	Back:   key.NewBinding(key.WithKeys("esc")),
}

type screen int

const (
	deviceScreen screen = iota
	rateScreen
)

// Selection is the outcome of a completed pick.
type Selection struct {
	DeviceID   int
	DeviceName string
	SampleRate float64
}

// PickerModel is the Bubble Tea model behind Pick. Only devices with input
// channels are listed.
type PickerModel struct {
	devices   []audio.Device
	deviceIdx int
	rateIdx   int
	active    screen

	viewport viewport.Model
	ready    bool

	selection *Selection
}

// NewPickerModel returns a picker over the input-capable subset of devices.
func NewPickerModel(devices []audio.Device) PickerModel {
	var inputs []audio.Device
	for _, d := range devices {
		if d.MaxInputChannels > 0 {
			inputs = append(inputs, d)
		}
	}
	return PickerModel{devices: inputs}
}

// Selection returns the choice once the user confirmed one, or nil.
func (m PickerModel) Selection() *Selection {
	return m.selection
}

func (m PickerModel) Init() tea.Cmd {
	return nil
}

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-4)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 4
		}

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return m, tea.Quit
		}
		if len(m.devices) == 0 {
			break
		}

		switch m.active {
		case deviceScreen:
			switch {
			case key.Matches(msg, keys.Up):
				m.deviceIdx = max(m.deviceIdx-1, 0)
			case key.Matches(msg, keys.Down):
				m.deviceIdx = min(m.deviceIdx+1, len(m.devices)-1)
			case key.Matches(msg, keys.Select):
				m.active = rateScreen
				m.rateIdx = rateIndex(m.devices[m.deviceIdx].DefaultSampleRate)
			}

		case rateScreen:
			switch {
			case key.Matches(msg, keys.Back):
				m.active = deviceScreen
			case key.Matches(msg, keys.Up):
				m.rateIdx = max(m.rateIdx-1, 0)
			case key.Matches(msg, keys.Down):
				m.rateIdx = min(m.rateIdx+1, len(SampleRates)-1)
			case key.Matches(msg, keys.Select):
				d := m.devices[m.deviceIdx]
				m.selection = &Selection{
					DeviceID:   d.ID,
					DeviceName: d.Name,
					SampleRate: SampleRates[m.rateIdx],
				}
				return m, tea.Quit
			}
		}
	}

	if m.ready {
		m.viewport.SetContent(m.body())
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// rateIndex returns the offered rate matching the device default, or 0.
func rateIndex(rate float64) int {
	for i, r := range SampleRates {
		if r == rate {
			return i
		}
	}
	return 0
}

func (m PickerModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var title, help string
	if m.active == deviceScreen {
		title = titleStyle.Render("Input Devices")
		help = infoStyle.Render("↑/↓: Navigate • Enter: Configure • q: Quit")
	} else {
		title = titleStyle.Render("Sample Rate")
		help = infoStyle.Render("↑/↓: Change Value • Enter: Start • Esc: Back • q: Quit")
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", title, m.viewport.View(), help)
}

func (m PickerModel) body() string {
	if len(m.devices) == 0 {
		return "No input devices found."
	}
	if m.active == rateScreen {
		return m.renderRates()
	}
	return m.renderDevices()
}

func (m PickerModel) renderDevices() string {
	var sb strings.Builder
	for i, device := range m.devices {
		entry := fmt.Sprintf("[%d] %s\n    Input channels: %d, Default sample rate: %.0f Hz\n",
			device.ID, device.Name, device.MaxInputChannels, device.DefaultSampleRate)
		if i == m.deviceIdx {
			entry = highlightStyle.Render(entry)
		}
		sb.WriteString(entry)
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m PickerModel) renderRates() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Capture from: %s\n\n", m.devices[m.deviceIdx].Name)

	for i, rate := range SampleRates {
		marker := " "
		if i == m.rateIdx {
			marker = "▶"
		}
		line := fmt.Sprintf("  %s %.0f Hz\n", marker, rate)
		if i == m.rateIdx {
			line = highlightStyle.Render(line)
		}
		sb.WriteString(line)
	}
	return sb.String()
}

// Pick runs the picker full-screen and returns the confirmed selection.
func Pick(devices []audio.Device) (Selection, error) {
	final, err := tea.NewProgram(NewPickerModel(devices), tea.WithAltScreen()).Run()
	if err != nil {
		return Selection{}, err
	}
	if s := final.(PickerModel).Selection(); s != nil {
		return *s, nil
	}
	return Selection{}, ErrCancelled
}
