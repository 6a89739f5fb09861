// SPDX-License-Identifier: MIT
package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"micfeatures/internal/analysis"
	"micfeatures/internal/config"
)

func parse(t *testing.T, args ...string) (*Options, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	return ParseArgs(args)
}

func TestParseArgsDefaults(t *testing.T) {
	opts, err := parse(t)
	if err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}
	if opts.Command() != CommandRun {
		t.Errorf("Command() = %q, want %q", opts.Command(), CommandRun)
	}

	want := config.NewConfig()
	if opts.Config.Audio != want.Audio || opts.Config.Analysis != want.Analysis {
		t.Errorf("unexpected defaults: %+v", opts.Config)
	}
	if opts.Pick {
		t.Error("Pick enabled by default")
	}
}

func TestParseArgsFlags(t *testing.T) {
	opts, err := parse(t,
		"--device", "3",
		"--sample-rate", "48000",
		"--fft-size", "1000",
		"--rms-window", "0.05",
		"--silence-threshold", "0.01",
		"--smoothing", "0.5",
		"--tick-interval", "10ms",
		"--udp", "--udp-target", "127.0.0.1:7000",
		"--ws", "--ws-addr", "127.0.0.1:8181",
		"-v", "-p",
	)
	if err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}

	c := opts.Config
	if c.Audio.InputDevice != 3 || c.Audio.SampleRate != 48000 {
		t.Errorf("audio flags not applied: %+v", c.Audio)
	}
	want := analysis.Params{SampleRate: 48000, FFTSizeHint: 1000, RMSWindowSeconds: 0.05, SilenceThreshold: 0.01, Smoothing: 0.5}
	if c.AnalysisParams() != want {
		t.Errorf("AnalysisParams() = %+v, want %+v", c.AnalysisParams(), want)
	}
	if c.Analysis.TickInterval != 10*time.Millisecond {
		t.Errorf("TickInterval = %s, want 10ms", c.Analysis.TickInterval)
	}
	if !c.Transport.UDPEnabled || c.Transport.UDPTargetAddress != "127.0.0.1:7000" {
		t.Errorf("UDP flags not applied: %+v", c.Transport)
	}
	if !c.Transport.WebSocketEnabled || c.Transport.WebSocketAddress != "127.0.0.1:8181" {
		t.Errorf("WebSocket flags not applied: %+v", c.Transport)
	}
	if !c.Debug || !opts.Pick {
		t.Errorf("verbose/pick not applied: debug=%v pick=%v", c.Debug, opts.Pick)
	}
}

func TestParseArgsFlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "micfeatures.yaml")
	content := "analysis:\n  fft_size: 512\n  smoothing: 0.2\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	opts, err := parse(t, "--config", path, "--smoothing", "0.6")
	if err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}
	if opts.Config.Analysis.FFTSize != 512 {
		t.Errorf("FFTSize = %d, want 512 from file", opts.Config.Analysis.FFTSize)
	}
	if opts.Config.Analysis.Smoothing != 0.6 {
		t.Errorf("Smoothing = %v, want flag value 0.6", opts.Config.Analysis.Smoothing)
	}
}

func TestParseArgsSubcommands(t *testing.T) {
	opts, err := parse(t, "list")
	if err != nil || opts.Command() != CommandList {
		t.Fatalf("list: command=%q err=%v", opts.Command(), err)
	}

	opts, err = parse(t, "simulate", "--frequency", "250", "--amplitude", "0.25", "--fft-size", "512")
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if opts.Command() != CommandSimulate || opts.Frequency != 250 || opts.Amplitude != 0.25 {
		t.Errorf("simulate options = %+v", opts)
	}
	if opts.Config.Analysis.FFTSize != 512 {
		t.Errorf("persistent flag not applied to subcommand: fft=%d", opts.Config.Analysis.FFTSize)
	}
}

func TestParseArgsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"Bad smoothing", []string{"--smoothing", "1.5"}, analysis.ErrInvalidSmoothing},
		{"Bad FFT size", []string{"--fft-size", "0"}, analysis.ErrInvalidFFTSize},
		{"Bad sample rate", []string{"--sample-rate", "10"}, config.ErrInvalidConfig},
		{"Bad amplitude", []string{"simulate", "--amplitude", "2"}, nil},
		{"Unknown flag", []string{"--bogus"}, nil},
		{"Stray argument", []string{"extra"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseArgsHelp(t *testing.T) {
	t.Chdir(t.TempDir())

	devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer devNull.Close()
	stdout := os.Stdout
	os.Stdout = devNull
	defer func() { os.Stdout = stdout }()

	opts, err := ParseArgs([]string{"--help"})
	if err != nil {
		t.Fatalf("ParseArgs(--help) error = %v", err)
	}
	if opts.Command() != "" {
		t.Errorf("Command() = %q after --help, want empty", opts.Command())
	}
}
