// SPDX-License-Identifier: MIT
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"micfeatures/internal/config"
	"micfeatures/pkg/build"
)

// Commands selectable on the command line.
const (
	CommandRun      = "run"
	CommandList     = "list"
	CommandSimulate = "simulate"
)

// Options is the parsed command line: the effective configuration plus the
// settings that only make sense for a single invocation.
type Options struct {
	Config *config.Config

	Pick      bool    // Choose the input device interactively before running.
	Frequency float64 // Simulated sine frequency in Hz.
	Amplitude float64 // Simulated sine peak amplitude.
}

// Command returns the command to execute, or "" when cobra only printed
// help or version output.
func (o *Options) Command() string {
	if o.Config == nil {
		return ""
	}
	return o.Config.Command
}

// flagValues receives raw flag values. Only flags the user actually set are
// copied over the file/env configuration.
type flagValues struct {
	configPath       string
	device           int
	sampleRate       float64
	framesPerBuffer  int
	lowLatency       bool
	fftSize          int
	rmsWindow        float64
	silenceThreshold float32
	smoothing        float32
	tickInterval     time.Duration
	udp              bool
	udpTarget        string
	ws               bool
	wsAddr           string
	verbose          bool
}

// ParseArgs parses args (without the program name) into Options. The
// configuration is loaded from --config (or ./config.yaml), environment
// overrides are applied, then explicitly set flags win.
func ParseArgs(args []string) (*Options, error) {
	info := build.GetInfo()
	options := &Options{}
	var flags flagValues

	// load runs for every command once flags are parsed.
	load := func(cmd *cobra.Command, command string) error {
		cfg, err := config.LoadConfig(flags.configPath)
		if err != nil {
			return err
		}
		flags.apply(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}
		if command != CommandRun || cfg.Command == "" {
			cfg.Command = command
		}
		options.Config = cfg
		return nil
	}

	rootCmd := &cobra.Command{
		Use:           info.Name,
		Short:         build.Description,
		Version:       info.String(),
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return load(cmd, CommandRun)
		},
	}

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
	rootCmd.SetArgs(args)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available audio devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return load(cmd, CommandList)
		},
	})

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the pipeline on a synthetic sine wave instead of a microphone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if options.Amplitude < 0 || options.Amplitude > 1 {
				return fmt.Errorf("amplitude must be within [0, 1], got %v", options.Amplitude)
			}
			return load(cmd, CommandSimulate)
		},
	}
	simulateCmd.Flags().Float64Var(&options.Frequency, "frequency", 1000,
		"Frequency of the simulated sine, in Hertz (Hz)")
	simulateCmd.Flags().Float64Var(&options.Amplitude, "amplitude", 0.5,
		"Peak amplitude of the simulated sine (0..1)")
	rootCmd.AddCommand(simulateCmd)

	rootCmd.Flags().BoolVarP(&options.Pick, "pick", "p", false,
		"Choose the input device and sample rate interactively")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "",
		"Path to a YAML configuration file (default: ./config.yaml if present)")

	// Audio Device Configuration
	pf.IntVarP(&flags.device, "device", "d", config.DefaultDeviceID,
		"Specify input device ID. Use 'list' command to see available devices.")
	pf.Float64VarP(&flags.sampleRate, "sample-rate", "s", config.DefaultSampleRate,
		"Sample rate, measured in Hertz (Hz)")
	pf.IntVarP(&flags.framesPerBuffer, "frames-per-buffer", "b", config.DefaultFramesPerBuffer,
		"The number of frames per buffer (affects latency)")
	pf.BoolVarP(&flags.lowLatency, "low-latency", "l", config.DefaultLowLatency,
		"Use low latency mode for real-time processing")

	// Analysis Configuration
	pf.IntVar(&flags.fftSize, "fft-size", config.DefaultFFTSize,
		"FFT size, rounded up to a power of two")
	pf.Float64Var(&flags.rmsWindow, "rms-window", config.DefaultRMSWindowSeconds,
		"Loudness window length in seconds")
	pf.Float32Var(&flags.silenceThreshold, "silence-threshold", config.DefaultSilenceThreshold,
		"Total band energy below which band features fade to zero")
	pf.Float32Var(&flags.smoothing, "smoothing", config.DefaultSmoothing,
		"Smoothing coefficient in (0,1); smaller is smoother")
	pf.DurationVar(&flags.tickInterval, "tick-interval", config.DefaultTickInterval,
		"Time between analysis ticks")

	// Transport Configuration
	pf.BoolVar(&flags.udp, "udp", false, "Publish features as UDP packets")
	pf.StringVar(&flags.udpTarget, "udp-target", config.DefaultUDPTargetAddress,
		"UDP target address (host:port)")
	pf.BoolVar(&flags.ws, "ws", false, "Serve features over WebSocket")
	pf.StringVar(&flags.wsAddr, "ws-addr", config.DefaultWebSocketAddress,
		"WebSocket listen address (host:port)")

	// Debug Configuration
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Show verbose output")

	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}
	return options, nil
}

// apply copies every flag the user set onto cfg.
func (f *flagValues) apply(cmd *cobra.Command, cfg *config.Config) {
	set := cmd.Flags().Changed

	if set("device") {
		cfg.Audio.InputDevice = f.device
	}
	if set("sample-rate") {
		cfg.Audio.SampleRate = f.sampleRate
	}
	if set("frames-per-buffer") {
		cfg.Audio.FramesPerBuffer = f.framesPerBuffer
	}
	if set("low-latency") {
		cfg.Audio.LowLatency = f.lowLatency
	}
	if set("fft-size") {
		cfg.Analysis.FFTSize = f.fftSize
	}
	if set("rms-window") {
		cfg.Analysis.RMSWindowSeconds = f.rmsWindow
	}
	if set("silence-threshold") {
		cfg.Analysis.SilenceThreshold = f.silenceThreshold
	}
	if set("smoothing") {
		cfg.Analysis.Smoothing = f.smoothing
	}
	if set("tick-interval") {
		cfg.Analysis.TickInterval = f.tickInterval
	}
	if set("udp") {
		cfg.Transport.UDPEnabled = f.udp
	}
	if set("udp-target") {
		cfg.Transport.UDPTargetAddress = f.udpTarget
	}
	if set("ws") {
		cfg.Transport.WebSocketEnabled = f.ws
	}
	if set("ws-addr") {
		cfg.Transport.WebSocketAddress = f.wsAddr
	}
	if set("verbose") && f.verbose {
		cfg.Debug = true
	}
}
