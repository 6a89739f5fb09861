// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"micfeatures/cmd"
	"micfeatures/internal/analysis"
	"micfeatures/internal/audio"
	"micfeatures/internal/config"
	applog "micfeatures/internal/log"
	"micfeatures/internal/tui"
	"micfeatures/pkg/build"
	"micfeatures/pkg/utils"
)

// main is the entry point for the feature extraction service.
// The program flow is divided into three distinct phases:
//
// 1. Startup Phase (Cold Path):
//   - Initialize build information
//   - Configure runtime settings
//   - Parse command line arguments and configuration
//   - Execute one-off commands if requested
//
// 2. Concurrent Phase (Hot Path):
//   - Open the capture source (microphone or simulated sine)
//   - Tick the analyzer and publish features
//
// 3. Shutdown Phase (Cold Path):
//   - Handle termination signals
//   - Stop publishing and close the capture stream
func main() {
	// ==================== STARTUP PHASE (Cold Path) ====================

	if err := build.Initialize(); err != nil {
		applog.Debugf("Build: %v, using development build info", err)
	}

	// One thread for the capture callback, one for analysis and I/O.
	runtime.GOMAXPROCS(2)

	options, err := cmd.ParseArgs(os.Args[1:])
	if err != nil {
		applog.Fatalf("%v", err)
	}
	if options.Command() == "" {
		return // help or version was printed
	}

	cfg := options.Config
	applog.SetLevel(cfg.Level())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch options.Command() {
	case cmd.CommandList:
		err = listDevices()
	case cmd.CommandSimulate:
		err = simulate(ctx, options)
	case cmd.CommandRun:
		err = run(ctx, options)
	default:
		err = errors.New("unknown command: " + options.Command())
	}
	if err != nil {
		applog.Fatalf("%v", err)
	}
}

func listDevices() error {
	if err := audio.Initialize(); err != nil {
		return err
	}
	defer audio.Terminate()

	return audio.ListDevices(os.Stdout)
}

// run captures from the microphone until ctx is cancelled.
func run(ctx context.Context, options *cmd.Options) error {
	cfg := options.Config

	if err := audio.Initialize(); err != nil {
		return err
	}
	defer audio.Terminate()

	if options.Pick {
		if err := pickDevice(cfg); err != nil {
			return err
		}
	}

	ring := audio.NewRing(cfg.RingLength())
	engine, err := audio.NewEngine(&cfg.Audio, ring)
	if err != nil {
		return err
	}

	// ==================== CONCURRENT PHASE (Hot Path) ====================

	// The first StartInputStream call makes PortAudio begin invoking the
	// capture callback. Until then the ring reports not ready and ticks are
	// skipped.
	if err := engine.StartInputStream(); err != nil {
		return err
	}

	pipeline, err := cmd.StartPipeline(cfg, ring)
	if err != nil {
		engine.Close()
		return err
	}
	applog.Infof("Main: Running on %q, type a device ID and Enter to switch, Ctrl+C to stop", engine.DeviceName())

	// Exits with the process; stdin has no portable cancellation.
	go cmd.WatchDeviceSwitches(os.Stdin, engine.SwitchDevice)

	<-ctx.Done()

	// ==================== SHUTDOWN PHASE (Cold Path) ====================

	return shutdown(pipeline, engine.Close)
}

// simulate runs the pipeline on a synthetic sine until ctx is cancelled.
func simulate(ctx context.Context, options *cmd.Options) error {
	cfg := options.Config

	playback := utils.NewPlayback(cfg.RingLength(), cfg.Audio.SampleRate,
		utils.Sine(options.Frequency, options.Amplitude))

	// ==================== CONCURRENT PHASE (Hot Path) ====================

	feedCtx, stopFeed := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		cmd.FeedPlayback(feedCtx, playback, cfg.Audio.FramesPerBuffer, cfg.Audio.SampleRate)
	}()

	pipeline, err := cmd.StartPipeline(cfg, playback)
	if err != nil {
		stopFeed()
		<-done
		return err
	}
	applog.Infof("Main: Simulating %.1f Hz at amplitude %.2f, press Ctrl+C to stop",
		options.Frequency, options.Amplitude)

	<-ctx.Done()

	// ==================== SHUTDOWN PHASE (Cold Path) ====================

	return shutdown(pipeline, func() error {
		stopFeed()
		<-done
		return nil
	})
}

func shutdown(pipeline *cmd.Pipeline, closeSource func() error) error {
	applog.Infof("Main: Shutting down after %d ticks", pipeline.Runner.Ticks())
	logFinal(pipeline.Runner.CurrentFeatures())

	return errors.Join(pipeline.Close(), closeSource())
}

func logFinal(s analysis.FeatureSnapshot) {
	applog.Infof("Main: Last features rms=%.3f peak=%.3f low=%.3f mid=%.3f high=%.3f",
		s.NormalizedRMS, s.NormalizedPeak, s.LowBandEnergy, s.MidBandEnergy, s.HighBandEnergy)
}

// pickDevice lets the user choose the input device and sample rate.
func pickDevice(cfg *config.Config) error {
	devices, err := audio.HostDevices()
	if err != nil {
		return err
	}

	selection, err := tui.Pick(devices)
	if err != nil {
		return err
	}

	cfg.Audio.InputDevice = selection.DeviceID
	cfg.Audio.SampleRate = selection.SampleRate
	if err := cfg.Validate(); err != nil {
		return err
	}
	applog.Infof("Main: Selected %q at %.0f Hz", selection.DeviceName, selection.SampleRate)
	return nil
}
