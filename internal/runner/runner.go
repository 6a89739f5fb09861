// SPDX-License-Identifier: MIT

// Package runner drives an Analyzer at a fixed rate on its own goroutine and
// fans each snapshot out to the configured transports.
package runner

import (
	"context"
	"errors"
	"sync"
	"time"

	"micfeatures/internal/analysis"
	applog "micfeatures/internal/log"
	"micfeatures/internal/transport"
)

// DefaultInterval is about one 60 Hz frame.
const DefaultInterval = 16 * time.Millisecond

// Runner owns an Analyzer. All analyzer access goes through the runner's
// mutex, so CurrentFeatures and Configure are safe from any goroutine while
// the tick loop runs.
type Runner struct {
	mu       sync.Mutex
	analyzer *analysis.Analyzer
	latest   analysis.FeatureSnapshot
	ticks    uint64

	interval   time.Duration
	transports []transport.Transport

	lifecycle sync.Mutex // Protects cancel during Start/Stop.
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

var _ analysis.FeatureProvider = (*Runner)(nil)

// New creates a runner ticking analyzer every interval and sending every
// snapshot to transports.
func New(analyzer *analysis.Analyzer, interval time.Duration, transports ...transport.Transport) (*Runner, error) {
	if analyzer == nil {
		return nil, errors.New("runner: analyzer cannot be nil")
	}
	if interval <= 0 {
		interval = DefaultInterval
		applog.Warnf("Runner: Invalid interval provided, defaulting to %s", interval)
	}
	return &Runner{
		analyzer:   analyzer,
		interval:   interval,
		transports: transports,
	}, nil
}

// Step runs a single tick and publishes the result.
func (r *Runner) Step() analysis.FeatureSnapshot {
	r.mu.Lock()
	r.analyzer.Tick()
	snapshot := r.analyzer.CurrentFeatures()
	r.latest = snapshot
	r.ticks++
	r.mu.Unlock()

	for _, t := range r.transports {
		if err := t.Send(snapshot); err != nil {
			applog.Debugf("Runner: Transport %T send failed: %v", t, err)
		}
	}
	return snapshot
}

// Run ticks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	applog.Infof("Runner: Analysis loop started (Interval: %s)", r.interval)
	for {
		select {
		case <-ticker.C:
			r.Step()
		case <-ctx.Done():
			applog.Infof("Runner: Analysis loop stopped after %d ticks", r.Ticks())
			return ctx.Err()
		}
	}
}

// Start runs the tick loop in the background. Calling Start while running is
// a no-op.
func (r *Runner) Start() {
	r.lifecycle.Lock()
	defer r.lifecycle.Unlock()
	if r.cancel != nil {
		applog.Warnf("Runner: Start called but already running.")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.Run(ctx)
	}()
}

// Stop ends the tick loop and waits for it to exit. It is safe to call more
// than once.
func (r *Runner) Stop() {
	r.lifecycle.Lock()
	cancel := r.cancel
	r.cancel = nil
	r.lifecycle.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	r.wg.Wait()
}

// Configure reconfigures the analyzer between ticks.
func (r *Runner) Configure(params analysis.Params) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.analyzer.Configure(params); err != nil {
		return err
	}
	r.latest = r.analyzer.CurrentFeatures()
	return nil
}

// SetSource swaps the analyzer's capture source between ticks.
func (r *Runner) SetSource(source analysis.CaptureSource) {
	r.mu.Lock()
	r.analyzer.SetSource(source)
	r.mu.Unlock()
}

// CurrentFeatures returns the snapshot from the most recent tick.
func (r *Runner) CurrentFeatures() analysis.FeatureSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latest
}

// Ticks returns how many ticks have run.
func (r *Runner) Ticks() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ticks
}

// Close stops the loop and closes every transport, returning the first
// error.
func (r *Runner) Close() error {
	r.Stop()

	var errs []error
	for _, t := range r.transports {
		if err := t.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
