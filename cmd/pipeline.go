// SPDX-License-Identifier: MIT
package cmd

import (
	"context"
	"errors"
	"time"

	"micfeatures/internal/analysis"
	"micfeatures/internal/config"
	applog "micfeatures/internal/log"
	"micfeatures/internal/runner"
	"micfeatures/internal/transport"
	"micfeatures/internal/transport/udp"
	"micfeatures/pkg/utils"
)

// Pipeline is a running analyzer with its transports.
type Pipeline struct {
	Runner    *runner.Runner
	WebSocket *transport.WebSocketTransport // nil unless enabled

	sender    *udp.UDPSender
	publisher *udp.UDPPublisher
}

// StartPipeline builds the analyzer over source, wires the transports the
// configuration enables and starts ticking.
func StartPipeline(cfg *config.Config, source analysis.CaptureSource) (p *Pipeline, err error) {
	analyzer, err := analysis.NewAnalyzer(source, cfg.AnalysisParams())
	if err != nil {
		return nil, err
	}

	p = &Pipeline{}
	var closers []func() error
	defer func() {
		if err != nil {
			for _, c := range closers {
				c()
			}
		}
	}()

	transports := []transport.Transport{}
	if cfg.Debug {
		transports = append(transports, transport.NewLoggingTransport())
	}
	if cfg.Transport.WebSocketEnabled {
		ws := transport.NewWebSocketTransport(cfg.Transport.WebSocketAddress)
		closers = append(closers, ws.Close)
		if err := ws.Start(); err != nil {
			return nil, err
		}
		p.WebSocket = ws
		transports = append(transports, ws)
	}

	p.Runner, err = runner.New(analyzer, cfg.Analysis.TickInterval, transports...)
	if err != nil {
		return nil, err
	}

	if cfg.Transport.UDPEnabled {
		p.sender, err = udp.NewUDPSender(cfg.Transport.UDPTargetAddress)
		if err != nil {
			return nil, err
		}
		closers = append(closers, p.sender.Close)

		p.publisher, err = udp.NewUDPPublisher(cfg.Transport.UDPSendInterval, p.sender, p.Runner)
		if err != nil {
			return nil, err
		}
	}

	p.Runner.Start()
	if p.publisher != nil {
		p.publisher.Start()
	}
	return p, nil
}

// Close stops publishing and ticking, then releases every transport.
func (p *Pipeline) Close() error {
	var errs []error
	if p.publisher != nil {
		errs = append(errs, p.publisher.Stop())
	}
	errs = append(errs, p.Runner.Close())
	if p.sender != nil {
		errs = append(errs, p.sender.Close())
	}
	return errors.Join(errs...)
}

// FeedPlayback advances playback in real time, framesPerBuffer samples per
// buffer period, until ctx is done. It stands in for the audio callback.
func FeedPlayback(ctx context.Context, playback *utils.Playback, framesPerBuffer int, sampleRate float64) {
	period := time.Duration(float64(framesPerBuffer) / sampleRate * float64(time.Second))
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	applog.Debugf("Simulate: Feeding %d frames every %s", framesPerBuffer, period)
	for {
		select {
		case <-ticker.C:
			playback.Advance(framesPerBuffer)
		case <-ctx.Done():
			return
		}
	}
}
