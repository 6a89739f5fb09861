// SPDX-License-Identifier: MIT

// Package udp streams feature snapshots as fixed-size binary UDP packets.
package udp

import (
	"errors"
	"sync"
	"time"

	"micfeatures/internal/analysis"
	applog "micfeatures/internal/log"
)

// DefaultInterval is used when NewUDPPublisher is given a non-positive
// interval.
const DefaultInterval = 33 * time.Millisecond

// UDPPublisher periodically reads the latest feature snapshot from a
// provider, packs it and sends it with a UDPSender. It runs in its own
// goroutine between Start and Stop.
type UDPPublisher struct {
	sender   *UDPSender
	features analysis.FeatureProvider // Must be safe for concurrent use.
	interval time.Duration

	ticker   *time.Ticker
	doneChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	mu       sync.Mutex // Protects ticker and doneChan during Start/Stop.

	sequenceNum uint32
	packet      []byte // Reused for every packet.
}

// NewUDPPublisher creates a publisher reading from features.
func NewUDPPublisher(interval time.Duration, sender *UDPSender, features analysis.FeatureProvider) (*UDPPublisher, error) {
	if sender == nil {
		return nil, errors.New("UDPPublisher: UDP sender cannot be nil")
	}
	if features == nil {
		return nil, errors.New("UDPPublisher: feature provider cannot be nil")
	}

	if interval <= 0 {
		interval = DefaultInterval
		applog.Warnf("UDPPublisher: Invalid interval provided, defaulting to %s", interval)
	}

	applog.Infof("UDPPublisher: Initializing (Interval: %s, Target: %s, Packet: %d bytes)",
		interval, sender.Target(), PacketSize)

	return &UDPPublisher{
		sender:   sender,
		features: features,
		interval: interval,
		packet:   make([]byte, 0, PacketSize),
	}, nil
}

// Start launches the publishing goroutine. Calling Start while running is a
// no-op.
func (p *UDPPublisher) Start() {
	p.mu.Lock()
	if p.ticker != nil {
		p.mu.Unlock()
		applog.Warnf("UDPPublisher: Start called but already running.")
		return
	}

	p.ticker = time.NewTicker(p.interval)
	p.doneChan = make(chan struct{})
	p.stopOnce = sync.Once{}

	// Locals so the goroutine never reads p.ticker/p.doneChan.
	ticker := p.ticker
	doneChan := p.doneChan
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		applog.Debugf("UDPPublisher: Publisher goroutine started")
		for {
			select {
			case <-ticker.C:
				p.publish()
			case <-doneChan:
				return
			}
		}
	}()
}

// Stop signals the publishing goroutine and waits for it to exit. It is safe
// to call more than once.
func (p *UDPPublisher) Stop() error {
	p.mu.Lock()
	if p.ticker == nil {
		p.mu.Unlock()
		return nil
	}

	p.stopOnce.Do(func() {
		close(p.doneChan)
		p.ticker.Stop()
		p.ticker = nil
	})
	p.mu.Unlock()

	p.wg.Wait()
	applog.Infof("UDPPublisher: Stopped after %d packets.", p.sequenceNum)
	return nil
}

// publish sends one packet with the current snapshot. Only the publisher
// goroutine (or a test holding no running publisher) may call it.
func (p *UDPPublisher) publish() {
	p.sequenceNum++
	p.packet = AppendPacket(p.packet[:0], p.sequenceNum, time.Now().UnixNano(), p.features.CurrentFeatures())

	if err := p.sender.Send(p.packet); err != nil {
		applog.Debugf("UDPPublisher: Packet %d not sent: %v", p.sequenceNum, err)
		return
	}
	applog.Debugf("UDPPublisher: Sent packet %d (%d bytes)", p.sequenceNum, len(p.packet))
}

// Close stops the publisher.
func (p *UDPPublisher) Close() error {
	return p.Stop()
}
