// SPDX-License-Identifier: MIT
package utils

import "sync"

// Playback is a synthetic capture ring. It renders a known waveform into a
// fixed-size ring the same way a microphone callback would, so analysis can be
// exercised deterministically without an audio device.
//
// The ring starts fully written (one ring length of history). Advance appends
// new samples and moves the write position. SetReady(false) makes
// WritePosition report -1, emulating a device that is not delivering data yet.
type Playback struct {
	mu         sync.Mutex
	ring       []float32
	waveform   Waveform
	sampleRate float64
	written    int // absolute number of samples written so far
	notReady   bool
}

// NewPlayback creates a ring of ringLength samples pre-filled with waveform.
func NewPlayback(ringLength int, sampleRate float64, waveform Waveform) *Playback {
	p := &Playback{
		ring:       make([]float32, ringLength),
		waveform:   waveform,
		sampleRate: sampleRate,
	}
	p.advance(ringLength)
	return p
}

// Advance writes the next n samples of the waveform into the ring.
func (p *Playback) Advance(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.advance(n)
}

func (p *Playback) advance(n int) {
	if len(p.ring) == 0 {
		return
	}
	for range n {
		p.ring[p.written%len(p.ring)] = p.waveform(p.written, p.sampleRate)
		p.written++
	}
}

// SetWaveform switches the waveform used for subsequent Advance calls.
func (p *Playback) SetWaveform(w Waveform) {
	p.mu.Lock()
	p.waveform = w
	p.mu.Unlock()
}

// SetReady toggles whether WritePosition reports a valid position.
func (p *Playback) SetReady(ready bool) {
	p.mu.Lock()
	p.notReady = !ready
	p.mu.Unlock()
}

// WritePosition returns the index the next sample will be written to, or -1
// when the source is marked not ready.
func (p *Playback) WritePosition() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.notReady || len(p.ring) == 0 {
		return -1
	}
	return p.written % len(p.ring)
}

// Len returns the ring capacity in samples.
func (p *Playback) Len() int {
	return len(p.ring)
}

// ReadSlice fills dst with samples starting at ring index start, wrapping at
// the end of the ring.
func (p *Playback) ReadSlice(dst []float32, start int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.ring)
	if n == 0 {
		clear(dst)
		return
	}
	start = ((start % n) + n) % n
	for i := range dst {
		dst[i] = p.ring[(start+i)%n]
	}
}
