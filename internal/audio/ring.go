// SPDX-License-Identifier: MIT
package audio

import "sync"

// Ring is a fixed-size mono capture ring written by the PortAudio callback
// and read by the analyzer. It implements analysis.CaptureSource.
type Ring struct {
	mu       sync.Mutex
	buf      []float32
	writePos int // -1 until the first write
}

// NewRing returns an empty ring of length samples.
func NewRing(length int) *Ring {
	return &Ring{
		buf:      make([]float32, max(length, 0)),
		writePos: -1,
	}
}

// Write appends samples, overwriting the oldest data once the ring is full.
func (r *Ring) Write(samples []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.buf)
	if n == 0 || len(samples) == 0 {
		return
	}
	pos := max(r.writePos, 0)
	if skip := len(samples) - n; skip > 0 {
		pos = (pos + skip) % n
		samples = samples[skip:]
	}

	copied := copy(r.buf[pos:], samples)
	copy(r.buf, samples[copied:])
	r.writePos = (pos + len(samples)) % n
}

// WritePosition returns the index the next sample goes to, or -1 before the
// first write.
func (r *Ring) WritePosition() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writePos
}

// Len returns the ring capacity in samples.
func (r *Ring) Len() int {
	return len(r.buf)
}

// ReadSlice copies len(dst) samples starting at ring index start into dst,
// wrapping at the end of the ring.
func (r *Ring) ReadSlice(dst []float32, start int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.buf)
	if n == 0 {
		clear(dst)
		return
	}
	start = ((start % n) + n) % n

	for len(dst) > 0 {
		copied := copy(dst, r.buf[start:])
		dst = dst[copied:]
		start = 0
	}
}

// Reset zeroes the ring and marks it as not yet written.
func (r *Ring) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.buf)
	r.writePos = -1
}
