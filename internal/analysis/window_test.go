// SPDX-License-Identifier: MIT
package analysis

import "testing"

// ringSource is a plain slice-backed CaptureSource.
type ringSource struct {
	ring     []float32
	writePos int
}

func (r *ringSource) WritePosition() int { return r.writePos }
func (r *ringSource) Len() int           { return len(r.ring) }
func (r *ringSource) ReadSlice(dst []float32, start int) {
	for i := range dst {
		dst[i] = r.ring[(start+i)%len(r.ring)]
	}
}

func TestTrailingStart(t *testing.T) {
	tests := []struct {
		name                  string
		writePos, length, ring int
		want                  int
	}{
		{"No wrap", 100, 30, 1000, 70},
		{"Ends at write position zero", 0, 10, 100, 90},
		{"Wraps", 5, 10, 100, 95},
		{"Whole ring", 40, 100, 100, 40},
		{"Longer than ring", 3, 250, 100, 53},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := trailingStart(tt.writePos, tt.length, tt.ring)
			if got != tt.want {
				t.Errorf("trailingStart(%d, %d, %d) = %d, want %d", tt.writePos, tt.length, tt.ring, got, tt.want)
			}
			if got < 0 || got >= tt.ring {
				t.Errorf("start %d outside ring", got)
			}
		})
	}
}

func TestCaptureWindowsRefresh(t *testing.T) {
	src := &ringSource{ring: make([]float32, 16)}
	for i := range src.ring {
		src.ring[i] = float32(i)
	}

	w := newCaptureWindows(4, 8)

	src.writePos = 12
	if !w.refresh(src) {
		t.Fatal("refresh() = false for a ready source")
	}
	for i, v := range w.rms {
		if v != float32(8+i) {
			t.Errorf("rms[%d] = %v, want %v", i, v, 8+i)
		}
	}
	for i, v := range w.fft {
		if v != float32(4+i) {
			t.Errorf("fft[%d] = %v, want %v", i, v, 4+i)
		}
	}

	// Window straddling the ring boundary.
	src.writePos = 2
	w.refresh(src)
	want := []float32{10, 11, 12, 13, 14, 15, 0, 1}
	for i, v := range w.fft {
		if v != want[i] {
			t.Errorf("wrapped fft[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestCaptureWindowsRefreshNotReady(t *testing.T) {
	w := newCaptureWindows(2, 2)
	w.rms[0] = 7

	if w.refresh(&ringSource{ring: make([]float32, 8), writePos: -1}) {
		t.Error("refresh() = true for negative write position")
	}
	if w.refresh(&ringSource{writePos: 0}) {
		t.Error("refresh() = true for empty ring")
	}
	if w.rms[0] != 7 {
		t.Error("windows modified by a skipped refresh")
	}
}
