// Package audio implements the sample ring buffer between the emulation
// goroutine and the audio device callback.
//
// The producer writes whole chunks of generated samples; when the buffer
// is full, the oldest samples are dropped so the producer never blocks on
// a slow device, matching the frame handoff's drop policy. The device
// side always receives a full read: on underrun the remainder is filled
// with silence, which is what a hardware callback contract expects.
package audio

import (
	"fmt"
	"sync"
)

// Ring is a fixed-capacity ring buffer of signed 16-bit samples. Safe for
// one writer and one reader on different goroutines.
type Ring struct {
	mu    sync.Mutex
	buf   []int16
	read  int
	write int
	count int
}

// NewRing creates a ring holding up to capacity samples. Panics if
// capacity is not positive.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		panic(fmt.Sprintf("audio: invalid ring capacity %d", capacity))
	}
	return &Ring{buf: make([]int16, capacity)}
}

// Len returns the number of buffered samples.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Cap returns the ring's capacity in samples.
func (r *Ring) Cap() int {
	return len(r.buf)
}

// Write buffers samples without blocking. If there is not enough room,
// the oldest buffered samples are dropped to make space; if the chunk
// itself exceeds capacity, only its newest samples are kept. Returns the
// number of samples accepted from p (always len(p), capped at capacity).
func (r *Ring) Write(p []int16) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(p) > len(r.buf) {
		p = p[len(p)-len(r.buf):]
	}
	n := len(p)
	if n == 0 {
		return 0
	}

	if overflow := r.count + n - len(r.buf); overflow > 0 {
		r.read = (r.read + overflow) % len(r.buf)
		r.count -= overflow
	}

	first := len(r.buf) - r.write
	if first >= n {
		copy(r.buf[r.write:], p)
	} else {
		copy(r.buf[r.write:], p[:first])
		copy(r.buf, p[first:])
	}
	r.write = (r.write + n) % len(r.buf)
	r.count += n
	return n
}

// Read fills dst from the buffer and returns the number of real samples
// delivered. Any remainder of dst is zero-filled, so dst is always fully
// usable by the device.
func (r *Ring) Read(dst []int16) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(dst)
	if n > r.count {
		n = r.count
	}
	first := len(r.buf) - r.read
	if first >= n {
		copy(dst[:n], r.buf[r.read:])
	} else {
		copy(dst[:first], r.buf[r.read:])
		copy(dst[first:n], r.buf)
	}
	r.read = (r.read + n) % len(r.buf)
	r.count -= n

	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
	return n
}
