// Package video implements the frame handoff between the emulation
// goroutine and the presentation goroutine.
//
// The emulation goroutine renders into a back plane and publishes it once
// per frame. If the presenter is still busy with the previous frame, the
// new frame is dropped rather than queued: the producer never blocks on a
// slow compositor, and the presenter always sees the most recent completed
// frame or none at all. Only whole-plane handles are exchanged, so a frame
// is never observed half-written.
package video

import (
	"fmt"
	"sync"
)

const (
	// ScreenWidth is the NES screen width in pixels.
	ScreenWidth = 256
	// ScreenHeight is the NES screen height in pixels.
	ScreenHeight = 240
)

// Buffer is a double-buffered frame handoff with drop-on-backpressure
// semantics. One goroutine owns the producer side (WritePixel, Plane,
// Publish), another owns the consumer side (WaitFrame). RequestShutdown
// may be called from any goroutine.
type Buffer struct {
	width  int
	height int

	mu   sync.Mutex
	cond *sync.Cond

	// back is written by the producer between handoffs, front is read by
	// the presenter. Publish swaps the two slice headers under mu.
	back  []uint32
	front []uint32

	// readyForNext is set by the presenter when it starts waiting and
	// cleared when it picks up a frame. frameAvailable is only ever set
	// while readyForNext holds.
	readyForNext   bool
	frameAvailable bool
	shutdown       bool
}

// New creates a Buffer with two pre-allocated pixel planes of the given
// dimensions. Panics if either dimension is not positive; a zero-sized
// frame buffer indicates a broken caller, not a runtime condition.
func New(width, height int) *Buffer {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("video: invalid buffer dimensions %dx%d", width, height))
	}
	b := &Buffer{
		width:  width,
		height: height,
		back:   make([]uint32, width*height),
		front:  make([]uint32, width*height),
	}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Width returns the frame width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the frame height in pixels.
func (b *Buffer) Height() int { return b.height }

// WritePixel writes one packed color value into the producer plane.
// Coordinates outside the frame are a producer bug and panic.
func (b *Buffer) WritePixel(x, y int, color uint32) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		panic(fmt.Sprintf("video: pixel write out of bounds (%d,%d) on %dx%d frame",
			x, y, b.width, b.height))
	}
	b.back[y*b.width+x] = color
}

// Plane returns the producer plane for bulk writes. Only the producer
// goroutine may touch the returned slice, and only between Publish calls;
// after Publish the slice refers to whichever plane is then producer-owned,
// so callers must re-fetch it every frame.
func (b *Buffer) Plane() []uint32 {
	return b.back
}

// Publish hands the completed producer plane to the presenter. If the
// presenter has not yet consumed the previous frame, the new frame is
// dropped: no swap, no signal, and the producer simply overwrites the
// same plane next frame. Returns whether the frame was delivered; the
// result is advisory and producers normally ignore it.
//
// Publish never blocks beyond the short critical section.
func (b *Buffer) Publish() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.readyForNext || b.shutdown {
		return false
	}
	b.frameAvailable = true
	b.back, b.front = b.front, b.back
	b.cond.Signal()
	return true
}

// WaitFrame blocks until a frame is published or shutdown is requested.
// It returns the delivered plane and true, or nil and false on shutdown.
// The returned plane is exclusively the caller's until its next WaitFrame
// call; the producer is writing the other plane in the meantime.
func (b *Buffer) WaitFrame() ([]uint32, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.readyForNext = true
	for !b.frameAvailable && !b.shutdown {
		b.cond.Wait()
	}
	if b.shutdown {
		return nil, false
	}
	b.frameAvailable = false
	b.readyForNext = false
	return b.front, true
}

// RequestShutdown wakes a presenter blocked in WaitFrame and makes all
// future WaitFrame calls return immediately with no frame. Safe to call
// from any goroutine, and more than once.
func (b *Buffer) RequestShutdown() {
	b.mu.Lock()
	b.shutdown = true
	b.cond.Broadcast()
	b.mu.Unlock()
}
