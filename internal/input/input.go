// Package input implements the shared input snapshot and per-cycle edge
// detection.
//
// An OS-facing event source overwrites the "currently held" array at its
// own cadence, while the emulation goroutine evaluates held state and
// held/not-held transitions once per frame. Both sides go through one
// mutex; the history array used for edge detection is committed with a
// whole-array copy at the end of each cycle, inside the same critical
// section as the last read, so no reader ever sees a half-updated history.
package input

import (
	"fmt"
	"sync"
)

// Snapshot holds the live "currently held" state for every input code
// plus the previous cycle's copy. Safe for one writer (the event source)
// and any number of locked readers.
type Snapshot struct {
	mu   sync.Mutex
	held []bool
	last []bool
}

// New creates a Snapshot for the given number of input codes.
// Panics if size is not positive.
func New(size int) *Snapshot {
	if size <= 0 {
		panic(fmt.Sprintf("input: invalid snapshot size %d", size))
	}
	return &Snapshot{
		held: make([]bool, size),
		last: make([]bool, size),
	}
}

// Size returns the current number of input codes.
func (s *Snapshot) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.held)
}

// Refresh overwrites the whole held array from the device state. May be
// called at any cadence, independent of the frame rate. If the device
// reports a different number of codes (hot-plug), both the live and the
// history array are resized together under the lock; history for codes
// past the old length starts as not-held.
func (s *Snapshot) Refresh(raw []bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(raw) != len(s.held) {
		held := make([]bool, len(raw))
		last := make([]bool, len(raw))
		copy(last, s.last)
		s.held = held
		s.last = last
	}
	copy(s.held, raw)
}

// Held reports whether the given code is currently held. A code outside
// the snapshot's range reports false; device layouts vary and hotkey maps
// may reference codes a smaller device never delivers.
func (s *Snapshot) Held(code int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.heldLocked(code)
}

func (s *Snapshot) heldLocked(code int) bool {
	return code >= 0 && code < len(s.held) && s.held[code]
}

func (s *Snapshot) lastLocked(code int) bool {
	return code >= 0 && code < len(s.last) && s.last[code]
}

// View exposes the snapshot to edge-sensitive consumers during one cycle.
// A View is only valid inside the Cycle callback that produced it.
type View struct {
	s *Snapshot
}

// Held reports whether the code is currently held.
func (v View) Held(code int) bool {
	return v.s.heldLocked(code)
}

// Pressed reports whether the code transitioned to held this cycle.
func (v View) Pressed(code int) bool {
	return v.s.heldLocked(code) && !v.s.lastLocked(code)
}

// Released reports whether the code transitioned to not-held this cycle.
func (v View) Released(code int) bool {
	return !v.s.heldLocked(code) && v.s.lastLocked(code)
}

// Cycle runs fn under the snapshot lock with a View over the current
// state, then commits the history array (last = held, full copy) before
// releasing the lock. Call it exactly once per logical frame; every
// edge-sensitive consumer for the cycle must read inside fn, since the
// commit consumes the edges.
func (s *Snapshot) Cycle(fn func(View)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(View{s: s})
	copy(s.last, s.held)
}
