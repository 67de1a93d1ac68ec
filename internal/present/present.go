// Package present implements the presentation loop: a dedicated goroutine
// that blocks on the frame handoff, pushes each delivered frame to the
// display surface, and composites the debug overlay on top.
package present

import (
	"fmt"
	"sync/atomic"

	"github.com/usrshare/nesalizerX/internal/video"
)

// State identifies where the presentation loop currently is.
type State int32

const (
	// StateIdle means the loop has not entered its wait yet.
	StateIdle State = iota
	// StateWaitingForFrame means the loop is blocked on the handoff.
	StateWaitingForFrame
	// StatePresenting means a frame is being pushed to the surface.
	StatePresenting
	// StateShuttingDown is terminal; the loop has exited or is exiting.
	StateShuttingDown
)

// String returns a readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWaitingForFrame:
		return "waiting"
	case StatePresenting:
		return "presenting"
	case StateShuttingDown:
		return "shutting down"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Surface is the display collaborator: it receives whole frames and makes
// them visible. Implementations are called from the presentation goroutine
// only.
type Surface interface {
	// Blit copies the frame's pixels toward the display target.
	Blit(pixels []uint32, width, height int) error
	// Present makes the blitted frame (plus any overlay drawn since the
	// blit) visible.
	Present() error
}

// Overlay is an optional collaborator composited between Blit and
// Present. It has no bearing on the handoff protocol.
type Overlay interface {
	Composite(Surface) error
}

// Loop consumes frames from a video.Buffer and drives a Surface.
type Loop struct {
	buffer  *video.Buffer
	surface Surface
	overlay Overlay // may be nil
	events  func()  // may be nil; runs once per consumed frame
	state   atomic.Int32
}

// Config wires a Loop's collaborators.
type Config struct {
	Buffer  *video.Buffer
	Surface Surface
	// Overlay, when non-nil, is composited after every blit.
	Overlay Overlay
	// Events, when non-nil, runs after a frame is consumed and before it
	// is blitted. The event source uses it to pump OS events on the
	// presenter's schedule.
	Events func()
}

// NewLoop creates a presentation loop. Buffer and Surface are required.
func NewLoop(cfg Config) (*Loop, error) {
	if cfg.Buffer == nil {
		return nil, fmt.Errorf("present: nil frame buffer")
	}
	if cfg.Surface == nil {
		return nil, fmt.Errorf("present: nil surface")
	}
	return &Loop{
		buffer:  cfg.Buffer,
		surface: cfg.Surface,
		overlay: cfg.Overlay,
		events:  cfg.Events,
	}, nil
}

// State returns the loop's current state. Intended for tests and status
// display; the value may be stale by the time the caller looks at it.
func (l *Loop) State() State {
	return State(l.state.Load())
}

// Run blocks until shutdown is requested on the frame buffer or the
// surface fails. Each iteration waits for a frame, pumps events, blits,
// composites the overlay, and presents. Surface and overlay errors end
// the loop; the display going away is not something the presenter can
// recover from.
func (l *Loop) Run() error {
	defer l.state.Store(int32(StateShuttingDown))

	for {
		l.state.Store(int32(StateWaitingForFrame))
		frame, ok := l.buffer.WaitFrame()
		if !ok {
			return nil
		}
		l.state.Store(int32(StatePresenting))

		if l.events != nil {
			l.events()
		}

		if err := l.surface.Blit(frame, l.buffer.Width(), l.buffer.Height()); err != nil {
			return fmt.Errorf("blit failed: %w", err)
		}
		if l.overlay != nil {
			if err := l.overlay.Composite(l.surface); err != nil {
				return fmt.Errorf("overlay composite failed: %w", err)
			}
		}
		if err := l.surface.Present(); err != nil {
			return fmt.Errorf("present failed: %w", err)
		}
	}
}
