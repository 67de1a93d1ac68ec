// Package pace implements a wall-clock frame-rate governor for the
// emulation goroutine. The simulation runs as fast as it can between
// Wait calls; Wait sleeps off whatever is left of the current frame
// period so frames are produced at a steady cadence.
package pace

import (
	"fmt"
	"time"
)

// DefaultFPS is the NTSC frame rate the emulation core targets.
const DefaultFPS = 60.0

// resyncThreshold is how far behind schedule the limiter may fall before
// it abandons the old deadline instead of bursting frames to catch up.
const resyncThreshold = 4

// Limiter paces a loop to a target frame rate. Not safe for concurrent
// use; it belongs to the one goroutine it paces.
type Limiter struct {
	period   time.Duration
	deadline time.Time
	now      func() time.Time
	sleep    func(time.Duration)
}

// NewLimiter creates a limiter for the given frame rate. Panics if fps is
// not positive.
func NewLimiter(fps float64) *Limiter {
	l := &Limiter{
		now:   time.Now,
		sleep: time.Sleep,
	}
	l.SetRate(fps)
	return l
}

// SetRate changes the target frame rate and resets the schedule.
func (l *Limiter) SetRate(fps float64) {
	if fps <= 0 {
		panic(fmt.Sprintf("pace: invalid frame rate %v", fps))
	}
	l.period = time.Duration(float64(time.Second) / fps)
	l.deadline = time.Time{}
}

// Period returns the current frame period.
func (l *Limiter) Period() time.Duration {
	return l.period
}

// Wait sleeps until the next frame deadline and advances the schedule.
// If the caller has stalled for more than a few frame periods, the
// schedule resyncs to the present instead of running a burst of
// back-to-back frames.
func (l *Limiter) Wait() {
	now := l.now()
	if l.deadline.IsZero() {
		l.deadline = now.Add(l.period)
		return
	}

	if behind := now.Sub(l.deadline); behind > resyncThreshold*l.period {
		l.deadline = now.Add(l.period)
		return
	}

	if d := l.deadline.Sub(now); d > 0 {
		l.sleep(d)
	}
	l.deadline = l.deadline.Add(l.period)
}
