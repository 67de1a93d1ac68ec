package pace

import (
	"testing"
	"time"
)

// fakeClock drives a Limiter deterministically: sleeps advance the clock
// instead of blocking.
type fakeClock struct {
	t      time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Unix(0, 0)}
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.t = c.t.Add(d)
}

func newTestLimiter(fps float64) (*Limiter, *fakeClock) {
	clock := newFakeClock()
	l := NewLimiter(fps)
	l.now = clock.now
	l.sleep = clock.sleep
	return l, clock
}

func TestNewLimiter_InvalidRatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for non-positive fps")
		}
	}()
	NewLimiter(0)
}

func TestPeriod(t *testing.T) {
	l := NewLimiter(50)
	if got := l.Period(); got != 20*time.Millisecond {
		t.Errorf("Period = %v, want 20ms", got)
	}
}

func TestWait_PacesFastLoop(t *testing.T) {
	l, clock := newTestLimiter(60)
	frame := time.Second / 60

	l.Wait() // establishes the schedule, no sleep

	// Simulation takes 2ms per frame; the limiter should sleep off the
	// remaining ~14.6ms each time.
	for i := 0; i < 5; i++ {
		clock.t = clock.t.Add(2 * time.Millisecond)
		l.Wait()
	}

	if len(clock.sleeps) != 5 {
		t.Fatalf("Expected 5 sleeps, got %d", len(clock.sleeps))
	}
	for i, d := range clock.sleeps {
		if d <= 0 || d >= frame {
			t.Errorf("Sleep %d = %v, want within (0, %v)", i, d, frame)
		}
	}
}

func TestWait_NoSleepWhenBehindSchedule(t *testing.T) {
	l, clock := newTestLimiter(60)
	frame := time.Second / 60

	l.Wait()
	// One slow frame, slightly over budget but under the resync window.
	clock.t = clock.t.Add(frame + frame/2)
	l.Wait()

	if len(clock.sleeps) != 0 {
		t.Errorf("Expected no sleep while behind schedule, got %v", clock.sleeps)
	}
}

func TestWait_ResyncsAfterLongStall(t *testing.T) {
	l, clock := newTestLimiter(60)
	frame := time.Second / 60

	l.Wait()
	// A stall far past the resync threshold (e.g. debugger pause).
	clock.t = clock.t.Add(2 * time.Second)
	l.Wait()

	// The schedule must have resynced: the very next on-time frame sleeps
	// roughly a full period rather than running a catch-up burst.
	l.Wait()
	if len(clock.sleeps) != 1 {
		t.Fatalf("Expected exactly 1 sleep after resync, got %d", len(clock.sleeps))
	}
	if d := clock.sleeps[0]; d <= 0 || d > frame {
		t.Errorf("Post-resync sleep = %v, want within (0, %v]", d, frame)
	}
}

func TestSetRate_ResetsSchedule(t *testing.T) {
	l, clock := newTestLimiter(60)
	l.Wait()

	l.SetRate(30)
	if got := l.Period(); got != time.Second/30 {
		t.Errorf("Period = %v, want %v", got, time.Second/30)
	}

	// First Wait after a rate change re-establishes the schedule.
	l.Wait()
	if len(clock.sleeps) != 0 {
		t.Errorf("Expected no sleep right after SetRate, got %v", clock.sleeps)
	}
}
