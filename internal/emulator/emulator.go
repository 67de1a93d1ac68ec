// Package emulator provides the producer-side driver: it runs the
// simulation core on a dedicated goroutine at a fixed cadence, handles
// the edge-triggered UI hotkeys, and publishes each completed frame
// through the frame handoff.
package emulator

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/usrshare/nesalizerX/internal/audio"
	"github.com/usrshare/nesalizerX/internal/input"
	"github.com/usrshare/nesalizerX/internal/overlay"
	"github.com/usrshare/nesalizerX/internal/pace"
	"github.com/usrshare/nesalizerX/internal/video"
)

// Disabled marks a hotkey as unbound. Input code 0 is a valid key on
// most devices, so absence has to be explicit.
const Disabled = -1

// audioChunkSamples is how many samples the driver pulls from the
// simulation per frame. At 44.1 kHz and 60 FPS a frame is ~735 samples;
// pulling a little more keeps the device fed across scheduling jitter.
const audioChunkSamples = 1024

// Renderer is the simulation core: it fills a pixel plane once per
// logical frame. What the pixels mean is entirely its business.
type Renderer interface {
	RenderFrame(plane []uint32, width, height int)
}

// Resetter is optionally implemented by cores that support a soft reset.
type Resetter interface {
	Reset()
}

// AudioSource is optionally implemented by cores that generate audio.
// ReadSamples fills dst and returns the number of samples produced.
type AudioSource interface {
	ReadSamples(dst []int16) int
}

// Hotkeys maps input codes to the driver's UI actions. Set unused
// entries to Disabled.
type Hotkeys struct {
	// Quit fires while held, not on the press edge.
	Quit int
	// OverlayModifier must be held together with an OverlayToggle press
	// to flip the debug console.
	OverlayModifier int
	// OverlayToggle is edge triggered.
	OverlayToggle int
	// Reset is edge triggered and soft-resets the core if it supports it.
	Reset int
}

// DisabledHotkeys returns a Hotkeys with every action unbound.
func DisabledHotkeys() Hotkeys {
	return Hotkeys{
		Quit:            Disabled,
		OverlayModifier: Disabled,
		OverlayToggle:   Disabled,
		Reset:           Disabled,
	}
}

// Stats counts frame deliveries since the driver started.
type Stats struct {
	// Delivered is the number of frames the presenter accepted.
	Delivered uint64
	// Dropped is the number of frames discarded under backpressure.
	Dropped uint64
}

// Config wires a Driver's collaborators. Video, Input and Source are
// required; the rest are optional.
type Config struct {
	Video   *video.Buffer
	Input   *input.Snapshot
	Source  Renderer
	Console *overlay.Console // status line + debugger toggle target
	Audio   *audio.Ring      // receives core audio when Source is an AudioSource
	Limiter *pace.Limiter    // nil runs unthrottled (tests)
	Hotkeys Hotkeys
	// OnQuit runs once when the quit hotkey fires. It must not block.
	OnQuit func()
}

// Driver owns the emulation goroutine.
type Driver struct {
	cfg       Config
	source    AudioSource // nil when the core is silent
	delivered atomic.Uint64
	dropped   atomic.Uint64

	stop     chan struct{}
	done     chan struct{}
	quitOnce sync.Once
	startMu  sync.Mutex
	started  bool
}

// New creates a Driver. It does not start the goroutine; call Start.
func New(cfg Config) (*Driver, error) {
	if cfg.Video == nil {
		return nil, fmt.Errorf("emulator: nil frame buffer")
	}
	if cfg.Input == nil {
		return nil, fmt.Errorf("emulator: nil input snapshot")
	}
	if cfg.Source == nil {
		return nil, fmt.Errorf("emulator: nil renderer")
	}
	d := &Driver{
		cfg:  cfg,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	if src, ok := cfg.Source.(AudioSource); ok && cfg.Audio != nil {
		d.source = src
	}
	return d, nil
}

// Start launches the emulation goroutine. Calling it twice panics; the
// driver is single-shot like the process it drives.
func (d *Driver) Start() {
	d.startMu.Lock()
	defer d.startMu.Unlock()
	if d.started {
		panic("emulator: driver started twice")
	}
	d.started = true
	go d.run()
}

// Stop terminates the emulation goroutine, waits for it to finish, and
// then shuts down the frame handoff so a blocked presenter wakes. Safe
// to call more than once.
func (d *Driver) Stop() {
	d.quitOnce.Do(func() { close(d.stop) })
	<-d.done
	d.cfg.Video.RequestShutdown()
}

// Done is closed when the emulation goroutine has exited.
func (d *Driver) Done() <-chan struct{} {
	return d.done
}

// Stats returns frame delivery counters. Safe from any goroutine.
func (d *Driver) Stats() Stats {
	return Stats{
		Delivered: d.delivered.Load(),
		Dropped:   d.dropped.Load(),
	}
}

func (d *Driver) run() {
	defer close(d.done)

	var samples [audioChunkSamples]int16

	for {
		select {
		case <-d.stop:
			return
		default:
		}

		if d.cfg.Limiter != nil {
			d.cfg.Limiter.Wait()
		}

		// Input edges are evaluated every iteration, whether or not the
		// frame below ends up dropped: video backpressure must not add
		// input latency.
		d.cfg.Input.Cycle(d.handleHotkeys)

		buf := d.cfg.Video
		d.cfg.Source.RenderFrame(buf.Plane(), buf.Width(), buf.Height())
		if buf.Publish() {
			d.delivered.Add(1)
		} else {
			d.dropped.Add(1)
		}

		if d.source != nil {
			n := d.source.ReadSamples(samples[:])
			d.cfg.Audio.Write(samples[:n])
		}

		if c := d.cfg.Console; c != nil {
			s := d.Stats()
			c.MovePrintf(0, 0, "frames %-10d dropped %-10d", s.Delivered, s.Dropped)
		}
	}
}

func (d *Driver) handleHotkeys(v input.View) {
	hk := d.cfg.Hotkeys

	if hk.Quit >= 0 && v.Held(hk.Quit) {
		d.quitOnce.Do(func() {
			close(d.stop)
			if d.cfg.OnQuit != nil {
				d.cfg.OnQuit()
			}
		})
	}

	if hk.OverlayToggle >= 0 && v.Pressed(hk.OverlayToggle) &&
		(hk.OverlayModifier < 0 || v.Held(hk.OverlayModifier)) {
		if d.cfg.Console != nil {
			d.cfg.Console.Toggle()
		}
	}

	if hk.Reset >= 0 && v.Pressed(hk.Reset) {
		if r, ok := d.cfg.Source.(Resetter); ok {
			r.Reset()
		}
	}
}
