// Package pattern provides a deterministic frame and tone source used by
// the demo command and by tests. It stands in for an emulation core:
// something that fills a pixel plane once per frame and produces audio
// samples on demand.
package pattern

import (
	"math"
	"sync"
)

// Generator renders an animated color gradient and an audible test tone.
// Frames are a pure function of the frame counter, so tests can predict
// every pixel. Pixel format is packed ARGB, matching the frame buffer.
type Generator struct {
	mu    sync.Mutex
	frame uint32
	phase float64

	// ToneHz is the test tone frequency. Zero silences the tone.
	ToneHz float64
	// SampleRate is the audio sample rate used for tone synthesis.
	SampleRate int
}

// New creates a Generator with a 440 Hz tone at 44.1 kHz.
func New() *Generator {
	return &Generator{
		ToneHz:     440,
		SampleRate: 44100,
	}
}

// Frame returns the number of frames rendered so far.
func (g *Generator) Frame() uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.frame
}

// Reset rewinds the animation to frame zero.
func (g *Generator) Reset() {
	g.mu.Lock()
	g.frame = 0
	g.mu.Unlock()
}

// PixelAt computes the gradient color for a coordinate at a given frame
// counter. Exposed so tests can check delivered frames pixel for pixel.
func PixelAt(x, y int, frame uint32) uint32 {
	r := uint32(x) + frame
	g := uint32(y) + frame
	b := uint32(x) + uint32(y)
	return 0xFF000000 | (r&0xFF)<<16 | (g&0xFF)<<8 | b&0xFF
}

// RenderFrame fills the plane with the gradient for the current frame
// counter, then advances the counter.
func (g *Generator) RenderFrame(plane []uint32, width, height int) {
	g.mu.Lock()
	frame := g.frame
	g.frame++
	g.mu.Unlock()

	for y := 0; y < height; y++ {
		row := plane[y*width : (y+1)*width]
		for x := range row {
			row[x] = PixelAt(x, y, frame)
		}
	}
}

// ReadSamples synthesizes the test tone into dst and returns len(dst).
func (g *Generator) ReadSamples(dst []int16) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ToneHz == 0 || g.SampleRate == 0 {
		for i := range dst {
			dst[i] = 0
		}
		return len(dst)
	}

	step := 2 * math.Pi * g.ToneHz / float64(g.SampleRate)
	for i := range dst {
		dst[i] = int16(math.Sin(g.phase) * 6000)
		g.phase += step
		if g.phase > 2*math.Pi {
			g.phase -= 2 * math.Pi
		}
	}
	return len(dst)
}
