package pattern

import "testing"

func TestRenderFrame_MatchesPixelAt(t *testing.T) {
	g := New()
	const w, h = 16, 8
	plane := make([]uint32, w*h)

	g.RenderFrame(plane, w, h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if got, want := plane[y*w+x], PixelAt(x, y, 0); got != want {
				t.Fatalf("Pixel (%d,%d) = 0x%08X, want 0x%08X", x, y, got, want)
			}
		}
	}
}

func TestRenderFrame_AdvancesCounter(t *testing.T) {
	g := New()
	plane := make([]uint32, 4)

	g.RenderFrame(plane, 2, 2)
	g.RenderFrame(plane, 2, 2)

	if got := g.Frame(); got != 2 {
		t.Errorf("Frame = %d, want 2", got)
	}
	// Second frame differs from the first at the same coordinate.
	if plane[0] == PixelAt(0, 0, 0) {
		t.Error("Frame 1 rendered identically to frame 0")
	}
	if got, want := plane[0], PixelAt(0, 0, 1); got != want {
		t.Errorf("Pixel (0,0) at frame 1 = 0x%08X, want 0x%08X", got, want)
	}
}

func TestReset_RewindsAnimation(t *testing.T) {
	g := New()
	plane := make([]uint32, 4)
	g.RenderFrame(plane, 2, 2)
	g.Reset()
	if got := g.Frame(); got != 0 {
		t.Errorf("Frame after Reset = %d, want 0", got)
	}
}

func TestPixelAt_OpaqueAlpha(t *testing.T) {
	if PixelAt(3, 5, 100)>>24 != 0xFF {
		t.Error("Expected fully opaque alpha channel")
	}
}

func TestReadSamples_FillsBuffer(t *testing.T) {
	g := New()
	dst := make([]int16, 512)
	if n := g.ReadSamples(dst); n != len(dst) {
		t.Fatalf("ReadSamples returned %d, want %d", n, len(dst))
	}

	// A sine tone has both positive and negative excursions.
	var hasPos, hasNeg bool
	for _, s := range dst {
		if s > 1000 {
			hasPos = true
		}
		if s < -1000 {
			hasNeg = true
		}
	}
	if !hasPos || !hasNeg {
		t.Error("Expected an audible waveform, got near-silence")
	}
}

func TestReadSamples_SilentWhenToneDisabled(t *testing.T) {
	g := New()
	g.ToneHz = 0
	dst := []int16{99, -99, 99}
	g.ReadSamples(dst)
	for i, s := range dst {
		if s != 0 {
			t.Errorf("Sample %d = %d, want silence", i, s)
		}
	}
}
