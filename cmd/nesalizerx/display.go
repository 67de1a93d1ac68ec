package main

import (
	"image/color"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/usrshare/nesalizerX/internal/input"
	"github.com/usrshare/nesalizerX/internal/overlay"
	"github.com/usrshare/nesalizerX/internal/video"
)

// Overlay glyph cell size on the logical 640x480 canvas. 128 columns at
// 5 pixels and 60 rows at 8 pixels cover the canvas exactly.
const (
	cellW = 5
	cellH = 8
)

// consolePalette maps the console's color indices to render colors.
var consolePalette = [8]color.RGBA{
	{0xFF, 0xFF, 0xFF, 0xFF}, // white (default)
	{0xFF, 0x60, 0x60, 0xFF}, // red
	{0x60, 0xFF, 0x60, 0xFF}, // green
	{0x60, 0x60, 0xFF, 0xFF}, // blue
	{0xFF, 0xFF, 0x60, 0xFF}, // yellow
	{0xFF, 0x60, 0xFF, 0xFF}, // magenta
	{0x60, 0xFF, 0xFF, 0xFF}, // cyan
	{0xA0, 0xA0, 0xA0, 0xFF}, // gray
}

// gameSurface adapts the presentation loop's Surface contract to Ebiten.
// Blit and Present run on the presentation goroutine; the Ebiten thread
// picks the latest presented pixels up in Draw. The mutex hands whole
// converted frames across, so the two schedules stay decoupled exactly
// like the producer and presenter are.
type gameSurface struct {
	mu        sync.Mutex
	rgba      []byte
	width     int
	height    int
	presented bool
}

// Blit converts the packed ARGB frame to RGBA bytes for Ebiten.
func (s *gameSurface) Blit(pixels []uint32, width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.rgba) != width*height*4 {
		s.rgba = make([]byte, width*height*4)
		s.width = width
		s.height = height
	}
	for i, p := range pixels {
		s.rgba[i*4] = byte(p >> 16)
		s.rgba[i*4+1] = byte(p >> 8)
		s.rgba[i*4+2] = byte(p)
		s.rgba[i*4+3] = byte(p >> 24)
	}
	return nil
}

// Present marks the blitted frame as ready for the next Draw.
func (s *gameSurface) Present() error {
	s.mu.Lock()
	s.presented = true
	s.mu.Unlock()
	return nil
}

// take copies the latest presented frame into the image, if there is one.
func (s *gameSurface) take(img *ebiten.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.presented {
		img.WritePixels(s.rgba)
		s.presented = false
	}
}

// Game implements the Ebiten game interface. Its Update acts as the
// OS-facing event source: it refreshes the shared input snapshot from
// the keyboard every tick. Draw shows the latest presented frame and
// composites the debug console over it.
type Game struct {
	surface  *gameSurface
	snapshot *input.Snapshot
	console  *overlay.Console

	frameImg *ebiten.Image
	rawKeys  []bool
	cells    []overlay.Cell
	face     text.Face
	exit     atomic.Bool
}

// NewGame creates the Ebiten-facing presenter frontend.
func NewGame(buf *video.Buffer, snapshot *input.Snapshot, console *overlay.Console) *Game {
	return &Game{
		surface:  &gameSurface{},
		snapshot: snapshot,
		console:  console,
		frameImg: ebiten.NewImage(buf.Width(), buf.Height()),
		rawKeys:  make([]bool, int(ebiten.KeyMax)+1),
		face:     text.NewGoXFace(basicfont.Face7x13),
	}
}

// Surface returns the presentation-loop side of the display.
func (g *Game) Surface() *gameSurface {
	return g.surface
}

// RequestExit makes the next Update terminate the Ebiten loop. Safe from
// any goroutine; the emulation driver calls it on the quit hotkey.
func (g *Game) RequestExit() {
	g.exit.Store(true)
}

// Update refreshes the input snapshot from the keyboard.
func (g *Game) Update() error {
	if g.exit.Load() {
		return ebiten.Termination
	}
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		g.rawKeys[int(k)] = ebiten.IsKeyPressed(k)
	}
	g.snapshot.Refresh(g.rawKeys)
	return nil
}

// Draw shows the most recently presented frame, stretched to the logical
// canvas, with the debug console on top when visible.
func (g *Game) Draw(screen *ebiten.Image) {
	g.surface.take(g.frameImg)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(
		float64(defaultWindowW)/float64(g.frameImg.Bounds().Dx()),
		float64(defaultWindowH)/float64(g.frameImg.Bounds().Dy()),
	)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(g.frameImg, op)

	if g.console != nil && g.console.Visible() {
		g.drawConsole(screen)
	}
}

// drawConsole rasterizes the overlay cell grid with the debug font.
func (g *Game) drawConsole(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, 0, 0, defaultWindowW, defaultWindowH,
		color.RGBA{0, 0, 0, 0x80}, false)

	g.cells = g.console.Snapshot(g.cells)
	scaleX := float64(cellW) / 7.0
	scaleY := float64(cellH) / 13.0

	var glyph [1]byte
	for y := 0; y < overlay.Rows; y++ {
		for x := 0; x < overlay.Columns; x++ {
			cell := g.cells[y*overlay.Columns+x]
			if cell.Glyph < 33 { // skip empty and space cells
				continue
			}
			glyph[0] = cell.Glyph

			op := &text.DrawOptions{}
			op.GeoM.Scale(scaleX, scaleY)
			op.GeoM.Translate(float64(x*cellW), float64(y*cellH))
			op.ColorScale.ScaleWithColor(consolePalette[cell.Color&7])
			text.Draw(screen, string(glyph[:]), g.face, op)
		}
	}
}

// Layout fixes the logical canvas; Ebiten letterboxes it into whatever
// window size the user drags out.
func (g *Game) Layout(_, _ int) (int, int) {
	return defaultWindowW, defaultWindowH
}
