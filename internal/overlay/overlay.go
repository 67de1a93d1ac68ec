// Package overlay implements the on-screen debug console: a fixed grid of
// text cells the emulation side prints into and the presenter composites
// over each frame when the debugger view is toggled on.
//
// The grid is 128x60 cells, sized for a 640x480 window with a 5x8 glyph
// font. Printing and rendering happen on different goroutines, so all
// access goes through one mutex; the presenter takes a cell snapshot and
// rasterizes outside the lock.
package overlay

import (
	"fmt"
	"sync"
)

const (
	// Columns is the console width in cells.
	Columns = 128
	// Rows is the console height in cells.
	Rows = 60

	// colorEscape is the first byte value that selects a color instead of
	// printing a glyph: byte b >= colorEscape sets color b-colorEscape.
	colorEscape = 240
)

// Cell is one console cell: a printable ASCII glyph and a color index.
// A zero glyph renders as empty.
type Cell struct {
	Glyph byte
	Color uint8
}

// Console is the debug text grid. The zero value is not usable; call New.
type Console struct {
	mu      sync.Mutex
	cells   [Columns * Rows]Cell
	curX    int
	curY    int
	color   uint8
	visible bool
}

// New creates an empty console with the cursor at the origin.
func New() *Console {
	return &Console{}
}

// Toggle flips the console's visibility and returns the new state.
func (c *Console) Toggle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.visible = !c.visible
	return c.visible
}

// Visible reports whether the console should be composited.
func (c *Console) Visible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible
}

// Puts writes a string at the current cursor position. Printable ASCII
// (32..127) advances the cursor, '\n' and '\r' start a new line, and any
// byte >= 240 selects color byte-240 for subsequent glyphs. The cursor
// wraps at the right edge; printing past the bottom row scrolls the grid
// up one line.
func (c *Console) Puts(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := 0; i < len(s); i++ {
		c.putByte(s[i])
	}
}

// Printf formats and writes at the current cursor position.
func (c *Console) Printf(format string, args ...any) {
	c.Puts(fmt.Sprintf(format, args...))
}

// MovePrintf repositions the cursor, then formats and writes. Coordinates
// are clamped to the grid.
func (c *Console) MovePrintf(x, y int, format string, args ...any) {
	c.mu.Lock()
	c.curX = clamp(x, 0, Columns-1)
	c.curY = clamp(y, 0, Rows-1)
	c.mu.Unlock()
	c.Puts(fmt.Sprintf(format, args...))
}

// Clear empties the grid and homes the cursor. Color selection persists.
func (c *Console) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cells = [Columns * Rows]Cell{}
	c.curX, c.curY = 0, 0
}

// Snapshot copies the current cells into dst, which is allocated or grown
// as needed, and returns it. The returned slice is Columns*Rows long and
// safe to read without the lock.
func (c *Console) Snapshot(dst []Cell) []Cell {
	if cap(dst) < len(c.cells) {
		dst = make([]Cell, len(c.cells))
	}
	dst = dst[:len(c.cells)]
	c.mu.Lock()
	copy(dst, c.cells[:])
	c.mu.Unlock()
	return dst
}

func (c *Console) putByte(b byte) {
	switch {
	case b >= colorEscape:
		c.color = b - colorEscape
		return
	case b == '\n' || b == '\r':
		c.curX = 0
		c.curY++
	case b >= 32 && b < 128:
		c.cells[c.curY*Columns+c.curX] = Cell{Glyph: b, Color: c.color}
		c.curX++
	default:
		return
	}
	if c.curX >= Columns {
		c.curX = 0
		c.curY++
	}
	if c.curY >= Rows {
		c.scroll()
		c.curY = Rows - 1
	}
}

// scroll moves every row up by one and blanks the bottom row.
func (c *Console) scroll() {
	copy(c.cells[:], c.cells[Columns:])
	for i := (Rows - 1) * Columns; i < len(c.cells); i++ {
		c.cells[i] = Cell{}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
