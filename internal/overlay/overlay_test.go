package overlay

import (
	"strings"
	"testing"
)

func cellAt(cells []Cell, x, y int) Cell {
	return cells[y*Columns+x]
}

func TestPuts_WritesGlyphsAtCursor(t *testing.T) {
	c := New()
	c.Puts("HELLO")

	cells := c.Snapshot(nil)
	for i, want := range []byte("HELLO") {
		if got := cellAt(cells, i, 0).Glyph; got != want {
			t.Errorf("Cell (%d,0): expected %q, got %q", i, want, got)
		}
	}
	if got := cellAt(cells, 5, 0).Glyph; got != 0 {
		t.Errorf("Cell after text should be empty, got %q", got)
	}
}

func TestPuts_NewlineResetsColumn(t *testing.T) {
	c := New()
	c.Puts("AB\nC")

	cells := c.Snapshot(nil)
	if got := cellAt(cells, 0, 1).Glyph; got != 'C' {
		t.Errorf("Expected 'C' at (0,1), got %q", got)
	}
}

func TestPuts_ColorEscapeSelectsColor(t *testing.T) {
	c := New()
	c.Puts(string([]byte{'A', 243, 'B'}))

	cells := c.Snapshot(nil)
	if got := cellAt(cells, 0, 0).Color; got != 0 {
		t.Errorf("Expected color 0 before escape, got %d", got)
	}
	if got := cellAt(cells, 1, 0).Color; got != 3 {
		t.Errorf("Expected color 3 after escape byte 243, got %d", got)
	}
	if got := cellAt(cells, 1, 0).Glyph; got != 'B' {
		t.Errorf("Color escape consumed the following glyph, got %q", got)
	}
}

func TestPuts_WrapsAtRightEdge(t *testing.T) {
	c := New()
	c.Puts(strings.Repeat("x", Columns+1))

	cells := c.Snapshot(nil)
	if got := cellAt(cells, Columns-1, 0).Glyph; got != 'x' {
		t.Errorf("Expected 'x' at right edge, got %q", got)
	}
	if got := cellAt(cells, 0, 1).Glyph; got != 'x' {
		t.Errorf("Expected wrap onto next row, got %q", got)
	}
}

func TestPuts_ScrollsPastBottomRow(t *testing.T) {
	c := New()
	c.MovePrintf(0, 0, "top")
	for i := 0; i < Rows; i++ {
		c.Printf("\nrow")
	}

	cells := c.Snapshot(nil)
	// "top" scrolled off; a "row" line moved into row 0.
	if got := cellAt(cells, 0, 0).Glyph; got != 'r' {
		t.Errorf("Expected scrolled content at row 0, got %q", got)
	}
	// Bottom row holds the newest line.
	if got := cellAt(cells, 0, Rows-1).Glyph; got != 'r' {
		t.Errorf("Expected newest line at bottom row, got %q", got)
	}
}

func TestMovePrintf_PositionsAndFormats(t *testing.T) {
	c := New()
	c.MovePrintf(10, 5, "fps %d", 60)

	cells := c.Snapshot(nil)
	want := "fps 60"
	for i := range want {
		if got := cellAt(cells, 10+i, 5).Glyph; got != want[i] {
			t.Errorf("Cell (%d,5): expected %q, got %q", 10+i, want[i], got)
		}
	}
}

func TestMovePrintf_ClampsOutOfRangeCursor(t *testing.T) {
	c := New()
	c.MovePrintf(-5, Rows+10, "A")

	cells := c.Snapshot(nil)
	if got := cellAt(cells, 0, Rows-1).Glyph; got != 'A' {
		t.Errorf("Expected clamped write at (0,%d), got %q", Rows-1, got)
	}
}

func TestClear_EmptiesGrid(t *testing.T) {
	c := New()
	c.Puts("junk")
	c.Clear()

	cells := c.Snapshot(nil)
	for i, cell := range cells {
		if cell.Glyph != 0 {
			t.Fatalf("Cell %d not cleared: %q", i, cell.Glyph)
		}
	}
	c.Puts("Z")
	if got := cellAt(c.Snapshot(nil), 0, 0).Glyph; got != 'Z' {
		t.Errorf("Cursor not homed after clear, got %q at origin", got)
	}
}

func TestToggle_FlipsVisibility(t *testing.T) {
	c := New()
	if c.Visible() {
		t.Error("Console should start hidden")
	}
	if !c.Toggle() {
		t.Error("First toggle should report visible")
	}
	if !c.Visible() {
		t.Error("Visible should report true after toggle")
	}
	if c.Toggle() {
		t.Error("Second toggle should report hidden")
	}
}

func TestSnapshot_ReusesProvidedSlice(t *testing.T) {
	c := New()
	buf := make([]Cell, Columns*Rows)
	got := c.Snapshot(buf)
	if &got[0] != &buf[0] {
		t.Error("Snapshot reallocated a slice that was already large enough")
	}
}
