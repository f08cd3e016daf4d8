// Package menu lays out the clip buttons, hit-tests pointer positions
// against them and rasterises the menu screen.
package menu

import (
	"image"

	"github.com/bryanchriswhite/clipkiosk/internal/media"
)

// Layout holds the grid parameters.
type Layout struct {
	Width  int // surface width in pixels
	Height int // surface height in pixels
	Rows   int
	Margin int
	Gap    int
}

// Button is one clip button.
type Button struct {
	Index  int
	Row    int
	Col    int
	Rect   image.Rectangle
	Source media.Source
}

// Grid is the laid-out menu.
type Grid struct {
	Rows    int
	Cols    int
	Buttons []Button
}

// Columns returns ceil(n/rows), at least 1.
func Columns(n, rows int) int {
	if rows <= 0 {
		rows = 1
	}
	cols := (n + rows - 1) / rows
	if cols < 1 {
		cols = 1
	}
	return cols
}

// Place returns the row-major grid cell for button index i.
func Place(i, cols int) (row, col int) {
	return i / cols, i % cols
}

// Build lays out one button per source, row-major, with a fixed row count.
func (l Layout) Build(sources []media.Source) Grid {
	cols := Columns(len(sources), l.Rows)

	usableW := l.Width - 2*l.Margin
	usableH := l.Height - 2*l.Margin
	btnW := usableW/cols - l.Gap
	btnH := usableH/l.Rows - l.Gap

	g := Grid{Rows: l.Rows, Cols: cols, Buttons: make([]Button, len(sources))}
	for i, src := range sources {
		row, col := Place(i, cols)
		left := l.Margin + col*(btnW+l.Gap)
		top := l.Margin + row*(btnH+l.Gap)
		g.Buttons[i] = Button{
			Index:  i,
			Row:    row,
			Col:    col,
			Rect:   image.Rect(left, top, left+btnW, top+btnH),
			Source: src,
		}
	}
	return g
}

// HitTest returns the button containing p.
func (g Grid) HitTest(p image.Point) (Button, bool) {
	for _, b := range g.Buttons {
		if p.In(b.Rect) {
			return b, true
		}
	}
	return Button{}, false
}
