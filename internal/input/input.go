// Package input defines the kiosk's input events independently of the
// windowing library, and maps device coordinates into surface pixels.
package input

import (
	"image"
	"math"
)

// Kind identifies an input event.
type Kind int

const (
	// PointerDown is a mouse button press or a finger touching the screen.
	PointerDown Kind = iota + 1
	// KeyDown is any key press.
	KeyDown
	// Quit is a window-close request.
	Quit
)

func (k Kind) String() string {
	switch k {
	case PointerDown:
		return "pointer-down"
	case KeyDown:
		return "key-down"
	case Quit:
		return "quit"
	default:
		return "unknown"
	}
}

// Event is one input event. Pos is in surface pixels for PointerDown,
// Key is the key name for KeyDown.
type Event struct {
	Kind Kind
	Pos  image.Point
	Key  string
}

// Terminal reports whether e ends video playback. Every pointer, key and
// close event does.
func (e Event) Terminal() bool {
	return e.Kind == PointerDown || e.Kind == KeyDown || e.Kind == Quit
}

// Source yields the events that arrived since the last call. Never blocks.
type Source interface {
	Poll() []Event
}

// Surface maps device coordinates to surface pixels.
type Surface struct {
	Width  int
	Height int
}

// Touch maps normalised touch coordinates (0..1) to pixels.
func (s Surface) Touch(nx, ny float32) image.Point {
	return s.clamp(image.Pt(
		int(math.Floor(float64(nx)*float64(s.Width))),
		int(math.Floor(float64(ny)*float64(s.Height))),
	))
}

// Mouse maps window pixel coordinates to surface pixels. windowW/H is the
// size the windowing system reports, which may differ from the surface
// when the display scales.
func (s Surface) Mouse(x, y int32, windowW, windowH int32) image.Point {
	if windowW <= 0 || windowH <= 0 || (int(windowW) == s.Width && int(windowH) == s.Height) {
		return s.clamp(image.Pt(int(x), int(y)))
	}
	return s.clamp(image.Pt(
		int(x)*s.Width/int(windowW),
		int(y)*s.Height/int(windowH),
	))
}

func (s Surface) clamp(p image.Point) image.Point {
	if p.X < 0 {
		p.X = 0
	}
	if p.Y < 0 {
		p.Y = 0
	}
	if s.Width > 0 && p.X >= s.Width {
		p.X = s.Width - 1
	}
	if s.Height > 0 && p.Y >= s.Height {
		p.Y = s.Height - 1
	}
	return p
}
