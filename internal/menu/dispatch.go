package menu

import (
	"strings"

	"github.com/bryanchriswhite/clipkiosk/internal/input"
)

// Action is what the menu screen should do after a batch of input.
type Action struct {
	Quit   bool
	Play   bool
	Button Button
}

// Dispatch applies events in order and returns the first decisive action.
// Closing the window or pressing exitKey quits; a pointer-down on a button
// plays it. Everything else is ignored.
func (g Grid) Dispatch(events []input.Event, exitKey string) Action {
	for _, ev := range events {
		switch ev.Kind {
		case input.Quit:
			return Action{Quit: true}
		case input.KeyDown:
			if exitKey != "" && strings.EqualFold(ev.Key, exitKey) {
				return Action{Quit: true}
			}
		case input.PointerDown:
			if b, ok := g.HitTest(ev.Pos); ok {
				return Action{Play: true, Button: b}
			}
		}
	}
	return Action{}
}
