// Package display owns the SDL window, its OpenGL 2.1 context and the
// input event stream. Every method must run on the thread that called Open.
package display

import (
	"fmt"

	"github.com/bryanchriswhite/clipkiosk/internal/config"
	"github.com/bryanchriswhite/clipkiosk/internal/input"
	"github.com/bryanchriswhite/clipkiosk/internal/logger"
	"github.com/rs/zerolog"
	"github.com/veandco/go-sdl2/sdl"
)

// Window is the kiosk's single fullscreen window.
type Window struct {
	window  *sdl.Window
	context sdl.GLContext
	surface input.Surface
	log     *zerolog.Logger
}

// Open initialises SDL video, creates the window and makes a double
// buffered OpenGL 2.1 context current. Vsync is disabled; the caller paces
// frames itself.
func Open(title string, cfg config.DisplayConfig) (*Window, error) {
	log := logger.WithComponent("display")

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("failed to initialize SDL: %w", err)
	}

	sdl.SetHint(sdl.HINT_VIDEO_X11_NET_WM_BYPASS_COMPOSITOR, "1")
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 2)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_SHOWN)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}

	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(cfg.Width), int32(cfg.Height), flags)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	glctx, err := window.GLCreateContext()
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("failed to create GL context: %w", err)
	}
	if err := window.GLMakeCurrent(glctx); err != nil {
		sdl.GLDeleteContext(glctx)
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("failed to make GL context current: %w", err)
	}

	if err := sdl.GLSetSwapInterval(0); err != nil {
		log.Warn().Err(err).Msg("Failed to disable vsync")
	}

	if !cfg.ShowCursor {
		if _, err := sdl.ShowCursor(sdl.DISABLE); err != nil {
			log.Warn().Err(err).Msg("Failed to hide cursor")
		}
	}

	w, h := window.GLGetDrawableSize()
	win := &Window{
		window:  window,
		context: glctx,
		surface: input.Surface{Width: int(w), Height: int(h)},
		log:     log,
	}

	log.Info().
		Int32("width", w).
		Int32("height", h).
		Bool("fullscreen", cfg.Fullscreen).
		Msg("Display window created")

	return win, nil
}

// Size returns the drawable size in pixels.
func (w *Window) Size() (width, height int) {
	return w.surface.Width, w.surface.Height
}

// Swap presents the back buffer.
func (w *Window) Swap() {
	w.window.GLSwap()
}

// Poll drains the SDL event queue and returns the events the kiosk cares
// about, in arrival order. Mouse events synthesised from touches are
// skipped so a tap is reported once.
func (w *Window) Poll() []input.Event {
	var events []input.Event
	winW, winH := w.window.GetSize()

	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		switch e := ev.(type) {
		case *sdl.QuitEvent:
			events = append(events, input.Event{Kind: input.Quit})

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_CLOSE {
				events = append(events, input.Event{Kind: input.Quit})
			}

		case *sdl.MouseButtonEvent:
			if e.Type != sdl.MOUSEBUTTONDOWN || e.Which == uint32(sdl.TOUCH_MOUSEID) {
				continue
			}
			events = append(events, input.Event{
				Kind: input.PointerDown,
				Pos:  w.surface.Mouse(e.X, e.Y, winW, winH),
			})

		case *sdl.TouchFingerEvent:
			if e.Type != sdl.FINGERDOWN {
				continue
			}
			events = append(events, input.Event{
				Kind: input.PointerDown,
				Pos:  w.surface.Touch(e.X, e.Y),
			})

		case *sdl.KeyboardEvent:
			if e.Type != sdl.KEYDOWN || e.Repeat != 0 {
				continue
			}
			events = append(events, input.Event{
				Kind: input.KeyDown,
				Key:  sdl.GetKeyName(e.Keysym.Sym),
			})
		}
	}

	if len(events) > 0 {
		w.log.Trace().Int("count", len(events)).Msg("Input events")
	}
	return events
}

// Close destroys the GL context and window and shuts SDL down.
func (w *Window) Close() {
	sdl.GLDeleteContext(w.context)
	if err := w.window.Destroy(); err != nil {
		w.log.Warn().Err(err).Msg("Failed to destroy window")
	}
	sdl.Quit()
	w.log.Info().Msg("Display window closed")
}
