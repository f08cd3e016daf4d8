// Package kiosk ties the window, renderer, menu and playback controller
// together and runs the menu loop.
package kiosk

import (
	"context"

	"github.com/bryanchriswhite/clipkiosk/internal/config"
	"github.com/bryanchriswhite/clipkiosk/internal/decoder"
	"github.com/bryanchriswhite/clipkiosk/internal/display"
	"github.com/bryanchriswhite/clipkiosk/internal/frame"
	"github.com/bryanchriswhite/clipkiosk/internal/logger"
	"github.com/bryanchriswhite/clipkiosk/internal/media"
	"github.com/bryanchriswhite/clipkiosk/internal/menu"
	"github.com/bryanchriswhite/clipkiosk/internal/pace"
	"github.com/bryanchriswhite/clipkiosk/internal/playback"
	"github.com/bryanchriswhite/clipkiosk/internal/render"
	"github.com/bryanchriswhite/clipkiosk/internal/shader"
	"github.com/rs/zerolog"
)

const windowTitle = "clipkiosk"

// App owns every long-lived resource of the kiosk. It must be created,
// run and closed on one OS-locked goroutine.
type App struct {
	cfg        *config.Config
	window     *display.Window
	renderer   *render.Renderer
	grid       menu.Grid
	pool       *frame.Pool
	controller *playback.Controller
	log        *zerolog.Logger
}

// New opens the window, creates the GL resources and lays out one button
// per source.
func New(cfg *config.Config, sources []media.Source) (*App, error) {
	log := logger.WithComponent("kiosk")

	if len(sources) == 0 {
		return nil, media.ErrNoMedia
	}

	win, err := display.Open(windowTitle, cfg.Display)
	if err != nil {
		return nil, err
	}
	width, height := win.Size()

	renderer, err := render.New(render.Config{
		VideoWidth:    cfg.Video.Width,
		VideoHeight:   cfg.Video.Height,
		SurfaceWidth:  width,
		SurfaceHeight: height,
		ColorSpace:    shader.BT601,
	})
	if err != nil {
		win.Close()
		return nil, err
	}

	layout := menu.Layout{
		Width:  width,
		Height: height,
		Rows:   cfg.Menu.Rows,
		Margin: cfg.Menu.Margin,
		Gap:    cfg.Menu.Gap,
	}
	grid := layout.Build(sources)
	renderer.SetMenu(grid.Render(width, height, menu.DefaultStyle))

	// one buffer per queue slot, one in the decoder's hands, one being uploaded
	pool := frame.NewPool(frame.Size(cfg.Video.Width, cfg.Video.Height), cfg.Video.QueueCapacity+2)

	controller := playback.New(playback.Config{
		QueueCapacity: cfg.Video.QueueCapacity,
		JoinTimeout:   cfg.Video.JoinTimeout,
		TickInterval:  cfg.Video.TickInterval(),
		Decoder: decoder.Options{
			FFmpegPath: cfg.Video.FFmpegPath,
			HWAccel:    cfg.Video.HWAccel,
			Codec:      cfg.Video.Codec,
		},
	}, renderer, win, win, pool)

	log.Info().
		Int("buttons", len(grid.Buttons)).
		Int("rows", grid.Rows).
		Int("cols", grid.Cols).
		Msg("Kiosk ready")

	return &App{
		cfg:        cfg,
		window:     win,
		renderer:   renderer,
		grid:       grid,
		pool:       pool,
		controller: controller,
		log:        log,
	}, nil
}

// Grid returns the laid-out menu.
func (a *App) Grid() menu.Grid {
	return a.grid
}

// Run shows the menu until the user quits or ctx is cancelled. Touching a
// button plays its clip and returns to the menu afterwards.
func (a *App) Run(ctx context.Context) error {
	limiter := pace.NewLimiter(a.cfg.Video.TickInterval())

	for {
		if ctx.Err() != nil {
			a.log.Info().Msg("Shutting down")
			return nil
		}

		action := a.grid.Dispatch(a.window.Poll(), a.cfg.Menu.ExitKey)
		switch {
		case action.Quit:
			a.log.Info().Msg("Exit requested from menu")
			return nil

		case action.Play:
			a.log.Info().
				Int("button", action.Button.Index).
				Str("clip", action.Button.Source.Name()).
				Msg("Button pressed")

			res, err := a.Play(ctx, action.Button.Source)
			if err != nil {
				// a clip that cannot start leaves the kiosk on the menu
				a.log.Error().Err(err).Msg("Playback failed")
			} else if res.Quit {
				return nil
			}
			limiter.Reset()
			continue
		}

		a.renderer.DrawMenu()
		a.window.Swap()
		limiter.Wait()
	}
}

// Play runs one clip to completion on the controller.
func (a *App) Play(ctx context.Context, src media.Source) (playback.Result, error) {
	return a.controller.Play(ctx, src)
}

// Close releases GL resources and the window.
func (a *App) Close() {
	a.renderer.Delete()
	a.window.Close()

	a.log.Debug().
		Uint64("pool_misses", a.pool.Misses()).
		Msg("Kiosk closed")
}
