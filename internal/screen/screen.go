// Package screen queries the X server for the default screen.
package screen

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/rs/zerolog"
)

// Info describes the default X11 screen.
type Info struct {
	Vendor  string
	Screens int
	Width   int
	Height  int
	Depth   int
	Root    uint32
}

// Probe connects to $DISPLAY and reports the default screen geometry.
func Probe() (Info, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return Info{}, fmt.Errorf("failed to connect to X server: %w", err)
	}
	defer conn.Close()

	setup := xproto.Setup(conn)
	screen := setup.DefaultScreen(conn)

	return Info{
		Vendor:  setup.Vendor,
		Screens: len(setup.Roots),
		Width:   int(screen.WidthInPixels),
		Height:  int(screen.HeightInPixels),
		Depth:   int(screen.RootDepth),
		Root:    uint32(screen.Root),
	}, nil
}

// Report runs probe and logs the result. A failure is only a warning; SDL
// may still find a display the probe could not.
func Report(log *zerolog.Logger, probe func() (Info, error)) (Info, bool) {
	info, err := probe()
	if err != nil {
		log.Warn().Err(err).Msg("X11 screen probe failed")
		return Info{}, false
	}

	log.Info().
		Str("vendor", info.Vendor).
		Int("screens", info.Screens).
		Int("width", info.Width).
		Int("height", info.Height).
		Int("depth", info.Depth).
		Msg("X11 screen detected")
	return info, true
}
