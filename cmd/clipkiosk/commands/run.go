package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bryanchriswhite/clipkiosk/internal/kiosk"
	"github.com/bryanchriswhite/clipkiosk/internal/logger"
	"github.com/bryanchriswhite/clipkiosk/internal/media"
	"github.com/bryanchriswhite/clipkiosk/internal/screen"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the kiosk",
	Long: `Open the full-screen menu with one button per clip in the media directory.

Touch a button to play its clip. Any touch or key press during playback
returns to the menu. Press the exit key (Escape by default) or close the
window to quit.`,
	Example: `  # Start with the default configuration
  clipkiosk run

  # Use another media directory
  clipkiosk run --media-dir /srv/clips

  # Start with debug logging
  clipkiosk run --log-level debug`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	configMgr, cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.WithComponent("main")
	log.Info().Str("config", configMgr.GetConfigPath()).Msg("Configuration loaded")

	sources, err := media.ScanSources(cfg.Media.Dir, cfg.Media.Extension, cfg.Video.Width, cfg.Video.Height, cfg.Video.FrameRate)
	if err != nil {
		return err
	}
	log.Info().Int("clips", len(sources)).Str("dir", cfg.Media.Dir).Msg("Media scanned")

	screen.Report(log, screen.Probe)

	app, err := kiosk.New(cfg, sources)
	if err != nil {
		return fmt.Errorf("failed to start kiosk: %w", err)
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.Run(ctx)
}
