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
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play PATH",
	Short: "Play one clip and exit",
	Long: `Play a single clip full screen without showing the menu. Any touch or key
press stops playback early.`,
	Example: `  # Play a clip at the configured size and rate
  clipkiosk play videos/intro.mp4

  # Play at 60 frames per second
  clipkiosk play videos/intro.mp4 --fps 60`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	_, cfg, err := loadConfig()
	if err != nil {
		return err
	}

	info, err := os.Stat(args[0])
	if err != nil {
		return fmt.Errorf("cannot play %s: %w", args[0], err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("cannot play %s: not a regular file", args[0])
	}

	src := media.NewSource(args[0], cfg.Video.Width, cfg.Video.Height, cfg.Video.FrameRate)

	app, err := kiosk.New(cfg, []media.Source{src})
	if err != nil {
		return fmt.Errorf("failed to start kiosk: %w", err)
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := app.Play(ctx, src)
	if err != nil {
		return err
	}

	logger.WithComponent("main").Info().
		Stringer("reason", res.Reason).
		Int("frames_shown", res.FramesShown).
		Uint64("frames_read", res.FramesRead).
		Uint64("frames_dropped", res.FramesDropped).
		Msg("Clip finished")
	return nil
}
