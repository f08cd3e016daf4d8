package commands

import (
	"fmt"
	"os/exec"

	"github.com/bryanchriswhite/clipkiosk/internal/frame"
	"github.com/bryanchriswhite/clipkiosk/internal/screen"
	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check the display and decoder setup",
	Long: `Connect to the X server and report the default screen, show the configured
display and video settings, and check that the ffmpeg binary can be found.`,
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	_, cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var failed bool

	fmt.Println("X11:")
	info, err := screen.Probe()
	if err != nil {
		fmt.Printf("  ❌ %v\n", err)
		failed = true
	} else {
		fmt.Printf("  Vendor:  %s\n", info.Vendor)
		fmt.Printf("  Screens: %d\n", info.Screens)
		fmt.Printf("  Default: %dx%d, depth %d, root 0x%x\n", info.Width, info.Height, info.Depth, info.Root)
	}

	fmt.Println("\nConfigured:")
	fmt.Printf("  Display: %dx%d (fullscreen: %t)\n", cfg.Display.Width, cfg.Display.Height, cfg.Display.Fullscreen)
	fmt.Printf("  Video:   %dx%d @ %d fps, %d bytes per frame\n",
		cfg.Video.Width, cfg.Video.Height, cfg.Video.FrameRate, frame.Size(cfg.Video.Width, cfg.Video.Height))
	fmt.Printf("  Queue:   %d frames, join timeout %s\n", cfg.Video.QueueCapacity, cfg.Video.JoinTimeout)

	fmt.Println("\nDecoder:")
	path, err := exec.LookPath(cfg.Video.FFmpegPath)
	if err != nil {
		fmt.Printf("  ❌ %v\n", err)
		failed = true
	} else {
		fmt.Printf("  ✅ %s\n", path)
	}

	if failed {
		return fmt.Errorf("probe found problems")
	}
	return nil
}
