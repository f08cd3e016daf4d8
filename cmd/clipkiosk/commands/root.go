package commands

import (
	"fmt"
	"os"

	"github.com/bryanchriswhite/clipkiosk/internal/config"
	"github.com/bryanchriswhite/clipkiosk/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "clipkiosk",
		Short: "clipkiosk - touchscreen video clip kiosk",
		Long: `clipkiosk shows a full-screen grid of buttons, one per video file in the
media directory. Touching a button plays the clip full screen; any touch or
key press during playback returns to the menu.

Features:
  • Hardware-assisted decoding through an ffmpeg subprocess
  • NV12 frames converted to RGB on the GPU
  • Bounded frame queue that drops late frames instead of stalling
  • Persistent YAML configuration`,
		SilenceUsage: true,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/clipkiosk/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("media-dir", "", "directory to scan for clips")
	rootCmd.PersistentFlags().Int("fps", 0, "decode and display frame rate")

	// Bind flags to viper
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("media.dir", rootCmd.PersistentFlags().Lookup("media-dir"))
	viper.BindPFlag("video.frame_rate", rootCmd.PersistentFlags().Lookup("fps"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// loadConfig reads the config file, applies flag overrides, configures the
// logger and validates the result.
func loadConfig() (*config.Manager, *config.Config, error) {
	configMgr, err := config.NewManager(GetConfigFile())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	configMgr.ApplyOverrides(viper.GetViper())

	cfg := configMgr.Get()
	logger.Init(cfg.LogLevel, cfg.LogPretty)

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration in %s: %w", configMgr.GetConfigPath(), err)
	}
	return configMgr, cfg, nil
}
