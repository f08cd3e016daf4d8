package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config represents the application configuration
type Config struct {
	LogLevel  string `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
	LogPretty bool   `json:"log_pretty" yaml:"log_pretty" mapstructure:"log_pretty"`

	Media   MediaConfig   `json:"media" yaml:"media" mapstructure:"media"`
	Display DisplayConfig `json:"display" yaml:"display" mapstructure:"display"`
	Video   VideoConfig   `json:"video" yaml:"video" mapstructure:"video"`
	Menu    MenuConfig    `json:"menu" yaml:"menu" mapstructure:"menu"`
}

// MediaConfig selects which files become buttons.
type MediaConfig struct {
	Dir       string `json:"dir" yaml:"dir" mapstructure:"dir"`
	Extension string `json:"extension" yaml:"extension" mapstructure:"extension"`
}

// DisplayConfig represents the kiosk output surface
type DisplayConfig struct {
	Width      int  `json:"width" yaml:"width" mapstructure:"width"`
	Height     int  `json:"height" yaml:"height" mapstructure:"height"`
	Fullscreen bool `json:"fullscreen" yaml:"fullscreen" mapstructure:"fullscreen"`
	ShowCursor bool `json:"show_cursor" yaml:"show_cursor" mapstructure:"show_cursor"`
}

// VideoConfig fixes the decoded frame geometry and rate for the whole process.
// The decoder is always asked for this size and rate regardless of the source file.
type VideoConfig struct {
	Width         int           `json:"width" yaml:"width" mapstructure:"width"`
	Height        int           `json:"height" yaml:"height" mapstructure:"height"`
	FrameRate     int           `json:"frame_rate" yaml:"frame_rate" mapstructure:"frame_rate"`
	QueueCapacity int           `json:"queue_capacity" yaml:"queue_capacity" mapstructure:"queue_capacity"`
	JoinTimeout   time.Duration `json:"join_timeout" yaml:"join_timeout" mapstructure:"join_timeout"`
	FFmpegPath    string        `json:"ffmpeg_path" yaml:"ffmpeg_path" mapstructure:"ffmpeg_path"`
	HWAccel       string        `json:"hwaccel" yaml:"hwaccel" mapstructure:"hwaccel"`
	Codec         string        `json:"codec" yaml:"codec" mapstructure:"codec"`
}

// MenuConfig represents the button grid
type MenuConfig struct {
	Rows    int    `json:"rows" yaml:"rows" mapstructure:"rows"`
	Margin  int    `json:"margin" yaml:"margin" mapstructure:"margin"`
	Gap     int    `json:"gap" yaml:"gap" mapstructure:"gap"`
	ExitKey string `json:"exit_key" yaml:"exit_key" mapstructure:"exit_key"`
}

// Defaults returns the default configuration
func Defaults() *Config {
	return &Config{
		LogLevel:  "info",
		LogPretty: true,
		Media: MediaConfig{
			Dir:       "videos",
			Extension: ".mp4",
		},
		Display: DisplayConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: true,
			ShowCursor: true,
		},
		Video: VideoConfig{
			Width:         1280,
			Height:        720,
			FrameRate:     30,
			QueueCapacity: 3,
			JoinTimeout:   2 * time.Second,
			FFmpegPath:    "ffmpeg",
			HWAccel:       "auto",
		},
		Menu: MenuConfig{
			Rows:    3,
			Margin:  20,
			Gap:     10,
			ExitKey: "Escape",
		},
	}
}

// Validate checks the values the pipeline depends on.
func (c *Config) Validate() error {
	var errs []error

	if c.Media.Dir == "" {
		errs = append(errs, errors.New("media.dir must be set"))
	}
	if !strings.HasPrefix(c.Media.Extension, ".") {
		errs = append(errs, fmt.Errorf("media.extension %q must start with a dot", c.Media.Extension))
	}
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		errs = append(errs, fmt.Errorf("display size %dx%d must be positive", c.Display.Width, c.Display.Height))
	}

	// 4:2:0 needs one chroma pair per 2x2 block
	if c.Video.Width <= 0 || c.Video.Height <= 0 || c.Video.Width%2 != 0 || c.Video.Height%2 != 0 {
		errs = append(errs, fmt.Errorf("video size %dx%d must be positive and even", c.Video.Width, c.Video.Height))
	}
	if c.Video.FrameRate <= 0 {
		errs = append(errs, fmt.Errorf("video.frame_rate %d must be positive", c.Video.FrameRate))
	}
	if c.Video.QueueCapacity <= 0 {
		errs = append(errs, fmt.Errorf("video.queue_capacity %d must be positive", c.Video.QueueCapacity))
	}
	if c.Video.JoinTimeout <= 0 {
		errs = append(errs, fmt.Errorf("video.join_timeout %s must be positive", c.Video.JoinTimeout))
	}
	if c.Video.FFmpegPath == "" {
		errs = append(errs, errors.New("video.ffmpeg_path must be set"))
	}

	if c.Menu.Rows <= 0 {
		errs = append(errs, fmt.Errorf("menu.rows %d must be positive", c.Menu.Rows))
	}
	if c.Menu.Margin < 0 || c.Menu.Gap < 0 {
		errs = append(errs, fmt.Errorf("menu margin/gap must not be negative"))
	}

	return errors.Join(errs...)
}

// TickInterval is the duration of one display tick at the video frame rate.
func (v VideoConfig) TickInterval() time.Duration {
	if v.FrameRate <= 0 {
		return 0
	}
	return time.Second / time.Duration(v.FrameRate)
}
