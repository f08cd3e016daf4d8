package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefaultsValidate(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("Defaults().Validate() = %v, want nil", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"odd width", func(c *Config) { c.Video.Width = 1281 }, "even"},
		{"odd height", func(c *Config) { c.Video.Height = 719 }, "even"},
		{"zero rate", func(c *Config) { c.Video.FrameRate = 0 }, "frame_rate"},
		{"zero capacity", func(c *Config) { c.Video.QueueCapacity = 0 }, "queue_capacity"},
		{"zero timeout", func(c *Config) { c.Video.JoinTimeout = 0 }, "join_timeout"},
		{"no rows", func(c *Config) { c.Menu.Rows = 0 }, "menu.rows"},
		{"bad extension", func(c *Config) { c.Media.Extension = "mp4" }, "extension"},
		{"empty dir", func(c *Config) { c.Media.Dir = "" }, "media.dir"},
		{"no ffmpeg", func(c *Config) { c.Video.FFmpegPath = "" }, "ffmpeg_path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Defaults()
			tt.mutate(c)
			err := c.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %q, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestTickInterval(t *testing.T) {
	v := VideoConfig{FrameRate: 30}
	if got, want := v.TickInterval(), time.Second/30; got != want {
		t.Errorf("TickInterval() = %v, want %v", got, want)
	}
	if got := (VideoConfig{}).TickInterval(); got != 0 {
		t.Errorf("TickInterval() with zero rate = %v, want 0", got)
	}
}

func TestNewManagerCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	if got := m.Get().Video.QueueCapacity; got != 3 {
		t.Errorf("QueueCapacity = %d, want 3", got)
	}
	if m.GetConfigPath() != path {
		t.Errorf("GetConfigPath() = %q, want %q", m.GetConfigPath(), path)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "video:\n  frame_rate: 25\n  join_timeout: 500ms\nmenu:\n  rows: 2\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	cfg := m.Get()
	if cfg.Video.FrameRate != 25 {
		t.Errorf("FrameRate = %d, want 25", cfg.Video.FrameRate)
	}
	if cfg.Video.JoinTimeout != 500*time.Millisecond {
		t.Errorf("JoinTimeout = %v, want 500ms", cfg.Video.JoinTimeout)
	}
	if cfg.Menu.Rows != 2 {
		t.Errorf("Rows = %d, want 2", cfg.Menu.Rows)
	}
	if cfg.Video.Width != 1280 {
		t.Errorf("Width = %d, want default 1280", cfg.Video.Width)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	m.Get().Menu.Rows = 99
	if m.Get().Menu.Rows == 99 {
		t.Error("mutating Get() result changed the manager's config")
	}
}

func TestSetValueRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	m, err := NewManager(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := m.SetValue("video.frame_rate", "24"); err != nil {
		t.Fatalf("SetValue frame_rate: %v", err)
	}
	if err := m.SetValue("video.join_timeout", "3s"); err != nil {
		t.Fatalf("SetValue join_timeout: %v", err)
	}
	if err := m.SetValue("display.fullscreen", "false"); err != nil {
		t.Fatalf("SetValue fullscreen: %v", err)
	}

	reloaded, err := NewManager(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg := reloaded.Get()
	if cfg.Video.FrameRate != 24 {
		t.Errorf("FrameRate = %d, want 24", cfg.Video.FrameRate)
	}
	if cfg.Video.JoinTimeout != 3*time.Second {
		t.Errorf("JoinTimeout = %v, want 3s", cfg.Video.JoinTimeout)
	}
	if cfg.Display.Fullscreen {
		t.Error("Fullscreen = true, want false")
	}

	got, err := reloaded.GetValue("video.frame_rate")
	if err != nil {
		t.Fatalf("GetValue: %v", err)
	}
	if got != 24 {
		t.Errorf("GetValue(video.frame_rate) = %v (%T), want 24", got, got)
	}
}

func TestSetValueRejects(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if err := m.SetValue("video.nope", "1"); err == nil {
		t.Error("SetValue(unknown key) = nil, want error")
	}
	if err := m.SetValue("video.width", "1281"); err == nil {
		t.Error("SetValue(odd width) = nil, want validation error")
	}
	if m.Get().Video.Width != 1280 {
		t.Errorf("Width = %d after rejected set, want 1280", m.Get().Video.Width)
	}
}

func TestApplyOverrides(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	v := viper.New()
	v.Set("log_level", "debug")
	v.Set("media.dir", "/srv/clips")
	v.Set("video.frame_rate", 60)
	m.ApplyOverrides(v)

	cfg := m.Get()
	if cfg.LogLevel != "debug" || cfg.Media.Dir != "/srv/clips" || cfg.Video.FrameRate != 60 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}
