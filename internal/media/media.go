// Package media describes playable clips and discovers them on disk.
package media

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bryanchriswhite/clipkiosk/internal/logger"
)

// ErrNoMedia is returned by Scan when the directory holds no matching files.
var ErrNoMedia = errors.New("no media files found")

// Source is an immutable description of one clip to play. Width, Height and
// FrameRate are the process-wide decode settings, not properties of the file.
type Source struct {
	Path      string `json:"path"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	FrameRate int    `json:"frame_rate"`
}

// NewSource binds a path to the fixed decode geometry.
func NewSource(path string, width, height, frameRate int) Source {
	return Source{Path: path, Width: width, Height: height, FrameRate: frameRate}
}

// Name returns the file name shown on the clip's button.
func (s Source) Name() string {
	return filepath.Base(s.Path)
}

// FrameSize is the byte length of one NV12 frame at the source geometry.
func (s Source) FrameSize() int {
	return s.Width * s.Height * 3 / 2
}

// Scan lists regular files in dir whose extension matches ext (case
// insensitive), sorted lexicographically by name, as paths joined to dir.
func Scan(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read media directory %s: %w", dir, err)
	}

	ext = strings.ToLower(ext)
	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if strings.ToLower(filepath.Ext(e.Name())) != ext {
			continue
		}
		names = append(names, e.Name())
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s (extension %s)", ErrNoMedia, dir, ext)
	}

	sort.Strings(names)

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
	}

	logger.WithComponent("media").Debug().
		Str("dir", dir).
		Int("count", len(paths)).
		Msg("Media directory scanned")

	return paths, nil
}

// ScanSources is Scan followed by NewSource for every path.
func ScanSources(dir, ext string, width, height, frameRate int) ([]Source, error) {
	paths, err := Scan(dir, ext)
	if err != nil {
		return nil, err
	}
	sources := make([]Source, len(paths))
	for i, p := range paths {
		sources[i] = NewSource(p, width, height, frameRate)
	}
	return sources, nil
}
