package decoder

import (
	"fmt"
	"strconv"

	"github.com/bryanchriswhite/clipkiosk/internal/media"
)

// PixelFormat is the raw layout requested from ffmpeg. It must match
// frame.Size: one luma byte per pixel plus one CbCr pair per 2x2 block.
const PixelFormat = "nv12"

// Options selects the decode binary and hardware path.
type Options struct {
	// FFmpegPath is the ffmpeg binary (looked up on PATH if not absolute).
	FFmpegPath string
	// HWAccel is passed as -hwaccel when non-empty ("auto", "drm", "vaapi", ...).
	HWAccel string
	// Codec forces a decoder with -c:v when non-empty (e.g. "h264_v4l2m2m").
	Codec string
}

// Args builds the ffmpeg argument list that decodes src to a raw NV12
// stream on stdout at the source's fixed size and rate.
func Args(src media.Source, opts Options) []string {
	args := []string{"-nostdin", "-loglevel", "error"}
	if opts.HWAccel != "" {
		args = append(args, "-hwaccel", opts.HWAccel)
	}
	if opts.Codec != "" {
		args = append(args, "-c:v", opts.Codec)
	}
	args = append(args,
		"-i", src.Path,
		"-an",
		"-f", "rawvideo",
		"-pix_fmt", PixelFormat,
		"-s", fmt.Sprintf("%dx%d", src.Width, src.Height),
		"-r", strconv.Itoa(src.FrameRate),
		"pipe:1",
	)
	return args
}
