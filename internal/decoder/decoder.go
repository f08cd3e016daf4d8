// Package decoder runs the external ffmpeg process for one playback session
// and feeds its raw NV12 output into a frame queue.
package decoder

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync/atomic"

	"github.com/bryanchriswhite/clipkiosk/internal/frame"
	"github.com/bryanchriswhite/clipkiosk/internal/logger"
	"github.com/bryanchriswhite/clipkiosk/internal/media"
	"github.com/rs/zerolog"
)

// Stats counts what the read loop did.
type Stats struct {
	FramesRead    uint64
	FramesDropped uint64
}

// Decoder owns one ffmpeg subprocess. Start spawns it, Run reads frames
// until end of stream or cancellation, Kill unblocks a pending read from
// another goroutine.
type Decoder struct {
	src    media.Source
	opts   Options
	queue  *frame.Queue
	pool   *frame.Pool
	cancel *atomic.Bool

	cmd    *exec.Cmd
	stdout io.ReadCloser
	newCmd func(name string, args ...string) *exec.Cmd

	framesRead atomic.Uint64
	dropped    atomic.Uint64
	exited     atomic.Bool

	log *zerolog.Logger
}

// New prepares a decoder. cancel is the session's shared flag; the decoder
// only reads it.
func New(src media.Source, opts Options, queue *frame.Queue, pool *frame.Pool, cancel *atomic.Bool) *Decoder {
	return &Decoder{
		src:    src,
		opts:   opts,
		queue:  queue,
		pool:   pool,
		cancel: cancel,
		newCmd: exec.Command,
		log:    logger.WithComponent("decoder"),
	}
}

// Start spawns the decode process. Its stderr is discarded.
func (d *Decoder) Start() error {
	if d.cmd != nil {
		return errors.New("decoder already started")
	}
	if d.pool.BufferSize() != d.src.FrameSize() {
		return fmt.Errorf("pool buffers are %d bytes, source frames are %d", d.pool.BufferSize(), d.src.FrameSize())
	}

	cmd := d.newCmd(d.opts.FFmpegPath, Args(d.src, d.opts)...)
	cmd.Stderr = nil

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to get stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", d.opts.FFmpegPath, err)
	}

	d.cmd = cmd
	d.stdout = stdout

	d.log.Info().
		Str("path", d.src.Path).
		Int("pid", cmd.Process.Pid).
		Int("width", d.src.Width).
		Int("height", d.src.Height).
		Int("fps", d.src.FrameRate).
		Msg("Decoder started")

	return nil
}

// Run reads frames until the stream ends or the cancel flag is seen, then
// kills and reaps the process. Must be called once, after a successful Start.
func (d *Decoder) Run() {
	defer d.terminate()

	reader := bufio.NewReaderSize(d.stdout, d.src.FrameSize())

	for {
		if d.cancel.Load() {
			d.log.Debug().Msg("Decoder cancelled")
			return
		}

		buf := d.pool.Get()
		n, err := io.ReadFull(reader, buf)
		if err != nil {
			d.pool.Put(buf)
			// EOF, a partial frame, or a pipe closed by Kill all end the stream
			d.log.Debug().Err(err).Int("bytes_read", n).Msg("End of decoder stream")
			return
		}
		d.framesRead.Add(1)

		if !d.queue.Put(frame.Frame(buf)) {
			d.dropped.Add(1)
			d.pool.Put(buf)
		}
	}
}

// terminate kills the process unconditionally and waits for it to exit.
func (d *Decoder) terminate() {
	d.Kill()
	_ = d.cmd.Wait()
	d.exited.Store(true)

	stats := d.Stats()
	d.log.Info().
		Str("path", d.src.Path).
		Uint64("frames_read", stats.FramesRead).
		Uint64("frames_dropped", stats.FramesDropped).
		Msg("Decoder stopped")
}

// Kill force-terminates the process. Safe to call from any goroutine and
// more than once; errors are ignored.
func (d *Decoder) Kill() {
	if d.cmd == nil || d.cmd.Process == nil {
		return
	}
	_ = d.cmd.Process.Kill()
}

// Exited reports whether the process has been reaped.
func (d *Decoder) Exited() bool {
	return d.exited.Load()
}

// Pid returns the process id, or 0 before Start.
func (d *Decoder) Pid() int {
	if d.cmd == nil || d.cmd.Process == nil {
		return 0
	}
	return d.cmd.Process.Pid
}

// Stats returns the read and drop counters.
func (d *Decoder) Stats() Stats {
	return Stats{
		FramesRead:    d.framesRead.Load(),
		FramesDropped: d.dropped.Load(),
	}
}
