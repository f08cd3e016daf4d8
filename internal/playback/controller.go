package playback

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/bryanchriswhite/clipkiosk/internal/decoder"
	"github.com/bryanchriswhite/clipkiosk/internal/frame"
	"github.com/bryanchriswhite/clipkiosk/internal/input"
	"github.com/bryanchriswhite/clipkiosk/internal/logger"
	"github.com/bryanchriswhite/clipkiosk/internal/media"
	"github.com/bryanchriswhite/clipkiosk/internal/pace"
	"github.com/rs/zerolog"
)

// Renderer draws video frames. Implemented by render.Renderer.
type Renderer interface {
	UploadAndDraw(f frame.Frame)
	Redraw()
	Clear()
}

// Swapper presents the back buffer.
type Swapper interface {
	Swap()
}

// Config holds the playback tuning knobs.
type Config struct {
	QueueCapacity int
	JoinTimeout   time.Duration
	TickInterval  time.Duration
	Decoder       decoder.Options
}

// Controller runs playback sessions on the calling goroutine, which must
// own the GL context.
type Controller struct {
	cfg      Config
	renderer Renderer
	swapper  Swapper
	events   input.Source
	pool     *frame.Pool
	state    atomic.Int32
	newStage stageFactory
	log      *zerolog.Logger
}

// New creates an idle controller. pool buffers must match the frame size
// of every source later passed to Play.
func New(cfg Config, r Renderer, sw Swapper, events input.Source, pool *frame.Pool) *Controller {
	if cfg.JoinTimeout <= 0 {
		cfg.JoinTimeout = 2 * time.Second
	}
	c := &Controller{
		cfg:      cfg,
		renderer: r,
		swapper:  sw,
		events:   events,
		pool:     pool,
		log:      logger.WithComponent("playback"),
	}
	c.newStage = func(src media.Source, q *frame.Queue, p *frame.Pool, cancel *atomic.Bool) stage {
		return decoder.New(src, cfg.Decoder, q, p, cancel)
	}
	return c
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	return State(c.state.Load())
}

func (c *Controller) setState(s State) {
	old := State(c.state.Swap(int32(s)))
	c.log.Debug().Stringer("from", old).Stringer("to", s).Msg("Playback state changed")
}

// Play shows src until the user interrupts it, the stream ends or ctx is
// cancelled. It blocks, and always returns with the controller Idle and
// the decoder process killed.
func (c *Controller) Play(ctx context.Context, src media.Source) (Result, error) {
	if !c.state.CompareAndSwap(int32(Idle), int32(Starting)) {
		return Result{}, ErrBusy
	}
	defer c.setState(Idle)

	sess := newSession(src, c.cfg.QueueCapacity, c.pool, c.newStage)
	if err := sess.dec.Start(); err != nil {
		c.log.Error().Err(err).Str("path", src.Path).Msg("Failed to start decoder")
		return Result{}, fmt.Errorf("failed to play %s: %w", src.Name(), err)
	}
	sess.launch()
	c.setState(Playing)

	c.log.Info().Str("clip", src.Name()).Msg("Playback started")

	res := c.loop(ctx, sess)

	c.setState(Stopping)
	if !sess.stop(c.cfg.JoinTimeout) {
		res.JoinTimedOut = true
		c.log.Warn().
			Str("clip", src.Name()).
			Dur("timeout", c.cfg.JoinTimeout).
			Msg("Decoder did not stop in time, abandoning it")
	}
	sess.queue.Drain(c.pool.Put)

	stats := sess.dec.Stats()
	res.FramesRead = stats.FramesRead
	res.FramesDropped = stats.FramesDropped

	c.log.Info().
		Str("clip", src.Name()).
		Stringer("reason", res.Reason).
		Int("frames_shown", res.FramesShown).
		Uint64("frames_dropped", res.FramesDropped).
		Msg("Playback stopped")

	return res, nil
}

// loop is the per-tick body of the Playing state.
func (c *Controller) loop(ctx context.Context, sess *session) Result {
	var res Result
	limiter := pace.NewLimiter(c.cfg.TickInterval)

	for {
		if ctx.Err() != nil {
			res.Reason = Shutdown
			return res
		}
		if ev, ok := c.terminalEvent(); ok {
			res.Reason = UserCancel
			res.Quit = ev.Kind == input.Quit
			c.log.Debug().Stringer("event", ev.Kind).Msg("Playback interrupted")
			return res
		}

		// Read before polling so a frame queued just before exit is not lost
		decoderDone := sess.finished()
		f, ok := sess.queue.Poll()
		switch {
		case ok:
			c.renderer.UploadAndDraw(f)
			c.pool.Put(f)
			res.FramesShown++
		case decoderDone:
			res.Reason = EndOfStream
			return res
		case res.FramesShown > 0:
			c.renderer.Redraw()
		default:
			c.renderer.Clear()
		}

		c.swapper.Swap()
		limiter.Wait()
	}
}

// terminalEvent drains pending input and returns the first event that ends
// playback.
func (c *Controller) terminalEvent() (input.Event, bool) {
	var found input.Event
	ok := false
	for _, ev := range c.events.Poll() {
		if !ev.Terminal() {
			continue
		}
		if !ok || ev.Kind == input.Quit {
			found, ok = ev, true
		}
	}
	return found, ok
}
