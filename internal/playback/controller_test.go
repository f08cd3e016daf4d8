package playback

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bryanchriswhite/clipkiosk/internal/decoder"
	"github.com/bryanchriswhite/clipkiosk/internal/frame"
	"github.com/bryanchriswhite/clipkiosk/internal/input"
	"github.com/bryanchriswhite/clipkiosk/internal/media"
)

const (
	testWidth  = 8
	testHeight = 4
)

var testSource = media.NewSource("/videos/test.mp4", testWidth, testHeight, 30)

// fakeStage stands in for the ffmpeg decoder.
type fakeStage struct {
	frames   int // -1 for an endless stream
	interval time.Duration
	startErr error
	hang     chan struct{} // if set, Run ignores Kill until closed

	queue  *frame.Queue
	pool   *frame.Pool
	cancel *atomic.Bool

	killed   chan struct{}
	killOnce sync.Once
	ran      atomic.Bool
	exited   atomic.Bool
	read     atomic.Uint64
	dropped  atomic.Uint64
}

func newFakeStage(frames int, interval time.Duration) *fakeStage {
	return &fakeStage{frames: frames, interval: interval, killed: make(chan struct{})}
}

func (s *fakeStage) Start() error { return s.startErr }

func (s *fakeStage) Run() {
	s.ran.Store(true)
	defer s.exited.Store(true)

	if s.hang != nil {
		<-s.hang
		return
	}
	for i := 0; s.frames < 0 || i < s.frames; i++ {
		if s.cancel.Load() {
			return
		}
		select {
		case <-s.killed:
			return
		default:
		}
		buf := s.pool.Get()
		buf[0] = byte(i)
		s.read.Add(1)
		if !s.queue.Put(buf) {
			s.dropped.Add(1)
			s.pool.Put(buf)
		}
		if s.interval > 0 {
			time.Sleep(s.interval)
		}
	}
}

func (s *fakeStage) Kill() {
	s.killOnce.Do(func() { close(s.killed) })
}

func (s *fakeStage) Stats() decoder.Stats {
	return decoder.Stats{FramesRead: s.read.Load(), FramesDropped: s.dropped.Load()}
}

type fakeRenderer struct {
	uploads []byte // first byte of each uploaded frame
	redraws int
	clears  int
	swaps   int
}

func (r *fakeRenderer) UploadAndDraw(f frame.Frame) { r.uploads = append(r.uploads, f[0]) }
func (r *fakeRenderer) Redraw()                     { r.redraws++ }
func (r *fakeRenderer) Clear()                      { r.clears++ }
func (r *fakeRenderer) Swap()                       { r.swaps++ }

// scriptedEvents returns script[n] on the n-th Poll (1-based).
type scriptedEvents struct {
	script map[int][]input.Event
	polls  int
}

func (e *scriptedEvents) Poll() []input.Event {
	e.polls++
	return e.script[e.polls]
}

func at(poll int, kind input.Kind) *scriptedEvents {
	return &scriptedEvents{script: map[int][]input.Event{poll: {{Kind: kind}}}}
}

func newTestController(fs *fakeStage, events input.Source) (*Controller, *fakeRenderer, *frame.Pool) {
	const capacity = 3
	pool := frame.NewPool(frame.Size(testWidth, testHeight), capacity+2)
	r := &fakeRenderer{}
	c := New(Config{
		QueueCapacity: capacity,
		JoinTimeout:   time.Second,
		TickInterval:  time.Millisecond,
	}, r, r, events, pool)
	c.newStage = func(_ media.Source, q *frame.Queue, p *frame.Pool, cancel *atomic.Bool) stage {
		fs.queue, fs.pool, fs.cancel = q, p, cancel
		return fs
	}
	return c, r, pool
}

func TestPlayEndOfStream(t *testing.T) {
	fs := newFakeStage(5, 0)
	c, r, pool := newTestController(fs, &scriptedEvents{})

	res, err := c.Play(context.Background(), testSource)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if res.Reason != EndOfStream {
		t.Errorf("Reason = %v, want %v", res.Reason, EndOfStream)
	}
	if res.FramesShown < 1 {
		t.Errorf("FramesShown = %d, want at least 1", res.FramesShown)
	}
	if got := uint64(res.FramesShown) + res.FramesDropped; got != 5 {
		t.Errorf("shown + dropped = %d, want 5", got)
	}
	if len(r.uploads) != res.FramesShown {
		t.Errorf("uploads = %d, FramesShown = %d", len(r.uploads), res.FramesShown)
	}
	for i := 1; i < len(r.uploads); i++ {
		if r.uploads[i] <= r.uploads[i-1] {
			t.Errorf("frames shown out of order: %v", r.uploads)
			break
		}
	}
	if r.uploads[0] != 0 {
		t.Errorf("first frame shown = %d, want 0", r.uploads[0])
	}
	if got := pool.Available(); got != 5 {
		t.Errorf("pool.Available() = %d after playback, want 5", got)
	}
	if c.State() != Idle {
		t.Errorf("State() = %v, want idle", c.State())
	}
}

func TestPointerDownStopsWithinOneTick(t *testing.T) {
	fs := newFakeStage(-1, time.Millisecond)
	events := at(5, input.PointerDown)
	c, _, _ := newTestController(fs, events)

	start := time.Now()
	res, err := c.Play(context.Background(), testSource)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if res.Reason != UserCancel {
		t.Errorf("Reason = %v, want %v", res.Reason, UserCancel)
	}
	if res.Quit {
		t.Error("Quit = true for a pointer event")
	}
	if events.polls != 5 {
		t.Errorf("input polled %d times, want 5", events.polls)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Play took %v, want under the join timeout", elapsed)
	}
	if res.JoinTimedOut {
		t.Error("JoinTimedOut = true")
	}
	if !fs.exited.Load() || !fs.cancel.Load() {
		t.Error("decoder still running after Play returned")
	}
	if c.State() != Idle {
		t.Errorf("State() = %v, want idle", c.State())
	}
}

func TestKeyDownStops(t *testing.T) {
	fs := newFakeStage(-1, time.Millisecond)
	c, _, _ := newTestController(fs, at(2, input.KeyDown))

	res, err := c.Play(context.Background(), testSource)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if res.Reason != UserCancel || res.Quit {
		t.Errorf("Result = %+v, want user-cancel without quit", res)
	}
}

func TestWindowCloseReportsQuit(t *testing.T) {
	fs := newFakeStage(-1, time.Millisecond)
	events := &scriptedEvents{script: map[int][]input.Event{
		3: {{Kind: input.PointerDown}, {Kind: input.Quit}},
	}}
	c, _, _ := newTestController(fs, events)

	res, err := c.Play(context.Background(), testSource)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if res.Reason != UserCancel {
		t.Errorf("Reason = %v, want %v", res.Reason, UserCancel)
	}
	if !res.Quit {
		t.Error("Quit = false, want true")
	}
}

func TestClearBeforeFirstFrame(t *testing.T) {
	fs := newFakeStage(-1, 0)
	fs.hang = make(chan struct{})
	defer close(fs.hang)
	c, r, _ := newTestController(fs, at(4, input.PointerDown))
	c.cfg.JoinTimeout = 10 * time.Millisecond

	if _, err := c.Play(context.Background(), testSource); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if r.clears != 3 || r.redraws != 0 || len(r.uploads) != 0 {
		t.Errorf("clears=%d redraws=%d uploads=%d, want 3/0/0", r.clears, r.redraws, len(r.uploads))
	}
	if r.swaps != 3 {
		t.Errorf("swaps = %d, want 3", r.swaps)
	}
}

func TestSustainedQueueFull(t *testing.T) {
	fs := newFakeStage(-1, 0)
	c, r, _ := newTestController(fs, at(30, input.PointerDown))

	res, err := c.Play(context.Background(), testSource)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if res.FramesDropped == 0 {
		t.Error("FramesDropped = 0, want drops with a producer outrunning the display")
	}
	if r.swaps != 29 {
		t.Errorf("swaps = %d, want 29", r.swaps)
	}
	if res.FramesShown == 0 {
		t.Error("no frames shown")
	}
}

func TestSpawnFailureReturnsToIdle(t *testing.T) {
	fs := newFakeStage(-1, 0)
	fs.startErr = errors.New("exec: not found")
	c, r, _ := newTestController(fs, &scriptedEvents{})

	_, err := c.Play(context.Background(), testSource)
	if !errors.Is(err, fs.startErr) {
		t.Fatalf("Play error = %v, want wrapped start error", err)
	}
	if c.State() != Idle {
		t.Errorf("State() = %v, want idle", c.State())
	}
	if fs.ran.Load() {
		t.Error("Run called after failed Start")
	}
	if r.swaps != 0 {
		t.Errorf("swaps = %d, want 0", r.swaps)
	}

	// the controller is usable again
	fs.startErr = nil
	fs.frames = 1
	if _, err := c.Play(context.Background(), testSource); err != nil {
		t.Errorf("second Play: %v", err)
	}
}

func TestPlayWhileBusy(t *testing.T) {
	fs := newFakeStage(-1, time.Millisecond)
	c, _, _ := newTestController(fs, &scriptedEvents{})

	ctx, cancel := context.WithCancel(context.Background())
	type outcome struct {
		res Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := c.Play(ctx, testSource)
		done <- outcome{res, err}
	}()

	deadline := time.Now().Add(2 * time.Second)
	for c.State() != Playing {
		if time.Now().After(deadline) {
			t.Fatal("controller never reached playing")
		}
		time.Sleep(time.Millisecond)
	}

	if _, err := c.Play(context.Background(), testSource); !errors.Is(err, ErrBusy) {
		t.Errorf("second Play error = %v, want ErrBusy", err)
	}

	cancel()
	out := <-done
	if out.err != nil {
		t.Fatalf("Play: %v", out.err)
	}
	if out.res.Reason != Shutdown {
		t.Errorf("Reason = %v, want %v", out.res.Reason, Shutdown)
	}
	if c.State() != Idle {
		t.Errorf("State() = %v, want idle", c.State())
	}
}

func TestJoinTimeout(t *testing.T) {
	fs := newFakeStage(-1, 0)
	fs.hang = make(chan struct{})
	defer close(fs.hang)
	c, _, _ := newTestController(fs, at(2, input.PointerDown))
	c.cfg.JoinTimeout = 20 * time.Millisecond

	start := time.Now()
	res, err := c.Play(context.Background(), testSource)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if !res.JoinTimedOut {
		t.Error("JoinTimedOut = false for a decoder that ignores Kill")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Play took %v, want about the join timeout", elapsed)
	}
	if c.State() != Idle {
		t.Errorf("State() = %v, want idle", c.State())
	}
}

func TestStateStrings(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{Idle, "idle"},
		{Starting, "starting"},
		{Playing, "playing"},
		{Stopping, "stopping"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
	if EndOfStream.String() != "end-of-stream" {
		t.Errorf("EndOfStream.String() = %q", EndOfStream.String())
	}
}
