package playback

import (
	"sync/atomic"
	"time"

	"github.com/bryanchriswhite/clipkiosk/internal/decoder"
	"github.com/bryanchriswhite/clipkiosk/internal/frame"
	"github.com/bryanchriswhite/clipkiosk/internal/media"
)

// stage is the decoder as seen by a session.
type stage interface {
	Start() error
	Run()
	Kill()
	Stats() decoder.Stats
}

type stageFactory func(src media.Source, queue *frame.Queue, pool *frame.Pool, cancel *atomic.Bool) stage

// session is the per-clip state: the queue, the cancel flag and the
// decoder goroutine.
type session struct {
	source media.Source
	queue  *frame.Queue
	cancel atomic.Bool
	dec    stage
	done   chan struct{}
}

func newSession(src media.Source, capacity int, pool *frame.Pool, factory stageFactory) *session {
	s := &session{
		source: src,
		queue:  frame.NewQueue(capacity),
		done:   make(chan struct{}),
	}
	s.dec = factory(src, s.queue, pool, &s.cancel)
	return s
}

// launch runs the decoder's read loop on its own goroutine.
func (s *session) launch() {
	go func() {
		defer close(s.done)
		s.dec.Run()
	}()
}

func (s *session) finished() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// stop sets the cancel flag, kills the process to unblock a pending read
// and waits up to timeout for the goroutine. Reports whether it joined.
func (s *session) stop(timeout time.Duration) bool {
	s.cancel.Store(true)
	s.dec.Kill()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-s.done:
		return true
	case <-timer.C:
		return false
	}
}
