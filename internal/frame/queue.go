package frame

import "sync/atomic"

// Queue is a bounded FIFO between exactly one producer and one consumer.
// Neither side ever blocks: Put refuses a frame when the queue is full
// (the newest frame is dropped, older queued frames are kept) and Poll
// returns immediately when it is empty.
type Queue struct {
	ch      chan Frame
	put     atomic.Uint64
	dropped atomic.Uint64
}

// NewQueue creates a queue holding at most capacity frames.
func NewQueue(capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue{ch: make(chan Frame, capacity)}
}

// Put enqueues f, or reports false if the queue is full. On false the
// caller still owns f.
func (q *Queue) Put(f Frame) bool {
	select {
	case q.ch <- f:
		q.put.Add(1)
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// Poll dequeues the oldest frame, if any.
func (q *Queue) Poll() (Frame, bool) {
	select {
	case f := <-q.ch:
		return f, true
	default:
		return nil, false
	}
}

// Drain removes every queued frame, handing each to fn.
func (q *Queue) Drain(fn func(Frame)) int {
	n := 0
	for {
		f, ok := q.Poll()
		if !ok {
			return n
		}
		n++
		if fn != nil {
			fn(f)
		}
	}
}

// Len is the number of queued frames.
func (q *Queue) Len() int { return len(q.ch) }

// Cap is the fixed capacity.
func (q *Queue) Cap() int { return cap(q.ch) }

// Stats returns how many frames were accepted and dropped.
func (q *Queue) Stats() (accepted, dropped uint64) {
	return q.put.Load(), q.dropped.Load()
}
