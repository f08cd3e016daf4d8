package frame

import "sync/atomic"

// Pool hands out fixed-size frame buffers. All buffers are allocated up
// front; Get only allocates when every buffer is checked out.
type Pool struct {
	size   int
	free   chan Frame
	misses atomic.Uint64
}

// NewPool preallocates count buffers of size bytes.
func NewPool(size, count int) *Pool {
	p := &Pool{
		size: size,
		free: make(chan Frame, count),
	}
	for i := 0; i < count; i++ {
		p.free <- make(Frame, size)
	}
	return p
}

// Get returns a free buffer. Never blocks.
func (p *Pool) Get() Frame {
	select {
	case f := <-p.free:
		return f
	default:
		p.misses.Add(1)
		return make(Frame, p.size)
	}
}

// Put returns a buffer to the pool. Buffers of another size, and buffers
// beyond the pool's capacity, are left to the garbage collector.
func (p *Pool) Put(f Frame) {
	if len(f) != p.size {
		return
	}
	select {
	case p.free <- f:
	default:
	}
}

// BufferSize is the length of every buffer handed out.
func (p *Pool) BufferSize() int { return p.size }

// Available is the number of idle buffers.
func (p *Pool) Available() int { return len(p.free) }

// Misses counts Get calls that had to allocate.
func (p *Pool) Misses() uint64 { return p.misses.Load() }
