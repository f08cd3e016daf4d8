// Package pace caps a loop to a fixed tick rate.
package pace

import "time"

// Limiter sleeps out the remainder of each tick. A loop that falls more
// than one tick behind is resynchronised instead of bursting to catch up.
type Limiter struct {
	interval time.Duration
	next     time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

// NewLimiter returns a limiter for the given tick interval.
func NewLimiter(interval time.Duration) *Limiter {
	return &Limiter{
		interval: interval,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// PerSecond returns a limiter for rate ticks per second.
func PerSecond(rate int) *Limiter {
	if rate <= 0 {
		return NewLimiter(0)
	}
	return NewLimiter(time.Second / time.Duration(rate))
}

// Interval is the tick length.
func (l *Limiter) Interval() time.Duration {
	return l.interval
}

// Wait blocks until the end of the current tick.
func (l *Limiter) Wait() {
	if l.interval <= 0 {
		return
	}
	now := l.now()
	if l.next.IsZero() {
		l.next = now.Add(l.interval)
	}
	if d := l.next.Sub(now); d > 0 {
		l.sleep(d)
	}
	l.next = l.next.Add(l.interval)
	if behind := now.Sub(l.next); behind > l.interval {
		l.next = now.Add(l.interval)
	}
}

// Reset forgets the tick phase; the next Wait sleeps a full interval.
func (l *Limiter) Reset() {
	l.next = time.Time{}
}
