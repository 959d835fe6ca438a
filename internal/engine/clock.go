package engine

import "sync/atomic"

// SeqSource hands out pulse sequence numbers. *Clock implements it.
type SeqSource interface {
	Next() int64
}

// Clock is a monotonic logical clock. Each emitted pulse takes the next
// value, so traces have a total order without reference to wall time.
//
// Clock is safe for concurrent use. A simulator normally owns its own,
// but several simulators may share one when their traces are merged.
type Clock struct {
	seq atomic.Int64
}

func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock whose next value is start+1.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next advances the clock by one and returns the new value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last value handed out.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
