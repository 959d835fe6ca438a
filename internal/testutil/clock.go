package testutil

import "sync"

// TraceClock is a resettable pulse clock for tests.
//
// engine.Clock only moves forward. Golden traces number recorded pulses
// from 1, so the harness resets a TraceClock after warm-up presses instead
// of building a new simulator.
type TraceClock struct {
	mu  sync.Mutex
	seq int64
}

// NewTraceClock creates a clock whose first Next returns 1.
func NewTraceClock() *TraceClock {
	return &TraceClock{}
}

// Next increments and returns the sequence number.
func (c *TraceClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// Current returns the last number handed out.
func (c *TraceClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Reset rewinds the clock so the next call to Next returns 1.
func (c *TraceClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = 0
}
