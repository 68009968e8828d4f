package eval

import "sync/atomic"

// Sequencer stamps callback calls with strictly increasing numbers.
// testutil.DeterministicClock implements it as well.
type Sequencer interface {
	Next() int64
}

// Clock is a monotonic logical clock. Every traced call gets the next
// number, so a replay produces the same numbering as the original run.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations).
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}
