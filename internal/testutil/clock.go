// Package testutil holds deterministic stand-ins and file helpers shared by
// the package tests.
package testutil

import (
	"sync"

	"github.com/legendsbarber/seqfold/internal/eval"
)

var _ eval.Sequencer = (*DeterministicClock)(nil)

// DeterministicClock is a resettable logical clock for call stamps.
//
// Unlike eval.Clock it can be reset, so one scenario can run several times
// and produce the same seq values every time.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicClock struct {
	mu  sync.Mutex
	seq int64
}

// NewDeterministicClock creates a new clock starting at 0.
// The first call to Next() returns 1.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{}
}

// Next increments and returns the next sequence number.
func (c *DeterministicClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// Current returns the current sequence number without incrementing.
func (c *DeterministicClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Reset rewinds the clock. After Reset(), the next call to Next() returns 1.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = 0
}
