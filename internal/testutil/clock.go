package testutil

import (
	"sync"
	"time"
)

// StepClock provides a thread-safe deterministic wall clock for tests.
//
// Every call to Now returns the previous value advanced by a fixed step,
// starting from a known instant. This keeps change-log timestamps stable
// across runs for golden file comparison.
type StepClock struct {
	mu    sync.Mutex
	start time.Time
	step  time.Duration
	calls int
}

// NewStepClock creates a clock whose first Now() returns start (in UTC)
// and whose nth call returns start + (n-1)*step.
func NewStepClock(start time.Time, step time.Duration) *StepClock {
	return &StepClock{start: start.UTC(), step: step}
}

// Now returns the next timestamp in the sequence.
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.start.Add(time.Duration(c.calls) * c.step)
	c.calls++
	return t
}

// Calls returns how many timestamps have been handed out.
func (c *StepClock) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// Reset rewinds the clock so the next Now() returns start again.
func (c *StepClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = 0
}
