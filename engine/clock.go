package engine

import "time"

// Clock supplies the scheduler's view of time. Injected so tests can
// drive deadlines deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock is the real wall clock with monotonic readings.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// MockClock is a controllable clock for tests. The scheduler is
// single-threaded, so no locking is needed.
type MockClock struct {
	current time.Time
}

// NewMockClock creates a mock clock starting at start.
func NewMockClock(start time.Time) *MockClock {
	return &MockClock{current: start}
}

// Now returns the mocked time.
func (c *MockClock) Now() time.Time {
	return c.current
}

// Advance moves the mocked time forward by d.
func (c *MockClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

// Set jumps the mocked time to t.
func (c *MockClock) Set(t time.Time) {
	c.current = t
}
