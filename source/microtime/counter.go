package microtime

import (
	"math"
	"sync"
	"sync/atomic"
)

// Counter is a wrapping counter shared by sources to decorrelate successive
// digest rounds when the clock resolution is too coarse to do so.
//
// The counter is seeded exactly once, normally from the output of the first
// source that uses it. It is safe for concurrent use.
type Counter struct {
	value       atomic.Int64
	initialized atomic.Bool
	initOnce    sync.Once
}

var sharedCounter = NewCounter()

// NewCounter returns a new, uninitialized counter.
func NewCounter() *Counter {
	return &Counter{}
}

// SharedCounter returns the process-wide counter that sources use unless
// they are given another one. It lives for the lifetime of the process.
func SharedCounter() *Counter {
	return sharedCounter
}

// Initialized returns whether the counter has been seeded.
func (c *Counter) Initialized() bool {
	return c.initialized.Load()
}

// Init seeds the counter with value. Only the first call has an effect; it
// reports whether this call seeded the counter.
func (c *Counter) Init(value int64) (seeded bool) {
	c.initOnce.Do(func() {
		c.value.Store(value)
		c.initialized.Store(true)
		seeded = true
	})
	return seeded
}

// Value returns the current value of the counter.
func (c *Counter) Value() int64 {
	return c.value.Load()
}

// Next advances the counter and returns the new value. At math.MaxInt64 the
// counter wraps to math.MinInt64.
func (c *Counter) Next() int64 {
	for {
		current := c.value.Load()
		next := current + 1
		if current == math.MaxInt64 {
			next = math.MinInt64
		}
		if c.value.CompareAndSwap(current, next) {
			return next
		}
	}
}
