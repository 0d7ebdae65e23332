package dispatcher

import (
	"time"
)

// RepeatWindow is how quickly the same command must be pressed again
// to count as a repeat.
const RepeatWindow = 500 * time.Millisecond

// DispatcherContext is the process-wide dispatch state: the
// re-entrancy guard and the repeat-press tracker. It is mutated only
// by Dispatch on the single dispatch thread; handlers read the
// computed repeat count through their execution context.
//
// Keeping it an explicit struct, rather than free globals, makes the
// single-threaded invariant visible and lets tests reset it.
type DispatcherContext struct {
	handling bool

	lastKey  CommandKey
	lastTime time.Time
	hasLast  bool
	repeat   int

	// now is replaceable for tests.
	now func() time.Time
}

// NewDispatcherContext returns a fresh dispatch state.
func NewDispatcherContext() *DispatcherContext {
	return &DispatcherContext{now: time.Now}
}

// Reset returns the state to its initial condition.
func (c *DispatcherContext) Reset() {
	c.handling = false
	c.hasLast = false
	c.lastKey = CommandKey{}
	c.lastTime = time.Time{}
	c.repeat = 0
}

// Handling reports whether a command is currently being handled.
func (c *DispatcherContext) Handling() bool { return c.handling }

// repeatFor computes the repeat count for a new dispatch of key: 0 on
// a first press, incrementing while re-presses arrive within
// RepeatWindow of the previous dispatch.
func (c *DispatcherContext) repeatFor(key CommandKey) int {
	if c.hasLast && c.lastKey == key && c.now().Sub(c.lastTime) < RepeatWindow {
		c.repeat++
		return c.repeat
	}
	c.repeat = 0
	return 0
}

// noteDispatch records a handled dispatch for repeat tracking.
func (c *DispatcherContext) noteDispatch(key CommandKey) {
	c.lastKey = key
	c.lastTime = c.now()
	c.hasLast = true
}
