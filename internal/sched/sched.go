// Package sched provides the single-shot and debounced timers the
// announcement engine uses for deferred work: silencing preview notes,
// coalescing config reloads, and "run shortly after this" callbacks.
//
// Timers fire on their own goroutine but only re-enter the engine
// through paths that are themselves guarded; Cancel is always an
// idempotent no-op when nothing is pending or the callback already
// ran.
package sched

import (
	"sync"
	"time"
)

// SingleShot runs one callback after a delay. Scheduling again before
// the callback fires replaces it; the earlier callback never runs.
//
// Thread-safety: all methods are safe for concurrent use. The
// callback is never invoked after Cancel returns.
type SingleShot struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending bool
	seq     uint64 // invalidates stale timer callbacks
}

// Schedule arranges for fn to run after delay, replacing any pending
// callback.
func (s *SingleShot) Schedule(delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	current := s.seq
	s.pending = true

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		if !s.pending || s.seq != current {
			s.mu.Unlock()
			return
		}
		s.pending = false
		s.mu.Unlock()
		fn()
	})
}

// Cancel drops any pending callback. Calling it when nothing is
// pending, or after the callback already fired, is a no-op.
func (s *SingleShot) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.seq++
	s.pending = false
}

// Pending reports whether a callback is scheduled and has not fired.
func (s *SingleShot) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Debouncer groups rapid successive calls into a single callback after
// a quiet period. Used for config file change events, which editors
// tend to emit in bursts.
type Debouncer struct {
	mu       sync.Mutex
	delay    time.Duration
	timer    *time.Timer
	pending  bool
	seq      uint64
	callback func()
}

// NewDebouncer creates a debouncer that invokes callback once no new
// Call has arrived for delay.
func NewDebouncer(delay time.Duration, callback func()) *Debouncer {
	return &Debouncer{delay: delay, callback: callback}
}

// Call schedules the callback after the debounce delay. Repeated
// calls within the delay restart the quiet period.
func (d *Debouncer) Call() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = true
	d.seq++
	current := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if !d.pending || d.seq != current || d.callback == nil {
			d.mu.Unlock()
			return
		}
		d.pending = false
		d.mu.Unlock()
		d.callback()
	})
}

// Cancel drops any pending call. Safe to call when nothing is
// pending.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	d.pending = false
}

// Pending reports whether a call is waiting on its quiet period.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}
