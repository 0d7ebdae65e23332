// Package notify turns strings into delivered announcements exactly
// once per logical event, with interrupt and de-duplication semantics.
package notify

import (
	"github.com/dshills/narrator/internal/host"
)

// Sink delivers an announcement to the platform. interrupt asks the
// sink to cancel any in-progress announcement; queued messages wait
// for current speech to finish.
type Sink interface {
	Deliver(text string, interrupt bool, target host.Target)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(text string, interrupt bool, target host.Target)

// Deliver implements Sink.
func (f SinkFunc) Deliver(text string, interrupt bool, target host.Target) {
	f(text, interrupt, target)
}

// Channel owns announcement delivery state: the last message per
// target for de-duplication, and the mute-next flag.
//
// All mutation happens on the dispatch thread; Channel does not lock.
type Channel struct {
	sink Sink

	// focus reports the current UI focus target.
	focus func() host.Target

	// handling reports whether a command is currently being handled.
	// The mute-next flag only applies inside command handling.
	handling func() bool

	lastText   string
	lastTarget host.Target
	muteNext   bool
}

// New creates a channel delivering through sink. focus and handling
// may be nil, in which case messages carry the zero target and the
// mute-next flag applies unconditionally.
func New(sink Sink, focus func() host.Target, handling func() bool) *Channel {
	return &Channel{sink: sink, focus: focus, handling: handling}
}

// Output delivers text, interrupting any in-progress announcement.
func (c *Channel) Output(text string) {
	c.emit(text, true)
}

// OutputQueued delivers text after current speech finishes. Used for
// ambient events, like passing a marker during playback, that should
// not stomp on more important feedback.
func (c *Channel) OutputQueued(text string) {
	c.emit(text, false)
}

// MuteNext suppresses the next message emitted while a command is
// being handled.
func (c *Channel) MuteNext() {
	c.muteNext = true
}

// ResetTarget clears the de-duplication cache. Call when the host
// reports an external focus change, so a textually identical message
// on a new target is not mistaken for a repeat.
func (c *Channel) ResetTarget() {
	c.lastText = ""
	c.lastTarget = ""
}

func (c *Channel) emit(text string, interrupt bool) {
	if text == "" {
		return
	}
	if c.muteNext && (c.handling == nil || c.handling()) {
		c.muteNext = false
		return
	}
	var target host.Target
	if c.focus != nil {
		target = c.focus()
	}
	if text == c.lastText && target == c.lastTarget {
		// Downstream change detection drops a value that did not
		// change. Perturb the repeat so it still fires.
		text += " "
	}
	c.sink.Deliver(text, interrupt, target)
	c.lastText = text
	c.lastTarget = target
}
