// Package handler provides the handler kinds the dispatcher routes
// commands to.
package handler

import (
	"github.com/dshills/narrator/internal/dispatcher/execctx"
)

// Kind discriminates the handler variants.
type Kind int

const (
	// KindOverride fully replaces the command: the handler decides
	// whether and how to execute natively and what to announce.
	KindOverride Kind = iota

	// KindPostHook lets the host execute natively, sandwiched between
	// two snapshots; the hook announces the diff.
	KindPostHook

	// KindMessage executes natively and announces a fixed string.
	KindMessage
)

// Handler is a registered command handler.
type Handler interface {
	Kind() Kind
}

// Override is a full replacement for a command.
type Override func(ctx *execctx.ExecutionContext)

// Kind implements Handler.
func (Override) Kind() Kind { return KindOverride }

// PostHook is the snapshot → execute → re-snapshot → diff pattern.
//
// Snapshot must capture the minimum state needed to detect the change
// this hook cares about; it runs on every dispatch of the command. A
// snapshot that fails because the underlying entity vanished should
// report the zero contribution (a count of 0, a false flag), never
// fail: an action deleting the very thing being observed is a normal
// outcome.
type PostHook struct {
	// Snapshot captures the observed state.
	Snapshot func(ctx *execctx.ExecutionContext) any

	// Report turns a detected change into an announcement. It is only
	// called when the before and after snapshots differ; returning
	// ok=false announces nothing.
	Report func(ctx *execctx.ExecutionContext, before, after any) (message string, ok bool)
}

// Kind implements Handler.
func (*PostHook) Kind() Kind { return KindPostHook }

// Message executes the command natively and announces a fixed string.
type Message string

// Kind implements Handler.
func (Message) Kind() Kind { return KindMessage }
