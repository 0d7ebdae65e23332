// Package execctx provides the execution context passed to command
// handlers.
package execctx

import (
	"log/slog"

	"github.com/dshills/narrator/internal/config"
	"github.com/dshills/narrator/internal/host"
	"github.com/dshills/narrator/internal/notify"
)

// ExecutionContext carries everything a handler may need for one
// dispatch: the host, the notification channel, settings, and the
// command's identity and trigger data.
//
// Contexts are built per dispatch and are only valid for its
// duration.
type ExecutionContext struct {
	// Host is the observed application.
	Host host.Host

	// Out is the announcement channel.
	Out *notify.Channel

	// Settings is the live settings store.
	Settings *config.Store

	// Section is the canonical section id used for lookup. OrigSection
	// is the section the host actually reported; native execution uses
	// it so keymap-specific effects still apply.
	Section     int
	OrigSection int
	Command     int

	// Trigger data for commands issued from hardware surfaces.
	Val     int
	ValHW   int
	RelMode int

	// Window is the UI target the command was issued from.
	Window host.Target

	// Repeat counts rapid re-presses of the same command: 0 on the
	// first press, 1 on the second press within the repeat window, and
	// so on. Handlers use it to switch to secondary detail.
	Repeat int

	// Log is never nil.
	Log *slog.Logger
}

// Execute runs the dispatched command natively on the host, passing
// through the original section and trigger data.
func (ctx *ExecutionContext) Execute() {
	ctx.Host.Execute(ctx.OrigSection, ctx.Command, ctx.Val, ctx.ValHW, ctx.RelMode, ctx.Window)
}
