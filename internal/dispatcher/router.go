package dispatcher

import (
	"io"
	"log/slog"
	"reflect"
	"runtime"

	"github.com/dshills/narrator/internal/announce"
	"github.com/dshills/narrator/internal/config"
	"github.com/dshills/narrator/internal/dispatcher/execctx"
	"github.com/dshills/narrator/internal/dispatcher/handler"
	"github.com/dshills/narrator/internal/host"
	"github.com/dshills/narrator/internal/msgtable"
	"github.com/dshills/narrator/internal/notify"
)

// Dispatcher is the single entry point the host calls for every
// command.
type Dispatcher struct {
	host     host.Host
	registry *Registry
	out      *notify.Channel
	table    *msgtable.Table
	settings *config.Store
	state    *DispatcherContext
	log      *slog.Logger

	helpMode bool
	helpKey  CommandKey
	hasHelp  bool
}

// New creates a dispatcher. table and settings may be nil, in which
// case an empty table and default settings are used; log may be nil.
func New(h host.Host, registry *Registry, out *notify.Channel, table *msgtable.Table, settings *config.Store, log *slog.Logger) *Dispatcher {
	if table == nil {
		table = msgtable.New()
	}
	if settings == nil {
		settings = config.NewStore(config.Default())
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Dispatcher{
		host:     h,
		registry: registry,
		out:      out,
		table:    table,
		settings: settings,
		state:    NewDispatcherContext(),
		log:      log,
	}
}

// Registry returns the command registry.
func (d *Dispatcher) Registry() *Registry { return d.registry }

// Handling reports whether a command is currently being handled. The
// notification channel uses this to scope the mute-next flag.
func (d *Dispatcher) Handling() bool { return d.state.Handling() }

// State returns the dispatch state, for tests.
func (d *Dispatcher) State() *DispatcherContext { return d.state }

// EnableShortcutHelp designates the command that toggles shortcut-help
// mode. While the mode is on, every other command announces its
// action name instead of executing.
func (d *Dispatcher) EnableShortcutHelp(section, command int) {
	d.helpKey = CommandKey{Section: d.registry.Canonical(section), Command: command}
	d.hasHelp = true
}

// ToggleShortcutHelp flips shortcut-help mode and announces the new
// state.
func (d *Dispatcher) ToggleShortcutHelp() {
	d.helpMode = !d.helpMode
	if d.helpMode {
		d.out.Output("shortcut help on")
	} else {
		d.out.Output("shortcut help off")
	}
}

// Dispatch handles one host command. It returns true when the command
// was fully handled here and the host should not run it natively.
//
// val, valHW and relMode carry hardware-surface trigger data; window
// is the UI target the command came from.
func (d *Dispatcher) Dispatch(section, command, val, valHW, relMode int, window host.Target) (handled bool) {
	if d.state.handling {
		// A handler triggered a sub-command; let the host run it
		// natively rather than recursing.
		return false
	}

	canon := d.registry.Canonical(section)
	key := CommandKey{Section: canon, Command: command}

	d.state.handling = true
	defer func() {
		d.state.handling = false
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			d.log.Error("handler panic",
				"section", canon, "command", command,
				"panic", r, "stack", string(buf[:n]))
			// The host must never see a fault from this layer; claim
			// the command and stay silent.
			handled = true
		}
		if handled {
			d.state.noteDispatch(key)
		}
	}()

	h := d.registry.Lookup(section, command)

	if d.helpMode && d.hasHelp && key != d.helpKey {
		d.reportActionName(canon, command)
		return true
	}

	ctx := &execctx.ExecutionContext{
		Host:        d.host,
		Out:         d.out,
		Settings:    d.settings,
		Section:     canon,
		OrigSection: section,
		Command:     command,
		Val:         val,
		ValHW:       valHW,
		RelMode:     relMode,
		Window:      window,
		Repeat:      d.state.repeatFor(key),
		Log:         d.log,
	}

	switch h := h.(type) {
	case handler.Override:
		h(ctx)
		return true
	case *handler.PostHook:
		d.runPostHook(h, ctx)
		return true
	case handler.Message:
		ctx.Execute()
		d.out.Output(string(h))
		return true
	default:
		if msg, ok := d.table.Post(msgtable.Key{Section: canon, Command: command}); ok {
			ctx.Execute()
			d.out.Output(msg)
			return true
		}
		return d.toggleDiff(ctx)
	}
}

// runPostHook performs snapshot → execute → re-snapshot → report.
// Equal snapshots announce nothing: every emitted message corresponds
// to a detected change. Transient intermediate states during native
// execution are invisible; only the final after-state matters.
func (d *Dispatcher) runPostHook(h *handler.PostHook, ctx *execctx.ExecutionContext) {
	before := h.Snapshot(ctx)
	ctx.Execute()
	after := h.Snapshot(ctx)
	if reflect.DeepEqual(before, after) {
		return
	}
	if msg, ok := h.Report(ctx, before, after); ok {
		d.out.Output(msg)
	}
}

// toggleDiff is the fallback for commands the host reports as binary
// toggles when nothing specific is registered.
func (d *Dispatcher) toggleDiff(ctx *execctx.ExecutionContext) bool {
	before, err := d.host.ToggleState(ctx.Section, ctx.Command)
	if err != nil {
		// Not a toggle; let the host run it natively.
		return false
	}

	key := msgtable.Key{Section: ctx.Section, Command: ctx.Command}
	text, hasText := d.table.Toggle(key)
	if hasText && text.Silent() {
		// Explicit opt-out in both directions.
		return false
	}

	focusBefore := d.host.FocusTarget()
	ctx.Execute()
	if d.host.FocusTarget() != focusBefore {
		// The focus change is feedback enough; announcing stale
		// toggle state would only confuse.
		return true
	}

	after, err := d.host.ToggleState(ctx.Section, ctx.Command)
	if err != nil || after == before {
		return true
	}

	if hasText {
		switch {
		case after && !text.SilentOn:
			d.out.Output(text.On)
		case !after && !text.SilentOff:
			d.out.Output(text.Off)
		}
		return true
	}

	name, err := d.host.ActionName(ctx.Section, ctx.Command)
	if err != nil {
		return true
	}
	verb := "disabled"
	if after {
		verb = "enabled"
	}
	d.out.Output(verb + " " + announce.StripCategory(name))
	return true
}

// reportActionName announces a command's action name with the
// category prefix stripped.
func (d *Dispatcher) reportActionName(section, command int) {
	name, err := d.host.ActionName(section, command)
	if err != nil {
		return
	}
	d.out.Output(announce.StripCategory(name))
}
