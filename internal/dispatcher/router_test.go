package dispatcher_test

import (
	"testing"

	"github.com/dshills/narrator/internal/config"
	"github.com/dshills/narrator/internal/dispatcher"
	"github.com/dshills/narrator/internal/dispatcher/execctx"
	"github.com/dshills/narrator/internal/dispatcher/handler"
	"github.com/dshills/narrator/internal/host"
	"github.com/dshills/narrator/internal/host/hosttest"
	"github.com/dshills/narrator/internal/msgtable"
	"github.com/dshills/narrator/internal/notify"
)

type fixture struct {
	host   *hosttest.Host
	disp   *dispatcher.Dispatcher
	spoken []string
}

func newFixture(t *testing.T, table *msgtable.Table) *fixture {
	t.Helper()
	f := &fixture{host: hosttest.New()}
	out := notify.New(
		notify.SinkFunc(func(text string, interrupt bool, target host.Target) {
			f.spoken = append(f.spoken, text)
		}),
		f.host.FocusTarget,
		func() bool { return f.disp != nil && f.disp.Handling() },
	)
	registry := dispatcher.NewRegistry(f.host)
	f.disp = dispatcher.New(f.host, registry, out, table, config.NewStore(config.Default()), nil)
	return f
}

func (f *fixture) dispatch(section, command int) bool {
	return f.disp.Dispatch(section, command, 1, 0, 0, f.host.FocusTarget())
}

func (f *fixture) lastSpoken(t *testing.T) string {
	t.Helper()
	if len(f.spoken) == 0 {
		t.Fatal("nothing was spoken")
	}
	return f.spoken[len(f.spoken)-1]
}

func TestOverrideHandler(t *testing.T) {
	f := newFixture(t, nil)
	f.host.AddCommand(0, 1001, &hosttest.Command{})

	called := false
	f.disp.Registry().Register(0, 1001, handler.Override(func(ctx *execctx.ExecutionContext) {
		called = true
	}))

	if !f.dispatch(0, 1001) {
		t.Fatal("override dispatch not handled")
	}
	if !called {
		t.Error("override not invoked")
	}
	// The override decides whether to execute; the dispatcher must not.
	if len(f.host.Executed) != 0 {
		t.Errorf("host executed natively: %v", f.host.Executed)
	}
}

func TestMessageHandler(t *testing.T) {
	f := newFixture(t, nil)
	f.host.AddCommand(0, 1002, &hosttest.Command{})
	f.disp.Registry().Register(0, 1002, handler.Message("set loop start"))

	if !f.dispatch(0, 1002) {
		t.Fatal("message dispatch not handled")
	}
	if got := f.lastSpoken(t); got != "set loop start" {
		t.Errorf("spoken = %q, want %q", got, "set loop start")
	}
	// Fixed messages execute natively first.
	if len(f.host.Executed) != 1 {
		t.Errorf("host executions = %v, want one", f.host.Executed)
	}
}

func TestTablePostMessage(t *testing.T) {
	table := msgtable.New()
	table.SetPost(msgtable.Key{Section: 0, Command: 1003}, "grid quarter")

	f := newFixture(t, table)
	f.host.AddCommand(0, 1003, &hosttest.Command{})

	if !f.dispatch(0, 1003) {
		t.Fatal("post-message dispatch not handled")
	}
	if got := f.lastSpoken(t); got != "grid quarter" {
		t.Errorf("spoken = %q, want %q", got, "grid quarter")
	}
}

func TestPostHookReportsDiff(t *testing.T) {
	f := newFixture(t, nil)
	counter := 2
	f.host.AddCommand(0, 1004, &hosttest.Command{
		Exec: func(h *hosttest.Host) { counter = 5 },
	})
	f.disp.Registry().Register(0, 1004, &handler.PostHook{
		Snapshot: func(ctx *execctx.ExecutionContext) any { return counter },
		Report: func(ctx *execctx.ExecutionContext, before, after any) (string, bool) {
			if before.(int) == 2 && after.(int) == 5 {
				return "changed", true
			}
			return "", false
		},
	})

	if !f.dispatch(0, 1004) {
		t.Fatal("post hook dispatch not handled")
	}
	if got := f.lastSpoken(t); got != "changed" {
		t.Errorf("spoken = %q, want %q", got, "changed")
	}
}

func TestPostHookSilentWhenUnchanged(t *testing.T) {
	f := newFixture(t, nil)
	f.host.AddCommand(0, 1005, &hosttest.Command{})
	f.disp.Registry().Register(0, 1005, &handler.PostHook{
		Snapshot: func(ctx *execctx.ExecutionContext) any { return 7 },
		Report: func(ctx *execctx.ExecutionContext, before, after any) (string, bool) {
			return "should not happen", true
		},
	})

	if !f.dispatch(0, 1005) {
		t.Fatal("post hook dispatch not handled")
	}
	if len(f.spoken) != 0 {
		t.Errorf("spoken = %v, want nothing for equal snapshots", f.spoken)
	}
}

func TestToggleDiffTableText(t *testing.T) {
	f := newFixture(t, msgtable.Builtin())
	f.host.AddToggle(0, 40364, "Options: Toggle metronome", false)

	if !f.dispatch(0, 40364) {
		t.Fatal("toggle dispatch not handled")
	}
	if got := f.lastSpoken(t); got != "metronome on" {
		t.Errorf("spoken = %q, want %q", got, "metronome on")
	}

	f.dispatch(0, 40364)
	if got := f.lastSpoken(t); got != "metronome off" {
		t.Errorf("spoken = %q, want %q", got, "metronome off")
	}
}

func TestToggleDiffActionNameFallback(t *testing.T) {
	f := newFixture(t, nil)
	f.host.AddToggle(0, 1006, "Options: Toggle ripple editing", false)

	if !f.dispatch(0, 1006) {
		t.Fatal("toggle dispatch not handled")
	}
	if got := f.lastSpoken(t); got != "enabled Toggle ripple editing" {
		t.Errorf("spoken = %q, want %q", got, "enabled Toggle ripple editing")
	}
}

func TestToggleDiffSilentBothNotHandled(t *testing.T) {
	table := msgtable.New()
	table.SetToggle(msgtable.Key{Section: 0, Command: 40346},
		msgtable.ToggleText{SilentOn: true, SilentOff: true})

	f := newFixture(t, table)
	f.host.AddToggle(0, 40346, "View: Toggle fullscreen", false)

	if f.dispatch(0, 40346) {
		t.Error("fully silent toggle claimed the command")
	}
	if len(f.host.Executed) != 0 {
		t.Errorf("dispatcher executed an unhandled command: %v", f.host.Executed)
	}
}

func TestToggleDiffSilentDirection(t *testing.T) {
	table := msgtable.New()
	table.SetToggle(msgtable.Key{Section: 0, Command: 1007},
		msgtable.ToggleText{On: "armed", SilentOff: true})

	f := newFixture(t, table)
	f.host.AddToggle(0, 1007, "", false)

	f.dispatch(0, 1007)
	if got := f.lastSpoken(t); got != "armed" {
		t.Errorf("spoken = %q, want %q", got, "armed")
	}

	// The off direction is silent but the command is still handled.
	n := len(f.spoken)
	if !f.dispatch(0, 1007) {
		t.Fatal("silent-direction toggle not handled")
	}
	if len(f.spoken) != n {
		t.Errorf("silent direction spoke: %v", f.spoken[n:])
	}
}

func TestToggleDiffFocusChangeSuppresses(t *testing.T) {
	f := newFixture(t, msgtable.Builtin())
	c := f.host.AddToggle(0, 40364, "Options: Toggle metronome", false)
	c.Exec = func(h *hosttest.Host) {
		c.State = !c.State
		h.ChangeFocus()
	}

	if !f.dispatch(0, 40364) {
		t.Fatal("toggle dispatch not handled")
	}
	if len(f.spoken) != 0 {
		t.Errorf("spoken = %v, want nothing when focus moved", f.spoken)
	}
}

func TestToggleDiffUnchangedSilent(t *testing.T) {
	f := newFixture(t, msgtable.Builtin())
	c := f.host.AddToggle(0, 40364, "Options: Toggle metronome", false)
	c.Exec = func(h *hosttest.Host) {} // state does not flip

	if !f.dispatch(0, 40364) {
		t.Fatal("toggle dispatch not handled")
	}
	if len(f.spoken) != 0 {
		t.Errorf("spoken = %v, want nothing for unchanged state", f.spoken)
	}
}

func TestNonToggleUnregisteredNotHandled(t *testing.T) {
	f := newFixture(t, nil)
	f.host.AddCommand(0, 1008, &hosttest.Command{Name: "Track: Some command"})

	if f.dispatch(0, 1008) {
		t.Error("plain command with no handler was claimed")
	}
}

func TestReentrancyGuard(t *testing.T) {
	f := newFixture(t, nil)
	f.host.AddCommand(0, 1009, &hosttest.Command{})
	f.host.AddCommand(0, 1010, &hosttest.Command{})
	f.disp.Registry().Register(0, 1010, handler.Message("inner"))

	var innerHandled bool
	f.disp.Registry().Register(0, 1009, handler.Override(func(ctx *execctx.ExecutionContext) {
		// A handler triggering a sub-command must not recurse into
		// another handler.
		innerHandled = f.dispatch(0, 1010)
	}))

	if !f.dispatch(0, 1009) {
		t.Fatal("outer dispatch not handled")
	}
	if innerHandled {
		t.Error("nested dispatch was handled instead of deferred to the host")
	}
}

func TestPanicRecovery(t *testing.T) {
	f := newFixture(t, nil)
	f.host.AddCommand(0, 1011, &hosttest.Command{})
	f.disp.Registry().Register(0, 1011, handler.Override(func(ctx *execctx.ExecutionContext) {
		panic("boom")
	}))

	if !f.dispatch(0, 1011) {
		t.Error("panicking handler did not claim the command")
	}
	if f.disp.Handling() {
		t.Error("handling flag stuck after panic")
	}

	// The dispatcher still works afterwards.
	f.host.AddCommand(0, 1012, &hosttest.Command{})
	f.disp.Registry().Register(0, 1012, handler.Message("still alive"))
	if !f.dispatch(0, 1012) {
		t.Error("dispatch broken after recovered panic")
	}
}

func TestAlternateSectionCanonicalized(t *testing.T) {
	f := newFixture(t, nil)
	f.host.AddCommand(0, 1013, &hosttest.Command{})
	f.disp.Registry().Register(0, 1013, handler.Message("from main"))

	// Alternate main keymaps dispatch through the main section's
	// handlers.
	if !f.dispatch(host.SectionMainAltRec, 1013) {
		t.Error("alt-recording section dispatch not handled")
	}
	if !f.dispatch(3, 1013) {
		t.Error("alternate keymap section dispatch not handled")
	}
}

func TestShortcutHelp(t *testing.T) {
	f := newFixture(t, nil)
	f.host.AddCommand(0, 1014, &hosttest.Command{Name: "Track: Mute/unmute tracks"})

	f.disp.EnableShortcutHelp(0, 9000)
	f.disp.ToggleShortcutHelp()
	if got := f.lastSpoken(t); got != "shortcut help on" {
		t.Fatalf("spoken = %q, want %q", got, "shortcut help on")
	}

	if !f.dispatch(0, 1014) {
		t.Fatal("help-mode dispatch not handled")
	}
	if got := f.lastSpoken(t); got != "Mute/unmute tracks" {
		t.Errorf("spoken = %q, want action name", got)
	}
	if len(f.host.Executed) != 0 {
		t.Errorf("help mode executed the command: %v", f.host.Executed)
	}

	f.disp.ToggleShortcutHelp()
	if got := f.lastSpoken(t); got != "shortcut help off" {
		t.Errorf("spoken = %q, want %q", got, "shortcut help off")
	}
}
