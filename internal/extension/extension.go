// Package extension hosts user-written Lua scripts that add their own
// command handlers. Scripts see a small `narrator` module: register a
// handler for a command id, speak a message, query the host.
package extension

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/narrator/internal/dispatcher"
	"github.com/dshills/narrator/internal/dispatcher/execctx"
	"github.com/dshills/narrator/internal/dispatcher/handler"
	"github.com/dshills/narrator/internal/host"
	"github.com/dshills/narrator/internal/notify"
)

// Manager owns one sandboxed Lua state shared by all loaded scripts.
//
// gopher-lua's LState is not goroutine-safe. The mutex serializes
// script loading against handler invocation; handler invocation itself
// only ever happens on the dispatch thread.
type Manager struct {
	mu     sync.Mutex
	l      *lua.LState
	reg    *dispatcher.Registry
	out    *notify.Channel
	bus    host.Bus
	log    *slog.Logger
	closed bool
}

// New creates a manager registering handlers into reg and speaking
// through out. log may be nil.
func New(reg *dispatcher.Registry, out *notify.Channel, bus host.Bus, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	l := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(l)

	m := &Manager{l: l, reg: reg, out: out, bus: bus, log: log}
	m.installModule()
	return m
}

// openSafeLibraries opens only the side-effect-free standard
// libraries. io, os, debug and package stay closed: scripts observe
// and announce, they do not touch the system.
func openSafeLibraries(l *lua.LState) {
	lua.OpenBase(l)
	lua.OpenTable(l)
	lua.OpenString(l)
	lua.OpenMath(l)
}

// installModule publishes the `narrator` table.
func (m *Manager) installModule() {
	mod := m.l.SetFuncs(m.l.NewTable(), map[string]lua.LGFunction{
		"register":    m.luaRegister,
		"output":      m.luaOutput,
		"action_name": m.luaActionName,
		"toggle":      m.luaToggle,
	})
	m.l.SetGlobal("narrator", mod)
}

// LoadFile runs one script file. Scripts do their registration at load
// time.
func (m *Manager) LoadFile(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return fmt.Errorf("extension: manager closed")
	}
	return m.doWithRecovery(func() error { return m.l.DoFile(path) })
}

// LoadString runs inline script source, for tests and quick
// experiments.
func (m *Manager) LoadString(src string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return fmt.Errorf("extension: manager closed")
	}
	return m.doWithRecovery(func() error { return m.l.DoString(src) })
}

// Close releases the Lua state. Registered handlers become silent
// no-ops.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	m.l.Close()
}

func (m *Manager) doWithRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// luaRegister implements narrator.register(section, command, fn).
// Returns true when the command was accepted, false when the host does
// not know the command id.
func (m *Manager) luaRegister(l *lua.LState) int {
	section := l.CheckInt(1)
	command := l.CheckInt(2)
	fn := l.CheckFunction(3)

	ok := m.reg.Register(section, command, handler.Override(func(ctx *execctx.ExecutionContext) {
		m.invoke(fn, ctx)
	}))
	l.Push(lua.LBool(ok))
	return 1
}

// invoke calls a registered script handler. Script faults are
// contained the same way handler panics are: logged, never propagated
// to the host.
func (m *Manager) invoke(fn *lua.LFunction, ctx *execctx.ExecutionContext) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	err := m.doWithRecovery(func() error {
		m.l.Push(fn)
		m.l.Push(lua.LNumber(ctx.Section))
		m.l.Push(lua.LNumber(ctx.Command))
		m.l.Push(lua.LNumber(ctx.Repeat))
		return m.l.PCall(3, 0, nil)
	})
	if err != nil {
		m.log.Error("extension handler failed",
			"section", ctx.Section, "command", ctx.Command, "error", err)
	}
}

// luaOutput implements narrator.output(text).
func (m *Manager) luaOutput(l *lua.LState) int {
	m.out.Output(l.CheckString(1))
	return 0
}

// luaActionName implements narrator.action_name(section, command),
// returning the name or nil.
func (m *Manager) luaActionName(l *lua.LState) int {
	name, err := m.bus.ActionName(l.CheckInt(1), l.CheckInt(2))
	if err != nil {
		l.Push(lua.LNil)
		return 1
	}
	l.Push(lua.LString(name))
	return 1
}

// luaToggle implements narrator.toggle(section, command), returning
// the toggle state or nil for commands that are not toggles.
func (m *Manager) luaToggle(l *lua.LState) int {
	state, err := m.bus.ToggleState(l.CheckInt(1), l.CheckInt(2))
	if err != nil {
		l.Push(lua.LNil)
		return 1
	}
	l.Push(lua.LBool(state))
	return 1
}
