package dispatcher

import (
	"github.com/dshills/narrator/internal/dispatcher/handler"
	"github.com/dshills/narrator/internal/host"
)

// CommandKey identifies a command within a canonical section.
type CommandKey struct {
	Section int
	Command int
}

// Registry is the static lookup table from CommandKey to handler,
// built once at startup from declarative lists.
type Registry struct {
	bus       host.Bus
	entries   map[CommandKey]handler.Handler
	canonical map[int]int
}

// NewRegistry creates a registry that validates registrations against
// bus.
func NewRegistry(bus host.Bus) *Registry {
	canonical := map[int]int{
		host.SectionMainAltRec: host.SectionMain,
		host.SectionMIDIInline: host.SectionMIDIEditor,
	}
	// Main alternate keymaps 1-16 are the main section for dispatch
	// purposes; the original section id still reaches execution.
	for alt := 1; alt <= 16; alt++ {
		canonical[alt] = host.SectionMain
	}
	return &Registry{
		bus:       bus,
		entries:   make(map[CommandKey]handler.Handler),
		canonical: canonical,
	}
}

// Canonical resolves a host section to its canonical section id.
func (r *Registry) Canonical(section int) int {
	if c, ok := r.canonical[section]; ok {
		return c
	}
	return section
}

// Register installs a handler. Commands the host does not know (for
// example, actions provided by an optional extension that is not
// installed) are skipped silently; the return value reports whether
// the handler was installed.
func (r *Registry) Register(section, command int, h handler.Handler) bool {
	section = r.Canonical(section)
	if !r.bus.CommandExists(section, command) {
		return false
	}
	r.entries[CommandKey{Section: section, Command: command}] = h
	return true
}

// Lookup returns the handler for a command, resolving alternate
// sections to their canonical id first. Returns nil when nothing is
// registered.
func (r *Registry) Lookup(section, command int) handler.Handler {
	return r.entries[CommandKey{Section: r.Canonical(section), Command: command}]
}

// Len returns the number of registered handlers.
func (r *Registry) Len() int { return len(r.entries) }
