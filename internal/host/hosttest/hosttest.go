// Package hosttest provides a scriptable in-memory host for tests.
package hosttest

import (
	"github.com/google/uuid"

	"github.com/dshills/narrator/internal/host"
	"github.com/dshills/narrator/internal/sequence"
)

var (
	_ host.Host       = (*Host)(nil)
	_ host.Track      = (*Track)(nil)
	_ host.MIDIEditor = (*Editor)(nil)
	_ host.Take       = (*take)(nil)
)

// Command is one scripted host command.
type Command struct {
	Name string

	// Toggle marks the command as a binary toggle; State is its
	// current value.
	Toggle bool
	State  bool

	// Exec, when set, runs on native execution. Most toggles just need
	// the default behavior of flipping State.
	Exec func(h *Host)
}

// Host is a fake host whose commands, tracks and MIDI editor are set
// up by the test.
type Host struct {
	Commands map[[2]int]*Command
	Tracks   []*Track
	Touched  int // index of the last touched track, -1 for none
	Editor   *Editor
	State    host.PlayState
	Octave   int

	focus host.Target

	// Executed records every native execution in order, as
	// section/command pairs.
	Executed [][2]int
}

// New returns an empty host with no tracks and no editor.
func New() *Host {
	return &Host{
		Commands: make(map[[2]int]*Command),
		Touched:  -1,
		focus:    host.Target(uuid.NewString()),
	}
}

// AddCommand scripts a command.
func (h *Host) AddCommand(section, command int, c *Command) *Command {
	if c == nil {
		c = &Command{}
	}
	h.Commands[[2]int{section, command}] = c
	return c
}

// AddToggle scripts a toggle command with an initial state.
func (h *Host) AddToggle(section, command int, name string, state bool) *Command {
	return h.AddCommand(section, command, &Command{Name: name, Toggle: true, State: state})
}

// AddTrack appends a track and returns it.
func (h *Host) AddTrack(t *Track) *Track {
	t.index = len(h.Tracks)
	t.host = h
	h.Tracks = append(h.Tracks, t)
	return t
}

// ChangeFocus simulates the host moving UI focus to a new window.
func (h *Host) ChangeFocus() {
	h.focus = host.Target(uuid.NewString())
}

// Execute implements host.Bus.
func (h *Host) Execute(section, command, val, valHW, relMode int, window host.Target) {
	h.Executed = append(h.Executed, [2]int{section, command})
	c, ok := h.Commands[[2]int{section, command}]
	if !ok {
		return
	}
	if c.Exec != nil {
		c.Exec(h)
		return
	}
	if c.Toggle {
		c.State = !c.State
	}
}

// CommandExists implements host.Bus.
func (h *Host) CommandExists(section, command int) bool {
	_, ok := h.Commands[[2]int{section, command}]
	return ok
}

// ToggleState implements host.Bus.
func (h *Host) ToggleState(section, command int) (bool, error) {
	c, ok := h.Commands[[2]int{section, command}]
	if !ok || !c.Toggle {
		return false, host.ErrUnsupported
	}
	return c.State, nil
}

// ActionName implements host.Bus.
func (h *Host) ActionName(section, command int) (string, error) {
	c, ok := h.Commands[[2]int{section, command}]
	if !ok || c.Name == "" {
		return "", host.ErrNotFound
	}
	return c.Name, nil
}

// FocusTarget implements host.Bus.
func (h *Host) FocusTarget() host.Target { return h.focus }

// TrackCount implements host.Project.
func (h *Host) TrackCount() int { return len(h.Tracks) }

// Track implements host.Project.
func (h *Host) Track(i int) (host.Track, error) {
	if i < 0 || i >= len(h.Tracks) {
		return nil, host.ErrNotFound
	}
	return h.Tracks[i], nil
}

// SelectedTrackCount implements host.Project.
func (h *Host) SelectedTrackCount() int {
	n := 0
	for _, t := range h.Tracks {
		if t.Sel {
			n++
		}
	}
	return n
}

// LastTouchedTrack implements host.Project.
func (h *Host) LastTouchedTrack() (host.Track, error) {
	if h.Touched < 0 || h.Touched >= len(h.Tracks) {
		return nil, host.ErrNotFound
	}
	return h.Tracks[h.Touched], nil
}

// PlayState implements host.Host.
func (h *Host) PlayState() host.PlayState { return h.State }

// ActiveMIDIEditor implements host.Host.
func (h *Host) ActiveMIDIEditor() (host.MIDIEditor, error) {
	if h.Editor == nil {
		return nil, host.ErrNotFound
	}
	return h.Editor, nil
}

// OctaveOffset implements host.Host.
func (h *Host) OctaveOffset() int { return h.Octave }

// Track is a scriptable track. Gone simulates deletion: every read
// fails with ErrNotFound.
type Track struct {
	TrackName string
	Sel       bool
	Mute      bool
	Solo      bool
	Arm       bool
	Items     int
	Gone      bool

	index int
	host  *Host
}

func (t *Track) Index() int { return t.index }

func (t *Track) read(v bool) (bool, error) {
	if t.Gone {
		return false, host.ErrNotFound
	}
	return v, nil
}

func (t *Track) Name() (string, error) {
	if t.Gone {
		return "", host.ErrNotFound
	}
	return t.TrackName, nil
}

func (t *Track) Selected() (bool, error) { return t.read(t.Sel) }
func (t *Track) Muted() (bool, error)    { return t.read(t.Mute) }
func (t *Track) Soloed() (bool, error)   { return t.read(t.Solo) }
func (t *Track) Armed() (bool, error)    { return t.read(t.Arm) }

func (t *Track) ItemCount() (int, error) {
	if t.Gone {
		return 0, host.ErrNotFound
	}
	return t.Items, nil
}

// Editor is a scriptable MIDI editor with one take.
type Editor struct {
	NoteEvents []sequence.Note
	CCEvents   []sequence.CC
	Names      map[[2]int]string // channel,pitch -> drum map name
	Settings   map[string]int
	Cursor     float64
	NoTake     bool

	// Commands runs on Editor.Execute, keyed by command id. Unknown
	// commands are ignored.
	Commands map[int]func(e *Editor)

	// Previewed records every PlayNotes call; PreviewStopped counts
	// StopNotes calls.
	Previewed      [][]sequence.Note
	PreviewStopped int

	// Executed records native editor command executions in order.
	Executed []int
}

// NewEditor returns an editor that unselects all notes and CCs on the
// native unselect-all command.
func NewEditor() *Editor {
	e := &Editor{
		Names:    make(map[[2]int]string),
		Settings: make(map[string]int),
		Commands: make(map[int]func(e *Editor)),
	}
	e.Commands[40214] = func(e *Editor) {
		for i := range e.NoteEvents {
			e.NoteEvents[i].Selected = false
		}
		for i := range e.CCEvents {
			e.CCEvents[i].Selected = false
		}
	}
	return e
}

// Take implements host.MIDIEditor. The editor is its own take.
func (e *Editor) Take() (host.Take, error) {
	if e.NoTake {
		return nil, host.ErrNotFound
	}
	return (*take)(e), nil
}

func (e *Editor) CursorPosition() float64       { return e.Cursor }
func (e *Editor) SetCursorPosition(pos float64) { e.Cursor = pos }

func (e *Editor) Execute(command int) {
	e.Executed = append(e.Executed, command)
	if fn, ok := e.Commands[command]; ok {
		fn(e)
	}
}

func (e *Editor) Setting(name string) (int, bool) {
	v, ok := e.Settings[name]
	return v, ok
}

func (e *Editor) PlayNotes(notes []sequence.Note) {
	e.Previewed = append(e.Previewed, notes)
}

func (e *Editor) StopNotes() { e.PreviewStopped++ }

// take implements host.Take over the editor's event slices. Event
// Index fields are kept in sync with slice positions.
type take Editor

func (t *take) NoteCount() int { return len(t.NoteEvents) }

func (t *take) Note(i int) (sequence.Note, error) {
	if i < 0 || i >= len(t.NoteEvents) {
		return sequence.Note{}, host.ErrNotFound
	}
	n := t.NoteEvents[i]
	n.Index = i
	return n, nil
}

func (t *take) SetNoteSelected(i int, selected bool) error {
	if i < 0 || i >= len(t.NoteEvents) {
		return host.ErrNotFound
	}
	t.NoteEvents[i].Selected = selected
	return nil
}

func (t *take) SelectedNoteCount() int {
	n := 0
	for _, ev := range t.NoteEvents {
		if ev.Selected {
			n++
		}
	}
	return n
}

func (t *take) CCCount() int { return len(t.CCEvents) }

func (t *take) CC(i int) (sequence.CC, error) {
	if i < 0 || i >= len(t.CCEvents) {
		return sequence.CC{}, host.ErrNotFound
	}
	cc := t.CCEvents[i]
	cc.Index = i
	return cc, nil
}

func (t *take) SetCCSelected(i int, selected bool) error {
	if i < 0 || i >= len(t.CCEvents) {
		return host.ErrNotFound
	}
	t.CCEvents[i].Selected = selected
	return nil
}

func (t *take) NoteName(channel, pitch int) (string, bool) {
	name, ok := t.Names[[2]int{channel, pitch}]
	return name, ok
}
