package host

import (
	"errors"

	"github.com/dshills/narrator/internal/sequence"
)

// ErrNotFound reports that a requested entity does not exist: deleted,
// out of range, or never created.
var ErrNotFound = errors.New("host: entity not found")

// ErrUnsupported reports that the host cannot answer the query for
// this command, e.g. a toggle-state read for a command that is not a
// toggle.
var ErrUnsupported = errors.New("host: query not supported")

// Target is an opaque handle for the host's current UI focus. The
// zero value means "no focus". Targets are only ever compared for
// equality.
type Target string

// Host keymap sections. Several alternate keymap sections are
// semantically equivalent to a canonical section for dispatch
// purposes; see dispatcher.Registry.
const (
	SectionMain          = 0
	SectionMainAltRec    = 100
	SectionMIDIEditor    = 32060
	SectionMIDIEventList = 32061
	SectionMIDIInline    = 32062
)

// Bus is the host command bus: execute plus the command metadata
// queries the dispatcher needs.
type Bus interface {
	// Execute runs a command natively. val, valHW and relMode carry
	// controller data for commands triggered via hardware surfaces;
	// window is the UI target the command was issued from.
	Execute(section, command, val, valHW, relMode int, window Target)

	// CommandExists reports whether the command id is registered in
	// this host build. Optional-extension commands may be absent.
	CommandExists(section, command int) bool

	// ToggleState reads a command's toggle state. Returns
	// ErrUnsupported for commands that are not toggles.
	ToggleState(section, command int) (bool, error)

	// ActionName returns the command's human-readable action name,
	// usually prefixed with a category ("Track: ...").
	ActionName(section, command int) (string, error)

	// FocusTarget returns the current UI focus.
	FocusTarget() Target
}

// Track is a transient view of one track. Reads fail with ErrNotFound
// once the track is deleted.
type Track interface {
	Index() int
	Name() (string, error)
	Selected() (bool, error)
	Muted() (bool, error)
	Soloed() (bool, error)
	Armed() (bool, error)
	ItemCount() (int, error)
}

// Project exposes the track-level read queries the post hooks use.
type Project interface {
	TrackCount() int
	Track(i int) (Track, error)
	SelectedTrackCount() int
	// LastTouchedTrack returns the track most recently acted on, or
	// ErrNotFound when there is none.
	LastTouchedTrack() (Track, error)
}

// Take exposes one MIDI take's events through random access by index.
type Take interface {
	NoteCount() int
	Note(i int) (sequence.Note, error)
	SetNoteSelected(i int, selected bool) error
	SelectedNoteCount() int

	CCCount() int
	CC(i int) (sequence.CC, error)
	SetCCSelected(i int, selected bool) error

	// NoteName returns a user-assigned name for a pitch on a channel,
	// if the host has one (drum maps and the like).
	NoteName(channel, pitch int) (string, bool)
}

// MIDIEditor is the active MIDI editor window.
type MIDIEditor interface {
	// Take returns the take being edited, or ErrNotFound.
	Take() (Take, error)

	CursorPosition() float64
	SetCursorPosition(pos float64)

	// Execute runs a native MIDI editor command in this window.
	Execute(command int)

	// Setting reads an integer editor setting such as
	// "active_note_row" or "default_note_vel".
	Setting(name string) (int, bool)

	// PlayNotes starts an audible preview of the given notes.
	// StopNotes silences any preview notes still sounding; it is safe
	// to call when nothing is playing.
	PlayNotes(notes []sequence.Note)
	StopNotes()
}

// PlayState is the host transport state.
type PlayState struct {
	Playing   bool
	Paused    bool
	Recording bool
}

// Describe returns the spoken form of the state.
func (s PlayState) Describe() string {
	switch {
	case s.Recording:
		return "recording"
	case s.Paused:
		return "paused"
	case s.Playing:
		return "playing"
	default:
		return "stopped"
	}
}

// Host aggregates everything the engine consumes. Components should
// accept the narrowest interface that serves them; Host exists for
// wiring.
type Host interface {
	Bus
	Project

	// PlayState returns the current transport state.
	PlayState() PlayState

	// ActiveMIDIEditor returns the open MIDI editor, or ErrNotFound
	// when none is open.
	ActiveMIDIEditor() (MIDIEditor, error)

	// OctaveOffset is the host's MIDI octave display offset, applied
	// when formatting note names.
	OctaveOffset() int
}

// noteSource adapts a Take to sequence.Source[sequence.Note].
type noteSource struct{ t Take }

func (s noteSource) Len() int                        { return s.t.NoteCount() }
func (s noteSource) At(i int) (sequence.Note, error) { return s.t.Note(i) }

// ccSource adapts a Take to sequence.Source[sequence.CC].
type ccSource struct{ t Take }

func (s ccSource) Len() int                      { return s.t.CCCount() }
func (s ccSource) At(i int) (sequence.CC, error) { return s.t.CC(i) }

// Notes exposes a take's notes as a sequence source.
func Notes(t Take) sequence.Source[sequence.Note] { return noteSource{t: t} }

// CCs exposes a take's controller events as a sequence source.
func CCs(t Take) sequence.Source[sequence.CC] { return ccSource{t: t} }
