// Package midiedit implements the MIDI editor navigation commands:
// chord and note-in-chord movement, controller event movement, and
// selection toggling, with audible note preview.
package midiedit

import (
	"errors"
	"strconv"
	"time"

	"github.com/dshills/narrator/internal/announce"
	"github.com/dshills/narrator/internal/dispatcher"
	"github.com/dshills/narrator/internal/dispatcher/execctx"
	"github.com/dshills/narrator/internal/dispatcher/handler"
	"github.com/dshills/narrator/internal/host"
	"github.com/dshills/narrator/internal/sched"
	"github.com/dshills/narrator/internal/sequence"
)

// Command ids for the navigation actions this package contributes.
// The embedding layer registers them with the host's action system
// under the MIDI editor section.
const (
	CmdNextChord        = 21001
	CmdPrevChord        = 21002
	CmdNextChordKeepSel = 21003
	CmdPrevChordKeepSel = 21004
	CmdNextNoteInChord  = 21005
	CmdPrevNoteInChord  = 21006
	CmdNextNoteKeepSel  = 21007
	CmdPrevNoteKeepSel  = 21008
	CmdNextCC           = 21009
	CmdPrevCC           = 21010
	CmdNextCCKeepSel    = 21011
	CmdPrevCCKeepSel    = 21012
	CmdToggleSelection  = 21013
)

// Native MIDI editor commands used while handling.
const (
	cmdNativeUnselectAll = 40214 // Edit: Unselect all
	cmdNativeInsertNote  = 40051 // Edit: Insert note at edit cursor
)

// DefaultPreviewLength is how long navigated-to notes sound.
const DefaultPreviewLength = 300 * time.Millisecond

// Commands holds the navigation state: the within-chord cursor, the
// controller event cursor, and the preview note-off timer. All state
// is touched only from the dispatch thread.
type Commands struct {
	chord   sequence.ChordCursor
	cc      sequence.CCCursor
	preview sched.SingleShot

	// PreviewLength overrides DefaultPreviewLength when set.
	PreviewLength time.Duration

	// selectionContiguous mirrors whether the running selection was
	// built without gaps; keep-selection variants only extend the
	// selection while it is contiguous.
	selectionContiguous bool
}

// New creates the command set.
func New() *Commands {
	return &Commands{
		chord:               sequence.NewChordCursor(),
		cc:                  sequence.NewCCCursor(),
		selectionContiguous: true,
	}
}

// Register installs the commands into reg.
func (c *Commands) Register(reg *dispatcher.Registry) {
	overrides := map[int]handler.Override{
		CmdNextChord:        func(ctx *execctx.ExecutionContext) { c.moveToChord(ctx, 1, true, true) },
		CmdPrevChord:        func(ctx *execctx.ExecutionContext) { c.moveToChord(ctx, -1, true, true) },
		CmdNextChordKeepSel: func(ctx *execctx.ExecutionContext) { c.moveToChord(ctx, 1, false, c.selectionContiguous) },
		CmdPrevChordKeepSel: func(ctx *execctx.ExecutionContext) { c.moveToChord(ctx, -1, false, c.selectionContiguous) },
		CmdNextNoteInChord:  func(ctx *execctx.ExecutionContext) { c.moveToNoteInChord(ctx, 1, true, true) },
		CmdPrevNoteInChord:  func(ctx *execctx.ExecutionContext) { c.moveToNoteInChord(ctx, -1, true, true) },
		CmdNextNoteKeepSel:  func(ctx *execctx.ExecutionContext) { c.moveToNoteInChord(ctx, 1, false, c.selectionContiguous) },
		CmdPrevNoteKeepSel:  func(ctx *execctx.ExecutionContext) { c.moveToNoteInChord(ctx, -1, false, c.selectionContiguous) },
		CmdNextCC:           func(ctx *execctx.ExecutionContext) { c.moveToCC(ctx, 1, true, true) },
		CmdPrevCC:           func(ctx *execctx.ExecutionContext) { c.moveToCC(ctx, -1, true, true) },
		CmdNextCCKeepSel:    func(ctx *execctx.ExecutionContext) { c.moveToCC(ctx, 1, false, c.selectionContiguous) },
		CmdPrevCCKeepSel:    func(ctx *execctx.ExecutionContext) { c.moveToCC(ctx, -1, false, c.selectionContiguous) },
		CmdToggleSelection:  c.toggleSelection,
	}
	for cmd, h := range overrides {
		reg.Register(host.SectionMIDIEditor, cmd, h)
	}
	reg.Register(host.SectionMIDIEditor, cmdNativeInsertNote, handler.Override(c.insertNote))
}

// editor fetches the active editor and its take; a miss means the
// command has nothing to act on and stays silent.
func editor(ctx *execctx.ExecutionContext) (host.MIDIEditor, host.Take, bool) {
	ed, err := ctx.Host.ActiveMIDIEditor()
	if err != nil {
		if !errors.Is(err, host.ErrNotFound) {
			ctx.Log.Debug("midi editor query failed", "error", err)
		}
		return nil, nil, false
	}
	take, err := ed.Take()
	if err != nil {
		return nil, nil, false
	}
	return ed, take, true
}

func (c *Commands) playPreview(ed host.MIDIEditor, notes []sequence.Note) {
	if len(notes) == 0 {
		return
	}
	length := c.PreviewLength
	if length <= 0 {
		length = DefaultPreviewLength
	}
	ed.PlayNotes(notes)
	c.preview.Schedule(length, ed.StopNotes)
}

func (c *Commands) moveToChord(ctx *execctx.ExecutionContext, dir int, clearSelection, sel bool) {
	ed, take, ok := editor(ctx)
	if !ok {
		return
	}
	src := host.Notes(take)
	r, err := sequence.FindChord(src, ed.CursorPosition(), dir)
	if err != nil || r.Empty() {
		return
	}
	c.chord.Reset()
	if clearSelection {
		ed.Execute(cmdNativeUnselectAll)
		c.selectionContiguous = true
	}
	notes, err := sequence.ChordNotes(src, r)
	if err != nil || len(notes) == 0 {
		return
	}
	if dir != 0 {
		ed.SetCursorPosition(notes[0].Start)
	}
	if sel {
		for _, n := range notes {
			if err := take.SetNoteSelected(n.Index, true); err != nil {
				ctx.Log.Debug("note select failed", "index", n.Index, "error", err)
			}
		}
	}
	c.playPreview(ed, notes)

	// Second press within the repeat window reports the secondary
	// time unit.
	msg := announce.Position(notes[0].Start)
	if ctx.Repeat > 0 {
		msg = announce.Seconds(notes[0].Start)
	}
	if !sel {
		msg += " unselected"
	}
	if ctx.Settings.Get().ReportNotes {
		msg += " " + announce.Notes(len(notes))
	}
	ctx.Out.Output(msg)
}

func (c *Commands) moveToNoteInChord(ctx *execctx.ExecutionContext, dir int, clearSelection, sel bool) {
	ed, take, ok := editor(ctx)
	if !ok {
		return
	}
	src := host.Notes(take)
	r, err := sequence.FindChord(src, ed.CursorPosition(), 0)
	if err != nil || r.Empty() {
		return
	}
	notes, err := sequence.ChordNotes(src, r)
	if err != nil {
		return
	}
	note, ok := c.chord.Advance(notes, dir)
	if !ok {
		return
	}
	if clearSelection {
		ed.Execute(cmdNativeUnselectAll)
		c.selectionContiguous = true
	}
	if sel {
		if err := take.SetNoteSelected(note.Index, true); err != nil {
			ctx.Log.Debug("note select failed", "index", note.Index, "error", err)
		}
	}
	c.playPreview(ed, []sequence.Note{note})

	if !ctx.Settings.Get().ReportNotes {
		return
	}
	name := announce.NoteName(note.Channel, note.Pitch, ctx.Host.OctaveOffset(), take.NoteName)
	msg := name
	if !sel {
		msg += " unselected"
	}
	if ctx.Repeat > 0 {
		// Detailed report on repeat press.
		msg += ", " + announce.Length(note.Length()) + ", velocity " + strconv.Itoa(note.Velocity)
	} else {
		msg += ", " + announce.Length(note.Length())
	}
	ctx.Out.Output(msg)
}

func (c *Commands) moveToCC(ctx *execctx.ExecutionContext, dir int, clearSelection, sel bool) {
	ed, take, ok := editor(ctx)
	if !ok {
		return
	}
	src := host.CCs(take)
	var (
		cc  sequence.CC
		hit bool
		err error
	)
	if dir >= 0 {
		cc, hit, err = c.cc.Next(src, ed.CursorPosition())
	} else {
		cc, hit, err = c.cc.Prev(src, ed.CursorPosition())
	}
	if err != nil || !hit {
		return
	}
	ed.SetCursorPosition(cc.Start)
	if clearSelection {
		ed.Execute(cmdNativeUnselectAll)
		c.selectionContiguous = true
	}
	if sel {
		if err := take.SetCCSelected(cc.Index, true); err != nil {
			ctx.Log.Debug("cc select failed", "index", cc.Index, "error", err)
		}
	}
	msg := announce.Controller(cc.Status, cc.Channel, cc.Data1, cc.Data2)
	if !sel {
		msg += " unselected"
	}
	ctx.Out.Output(msg)
}

// toggleSelection flips the selection of the current note when the
// user is on a note within a chord, or of the whole chord otherwise.
// Toggling makes the selection noncontiguous, which stops
// keep-selection navigation from auto-extending it.
func (c *Commands) toggleSelection(ctx *execctx.ExecutionContext) {
	ed, take, ok := editor(ctx)
	if !ok {
		return
	}
	src := host.Notes(take)
	r, err := sequence.FindChord(src, ed.CursorPosition(), 0)
	if err != nil || r.Empty() {
		return
	}
	notes, err := sequence.ChordNotes(src, r)
	if err != nil || len(notes) == 0 {
		return
	}

	if ord := c.chord.Ordinal(); ord >= 0 && ord < len(notes) {
		note := notes[ord]
		sel := !note.Selected
		if err := take.SetNoteSelected(note.Index, sel); err != nil {
			return
		}
		c.selectionContiguous = false
		if sel {
			ctx.Out.Output("selected")
		} else {
			ctx.Out.Output("unselected")
		}
		return
	}

	sel := !notes[0].Selected
	for _, n := range notes {
		if err := take.SetNoteSelected(n.Index, sel); err != nil {
			ctx.Log.Debug("note select failed", "index", n.Index, "error", err)
		}
	}
	c.selectionContiguous = false
	word := " unselected"
	if sel {
		word = " selected"
	}
	ctx.Out.Output(announce.Notes(len(notes)) + word)
}

// insertNote wraps the native insert command and reports the inserted
// note. The note is found by pitch among the selected notes: the host
// selects what it inserts, and the pitch cursor makes it unique.
func (c *Commands) insertNote(ctx *execctx.ExecutionContext) {
	ed, take, ok := editor(ctx)
	if !ok {
		return
	}
	oldCount := take.NoteCount()
	ed.Execute(cmdNativeInsertNote)
	if take.NoteCount() <= oldCount {
		return // Not inserted.
	}
	pitch, ok := ed.Setting("active_note_row")
	if !ok {
		return
	}
	var inserted *sequence.Note
	for i := 0; i < take.NoteCount(); i++ {
		n, err := take.Note(i)
		if err != nil || !n.Selected || n.Pitch != pitch {
			continue
		}
		inserted = &n
		break
	}
	if inserted == nil {
		return
	}
	c.playPreview(ed, []sequence.Note{*inserted})
	if !ctx.Settings.Get().ReportNotes {
		return
	}
	name := announce.NoteName(inserted.Channel, inserted.Pitch, ctx.Host.OctaveOffset(), take.NoteName)
	ctx.Out.Output(name + " " + announce.Length(inserted.Length()) + ", " + announce.Position(inserted.Start))
}
