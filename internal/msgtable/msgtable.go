// Package msgtable holds the declarative message tables: per-command
// toggle announcements and fixed post-execution messages. The tables
// are data, not computed state; built-in defaults can be overlaid
// with user-supplied JSON.
package msgtable

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/dshills/narrator/internal/host"
)

// Key identifies a command within a canonical section.
type Key struct {
	Section int
	Command int
}

// ToggleText is the announcement pair for a binary toggle. A silent
// direction means the state flip in that direction is deliberately
// not announced; both directions silent opts the command out of
// toggle reporting entirely.
type ToggleText struct {
	On        string
	Off       string
	SilentOn  bool
	SilentOff bool
}

// Silent reports whether both directions are muted.
func (t ToggleText) Silent() bool { return t.SilentOn && t.SilentOff }

// Table maps commands to their override messages.
type Table struct {
	toggles map[Key]ToggleText
	post    map[Key]string
}

// New returns an empty table.
func New() *Table {
	return &Table{
		toggles: make(map[Key]ToggleText),
		post:    make(map[Key]string),
	}
}

// Toggle returns the toggle override for key, if any.
func (t *Table) Toggle(key Key) (ToggleText, bool) {
	tt, ok := t.toggles[key]
	return tt, ok
}

// Post returns the fixed post-execution message for key, if any.
func (t *Table) Post(key Key) (string, bool) {
	msg, ok := t.post[key]
	return msg, ok
}

// SetToggle installs a toggle override.
func (t *Table) SetToggle(key Key, text ToggleText) {
	t.toggles[key] = text
}

// SetPost installs a fixed post-execution message.
func (t *Table) SetPost(key Key, message string) {
	t.post[key] = message
}

// LoadJSON overlays entries parsed from data on top of the table.
// Format:
//
//	{
//	  "toggles": [
//	    {"section": 0, "command": 40364, "on": "metronome on", "off": "metronome off"},
//	    {"section": 0, "command": 1068, "on": "repeat on", "off": null}
//	  ],
//	  "post": [
//	    {"section": 0, "command": 40781, "message": "grid whole"}
//	  ]
//	}
//
// A null or absent direction is silent.
func (t *Table) LoadJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("msgtable: invalid JSON")
	}
	doc := gjson.ParseBytes(data)

	var err error
	doc.Get("toggles").ForEach(func(_, entry gjson.Result) bool {
		key, e := entryKey(entry)
		if e != nil {
			err = e
			return false
		}
		var text ToggleText
		if on := entry.Get("on"); on.Type == gjson.String {
			text.On = on.String()
		} else {
			text.SilentOn = true
		}
		if off := entry.Get("off"); off.Type == gjson.String {
			text.Off = off.String()
		} else {
			text.SilentOff = true
		}
		t.toggles[key] = text
		return true
	})
	if err != nil {
		return err
	}

	doc.Get("post").ForEach(func(_, entry gjson.Result) bool {
		key, e := entryKey(entry)
		if e != nil {
			err = e
			return false
		}
		t.post[key] = entry.Get("message").String()
		return true
	})
	return err
}

func entryKey(entry gjson.Result) (Key, error) {
	command := entry.Get("command")
	if !command.Exists() {
		return Key{}, fmt.Errorf("msgtable: entry missing command: %s", entry.Raw)
	}
	return Key{
		Section: int(entry.Get("section").Int()),
		Command: int(command.Int()),
	}, nil
}

// Builtin returns the default tables: the toggle and post-execution
// messages for the stock host commands the engine knows about.
func Builtin() *Table {
	t := New()

	toggles := []struct {
		key  Key
		text ToggleText
	}{
		{Key{host.SectionMain, 40364}, ToggleText{On: "metronome on", Off: "metronome off"}},
		{Key{host.SectionMain, 1068}, ToggleText{On: "repeat on", Off: "repeat off"}},
		{Key{host.SectionMain, 40917}, ToggleText{On: "master mono", Off: "master stereo"}},
		{Key{host.SectionMain, 40041}, ToggleText{On: "auto crossfade on", Off: "auto crossfade off"}},
		{Key{host.SectionMain, 1135}, ToggleText{On: "locking on", Off: "locking off"}},
		{Key{host.SectionMain, 40745}, ToggleText{On: "solo in front", Off: "normal solo"}},
		{Key{host.SectionMain, 41819}, ToggleText{On: "pre roll on", Off: "pre roll off"}},
		{Key{host.SectionMain, 40075}, ToggleText{On: "master track visible", Off: "master track hidden"}},
		// Fullscreen is obvious from the screen reader's own focus
		// feedback; opted out in both directions.
		{Key{host.SectionMain, 40346}, ToggleText{SilentOn: true, SilentOff: true}},
	}
	for _, e := range toggles {
		t.SetToggle(e.key, e.text)
	}

	post := []struct {
		key Key
		msg string
	}{
		{Key{host.SectionMain, 40625}, "set selection start"},
		{Key{host.SectionMain, 40222}, "set loop start"},
		{Key{host.SectionMain, 40223}, "set loop end"},
		{Key{host.SectionMain, 40781}, "grid whole"},
		{Key{host.SectionMain, 40780}, "grid half"},
		{Key{host.SectionMain, 40779}, "grid quarter"},
		{Key{host.SectionMain, 40778}, "grid eighth"},
		{Key{host.SectionMain, 40776}, "grid sixteenth"},
		{Key{host.SectionMain, 40775}, "grid thirty second"},
		{Key{host.SectionMIDIEditor, 40204}, "grid whole"},
		{Key{host.SectionMIDIEditor, 40203}, "grid half"},
		{Key{host.SectionMIDIEditor, 40201}, "grid quarter"},
		{Key{host.SectionMIDIEditor, 40197}, "grid eighth"},
		{Key{host.SectionMIDIEditor, 40192}, "grid sixteenth"},
		{Key{host.SectionMIDIEditor, 40190}, "grid thirty second"},
	}
	for _, e := range post {
		t.SetPost(e.key, e.msg)
	}

	return t
}
