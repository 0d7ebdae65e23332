package msgtable_test

import (
	"testing"

	"github.com/dshills/narrator/internal/host"
	"github.com/dshills/narrator/internal/msgtable"
)

func TestSetAndGet(t *testing.T) {
	tbl := msgtable.New()
	key := msgtable.Key{Section: 0, Command: 40364}

	if _, ok := tbl.Toggle(key); ok {
		t.Fatal("empty table returned a toggle entry")
	}

	tbl.SetToggle(key, msgtable.ToggleText{On: "metronome on", Off: "metronome off"})
	text, ok := tbl.Toggle(key)
	if !ok || text.On != "metronome on" {
		t.Errorf("Toggle() = %+v, %v", text, ok)
	}

	tbl.SetPost(key, "grid whole")
	msg, ok := tbl.Post(key)
	if !ok || msg != "grid whole" {
		t.Errorf("Post() = %q, %v", msg, ok)
	}
}

func TestToggleTextSilent(t *testing.T) {
	tests := []struct {
		name string
		text msgtable.ToggleText
		want bool
	}{
		{"both spoken", msgtable.ToggleText{On: "a", Off: "b"}, false},
		{"one silent", msgtable.ToggleText{On: "a", SilentOff: true}, false},
		{"both silent", msgtable.ToggleText{SilentOn: true, SilentOff: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.text.Silent(); got != tt.want {
				t.Errorf("Silent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadJSONOverlay(t *testing.T) {
	tbl := msgtable.Builtin()
	data := []byte(`{
		"toggles": [
			{"section": 0, "command": 40364, "on": "click on", "off": "click off"},
			{"section": 0, "command": 1068, "on": "repeat on", "off": null}
		],
		"post": [
			{"section": 0, "command": 99999, "message": "custom grid"}
		]
	}`)
	if err := tbl.LoadJSON(data); err != nil {
		t.Fatalf("LoadJSON() error = %v", err)
	}

	text, ok := tbl.Toggle(msgtable.Key{Section: 0, Command: 40364})
	if !ok || text.On != "click on" || text.Off != "click off" {
		t.Errorf("overlaid toggle = %+v, %v", text, ok)
	}

	// A null direction is silent.
	text, ok = tbl.Toggle(msgtable.Key{Section: 0, Command: 1068})
	if !ok || text.SilentOff != true || text.On != "repeat on" {
		t.Errorf("half-silent toggle = %+v, %v", text, ok)
	}

	msg, ok := tbl.Post(msgtable.Key{Section: 0, Command: 99999})
	if !ok || msg != "custom grid" {
		t.Errorf("overlaid post = %q, %v", msg, ok)
	}

	// Untouched builtin entries survive the overlay.
	if _, ok := tbl.Post(msgtable.Key{Section: host.SectionMain, Command: 40781}); !ok {
		t.Error("builtin post entry lost after overlay")
	}
}

func TestLoadJSONErrors(t *testing.T) {
	tbl := msgtable.New()
	if err := tbl.LoadJSON([]byte("{not json")); err == nil {
		t.Error("invalid JSON accepted")
	}
	if err := tbl.LoadJSON([]byte(`{"toggles": [{"section": 0, "on": "x"}]}`)); err == nil {
		t.Error("entry without command accepted")
	}
}

func TestBuiltinEntries(t *testing.T) {
	tbl := msgtable.Builtin()

	text, ok := tbl.Toggle(msgtable.Key{Section: host.SectionMain, Command: 40364})
	if !ok || text.On != "metronome on" {
		t.Errorf("metronome toggle = %+v, %v", text, ok)
	}

	// Fullscreen opts out in both directions.
	text, ok = tbl.Toggle(msgtable.Key{Section: host.SectionMain, Command: 40346})
	if !ok || !text.Silent() {
		t.Errorf("fullscreen toggle = %+v, %v; want silent", text, ok)
	}

	if msg, ok := tbl.Post(msgtable.Key{Section: host.SectionMIDIEditor, Command: 40204}); !ok || msg != "grid whole" {
		t.Errorf("midi grid post = %q, %v", msg, ok)
	}
}
