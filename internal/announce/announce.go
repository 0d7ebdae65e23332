// Package announce builds the short human-readable strings the engine
// speaks: counts with locale-aware pluralization, note names, time
// positions and controller descriptions.
package announce

import (
	"fmt"
	"strings"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Count phrases go through the plural rules of the active language,
// never through naive count==1 concatenation; languages with more than
// two plural forms get correct phrasing for free once translations
// are registered.
func init() {
	message.Set(language.English, "%d notes",
		plural.Selectf(1, "%d", plural.One, "%d note", plural.Other, "%d notes"))
	message.Set(language.English, "%d items",
		plural.Selectf(1, "%d", plural.One, "%d item", plural.Other, "%d items"))
	message.Set(language.English, "%d tracks",
		plural.Selectf(1, "%d", plural.One, "%d track", plural.Other, "%d tracks"))
	message.Set(language.English, "%d events",
		plural.Selectf(1, "%d", plural.One, "%d event", plural.Other, "%d events"))
}

var printer = message.NewPrinter(language.English)

// Notes phrases a note count: "1 note", "3 notes".
func Notes(n int) string { return printer.Sprintf("%d notes", n) }

// Items phrases an item count.
func Items(n int) string { return printer.Sprintf("%d items", n) }

// Tracks phrases a track count.
func Tracks(n int) string { return printer.Sprintf("%d tracks", n) }

// Events phrases an event count.
func Events(n int) string { return printer.Sprintf("%d events", n) }

// StripCategory removes the category prefix from a host action name:
// "Options: Toggle metronome" becomes "Toggle metronome". Names
// without a category pass through unchanged.
func StripCategory(name string) string {
	if i := strings.Index(name, ": "); i >= 0 {
		return name[i+2:]
	}
	return name
}

// pitch class names, flattened to the speech-friendly forms screen
// readers pronounce reliably.
var pitchNames = [12]string{
	"c", "c sharp", "d", "d sharp", "e", "f",
	"f sharp", "g", "g sharp", "a", "a sharp", "b",
}

// NoteName formats a MIDI pitch as a spoken note name, honoring the
// host's octave display offset. custom, when non-nil, supplies
// user-assigned names (drum maps) which take precedence.
func NoteName(channel, pitch, octaveOffset int, custom func(channel, pitch int) (string, bool)) string {
	if custom != nil {
		if name, ok := custom(channel, pitch); ok {
			return name
		}
	}
	octave := pitch/12 - 1 + octaveOffset
	return fmt.Sprintf("%s %d", pitchNames[pitch%12], octave)
}

// Position formats a time in seconds as the primary spoken position,
// minutes:seconds.milliseconds.
func Position(seconds float64) string {
	min := int(seconds) / 60
	rem := seconds - float64(min*60)
	return fmt.Sprintf("%d:%06.3f", min, rem)
}

// Seconds formats a time as the secondary unit, raw seconds. The
// dispatcher's repeat-press counter switches reports to this on the
// second press.
func Seconds(seconds float64) string {
	return fmt.Sprintf("%.3f sec", seconds)
}

// Length formats a note length in seconds.
func Length(seconds float64) string {
	return fmt.Sprintf("%.3f sec", seconds)
}

// Controller statuses the engine knows how to describe.
const (
	StatusNoteOff       = 0x80
	StatusNoteOn        = 0x90
	StatusAftertouch    = 0xA0
	StatusControlChange = 0xB0
	StatusProgramChange = 0xC0
	StatusChannelPress  = 0xD0
	StatusPitchBend     = 0xE0
)

// Controller describes a controller event: message kind, number and
// value. Channels are spoken one-based.
func Controller(status, channel, data1, data2 int) string {
	switch status {
	case StatusControlChange:
		return fmt.Sprintf("CC %d value %d channel %d", data1, data2, channel+1)
	case StatusProgramChange:
		return fmt.Sprintf("program %d channel %d", data1, channel+1)
	case StatusChannelPress:
		return fmt.Sprintf("channel pressure %d channel %d", data1, channel+1)
	case StatusPitchBend:
		return fmt.Sprintf("pitch bend %d channel %d", data1|data2<<7, channel+1)
	case StatusAftertouch:
		return fmt.Sprintf("aftertouch %d value %d channel %d", data1, data2, channel+1)
	default:
		return fmt.Sprintf("event %X %d %d channel %d", status, data1, data2, channel+1)
	}
}
