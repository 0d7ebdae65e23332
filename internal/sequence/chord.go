package sequence

import (
	"sort"
)

// Range identifies a contiguous run of events sharing a start time.
// First and Last are inclusive host indexes. An empty range has
// First == -1.
type Range struct {
	First int
	Last  int
}

// EmptyRange is the "no match" result.
var EmptyRange = Range{First: -1, Last: -1}

// Empty reports whether the range matched nothing.
func (r Range) Empty() bool { return r.First < 0 }

// Len returns the number of events in the range.
func (r Range) Len() int {
	if r.Empty() {
		return 0
	}
	return r.Last - r.First + 1
}

// equalRange returns the half-open index interval [lo, hi) of events
// whose start time equals t. The source must be ordered by start time.
func equalRange[E Event](src Source[E], t float64) (lo, hi int, err error) {
	n := src.Len()
	timeAt := func(i int) float64 {
		if err != nil {
			return 0
		}
		ev, e := src.At(i)
		if e != nil {
			err = e
			return 0
		}
		return ev.Time()
	}
	lo = sort.Search(n, func(i int) bool { return timeAt(i) >= t })
	hi = sort.Search(n, func(i int) bool { return timeAt(i) > t })
	if err != nil {
		return 0, 0, err
	}
	return lo, hi, nil
}

// FindChord locates the group of events sharing an identical start
// time relative to the reference time at.
//
// dir +1 seeks the nearest group strictly after at, dir -1 the nearest
// group strictly before it, and dir 0 the group exactly at it. When no
// group exists in the requested direction the empty range is returned;
// there is no wraparound.
//
// The partition is O(log n); extending across the matched group is
// O(k) for a group of size k.
func FindChord[E Event](src Source[E], at float64, dir int) (Range, error) {
	if src.Len() == 0 {
		return EmptyRange, nil
	}
	lo, hi, err := equalRange(src, at)
	if err != nil {
		return EmptyRange, err
	}
	switch {
	case dir > 0:
		if hi >= src.Len() {
			return EmptyRange, nil
		}
		return groupAt(src, hi)
	case dir < 0:
		if lo == 0 {
			return EmptyRange, nil
		}
		return groupEndingAt(src, lo-1)
	default:
		if lo == hi {
			return EmptyRange, nil
		}
		return Range{First: lo, Last: hi - 1}, nil
	}
}

// groupAt expands index i forward across events sharing its start time.
func groupAt[E Event](src Source[E], i int) (Range, error) {
	ev, err := src.At(i)
	if err != nil {
		return EmptyRange, err
	}
	_, hi, err := equalRange(src, ev.Time())
	if err != nil {
		return EmptyRange, err
	}
	return Range{First: i, Last: hi - 1}, nil
}

// groupEndingAt expands index i backward across events sharing its
// start time.
func groupEndingAt[E Event](src Source[E], i int) (Range, error) {
	ev, err := src.At(i)
	if err != nil {
		return EmptyRange, err
	}
	lo, _, err := equalRange(src, ev.Time())
	if err != nil {
		return EmptyRange, err
	}
	return Range{First: lo, Last: i}, nil
}

// ChordNotes fetches the notes in r and orders them by pitch.
//
// The host orders simultaneous notes arbitrarily and the ordering can
// change across calls, so a stable secondary order is required for
// reproducible within-chord navigation. Notes that vanished between
// the range query and the fetch are skipped.
func ChordNotes(src Source[Note], r Range) ([]Note, error) {
	if r.Empty() {
		return nil, nil
	}
	notes := make([]Note, 0, r.Len())
	for cur := NewCursor(src, r.First); cur.Valid() && cur.Index() <= r.Last; cur = cur.Next() {
		n, err := cur.Event()
		if err != nil {
			continue
		}
		notes = append(notes, n)
	}
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Pitch < notes[j].Pitch
	})
	return notes, nil
}

// ChordCursor tracks the note the user last moved to within a chord.
//
// The position is an ordinal into the pitch-sorted chord, never a host
// index, so it stays meaningful even when the host reorders
// simultaneous notes. An ordinal of -1 means "not in any chord".
type ChordCursor struct {
	ordinal int
	start   float64
	inChord bool
}

// NewChordCursor returns a cursor that is not in any chord.
func NewChordCursor() ChordCursor {
	return ChordCursor{ordinal: -1}
}

// Reset leaves the current chord.
func (c *ChordCursor) Reset() {
	c.ordinal = -1
	c.inChord = false
}

// InChord reports whether the cursor is positioned on a note within a
// chord.
func (c *ChordCursor) InChord() bool { return c.inChord }

// Ordinal returns the current ordinal, or -1.
func (c *ChordCursor) Ordinal() int {
	if !c.inChord {
		return -1
	}
	return c.ordinal
}

// Advance moves within the pitch-sorted chord notes and returns the
// note landed on.
//
// Entering a new chord (different start time, or not previously in a
// chord) lands on the first note for dir >= 0 and the last note for
// dir < 0. Within a chord the ordinal moves by dir and is clamped at
// the edges: moving past the first or last note stays there. The
// returned ok is false when notes is empty.
func (c *ChordCursor) Advance(notes []Note, dir int) (Note, bool) {
	if len(notes) == 0 {
		c.Reset()
		return Note{}, false
	}
	last := len(notes) - 1
	start := notes[0].Start
	if c.inChord && c.start == start && c.ordinal <= last {
		c.ordinal += dir
		if c.ordinal < 0 || c.ordinal > last {
			c.ordinal -= dir
		}
	} else {
		if dir < 0 {
			c.ordinal = last
		} else {
			c.ordinal = 0
		}
	}
	c.start = start
	c.inChord = true
	return notes[c.ordinal], true
}
