package sequence_test

import (
	"testing"

	"github.com/dshills/narrator/internal/sequence"
)

func TestCursorNavigation(t *testing.T) {
	src := notesAt(0.0, 1.0, 2.0)
	c := sequence.NewCursor[sequence.Note](src, 0)

	if !c.Valid() || c.AtEnd() {
		t.Fatalf("fresh cursor: Valid=%v AtEnd=%v", c.Valid(), c.AtEnd())
	}

	c = c.Next().Next()
	if c.Index() != 2 {
		t.Errorf("Index() = %d, want 2", c.Index())
	}
	n, err := c.Event()
	if err != nil || n.Start != 2.0 {
		t.Errorf("Event() = %+v, %v; want Start 2.0", n, err)
	}

	// One more step reaches the past-end sentinel and stays there.
	c = c.Next()
	if !c.AtEnd() || c.Valid() {
		t.Errorf("past end: AtEnd=%v Valid=%v", c.AtEnd(), c.Valid())
	}
	if c.Index() != src.Len() {
		t.Errorf("sentinel Index() = %d, want %d", c.Index(), src.Len())
	}

	c = c.Prev()
	if !c.Valid() || c.Index() != 2 {
		t.Errorf("Prev() from sentinel: Index=%d Valid=%v", c.Index(), c.Valid())
	}
}

func TestCursorBeforeBegin(t *testing.T) {
	src := notesAt(0.0)
	c := sequence.NewCursor[sequence.Note](src, 0).Prev()
	if c.Valid() {
		t.Error("cursor before the first event is valid")
	}
	if _, err := c.Event(); err == nil {
		t.Error("Event() before begin did not fail")
	}
}

func TestCursorSeek(t *testing.T) {
	src := notesAt(0.0, 1.0, 2.0)
	c := sequence.NewCursor[sequence.Note](src, 0).Seek(1)
	n, err := c.Event()
	if err != nil || n.Start != 1.0 {
		t.Errorf("Event() after Seek = %+v, %v; want Start 1.0", n, err)
	}
}

func TestCursorRefetchesOnDereference(t *testing.T) {
	src := notesAt(0.0, 1.0)
	c := sequence.NewCursor[sequence.Note](src, 1)

	// The collection mutates under the cursor; dereference sees the
	// new value because nothing is cached.
	src[1].Pitch = 99
	n, err := c.Event()
	if err != nil || n.Pitch != 99 {
		t.Errorf("Event() = %+v, %v; want refetched pitch 99", n, err)
	}
}
