package sequence

// Cursor is a position within a Source. It holds only an index; the
// event itself is re-fetched on every dereference because the host
// collection can mutate between navigation steps.
//
// An index equal to Len() is the past-end sentinel.
type Cursor[E Event] struct {
	src Source[E]
	idx int
}

// NewCursor returns a cursor positioned at index i.
func NewCursor[E Event](src Source[E], i int) Cursor[E] {
	return Cursor[E]{src: src, idx: i}
}

// Index returns the current index.
func (c Cursor[E]) Index() int { return c.idx }

// AtEnd reports whether the cursor is at the past-end sentinel or
// beyond the current collection size.
func (c Cursor[E]) AtEnd() bool { return c.idx >= c.src.Len() }

// Valid reports whether the cursor points at an existing event.
func (c Cursor[E]) Valid() bool { return c.idx >= 0 && c.idx < c.src.Len() }

// Next returns a cursor advanced by one, clamped to the past-end
// sentinel.
func (c Cursor[E]) Next() Cursor[E] {
	if n := c.src.Len(); c.idx < n {
		c.idx++
	}
	return c
}

// Prev returns a cursor moved back by one. Moving before the first
// event yields an invalid cursor (index -1).
func (c Cursor[E]) Prev() Cursor[E] {
	if c.idx >= 0 {
		c.idx--
	}
	return c
}

// Seek returns a cursor repositioned at index i.
func (c Cursor[E]) Seek(i int) Cursor[E] {
	c.idx = i
	return c
}

// Event re-fetches the event under the cursor.
func (c Cursor[E]) Event() (E, error) {
	return c.src.At(c.idx)
}
