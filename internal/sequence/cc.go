package sequence

import (
	"sort"
)

// ccLess orders controller events by composite key: message type,
// channel, data1, data2. The host's native ordering of simultaneous
// CCs is unstable, so every visit re-sorts by this key before
// indexing.
func ccLess(a, b CC) bool {
	if a.Status != b.Status {
		return a.Status < b.Status
	}
	if a.Channel != b.Channel {
		return a.Channel < b.Channel
	}
	if a.Data1 != b.Data1 {
		return a.Data1 < b.Data1
	}
	return a.Data2 < b.Data2
}

// GroupCCs fetches the controller events in r sorted by composite key.
func GroupCCs(src Source[CC], r Range) ([]CC, error) {
	if r.Empty() {
		return nil, nil
	}
	ccs := make([]CC, 0, r.Len())
	for cur := NewCursor(src, r.First); cur.Valid() && cur.Index() <= r.Last; cur = cur.Next() {
		cc, err := cur.Event()
		if err != nil {
			continue
		}
		ccs = append(ccs, cc)
	}
	sort.SliceStable(ccs, func(i, j int) bool { return ccLess(ccs[i], ccs[j]) })
	return ccs, nil
}

// CCCursor iterates controller events one at a time, in time order
// across timestamps and composite-key order within a timestamp.
//
// The cursor remembers the start time of the group it is in plus an
// ordinal into that group's freshly sorted form. It never remembers a
// host index: "the 3rd CC at this position" survives host-side
// reordering, a raw index does not.
type CCCursor struct {
	time    float64
	ordinal int
	active  bool
}

// NewCCCursor returns a cursor with no position.
func NewCCCursor() CCCursor {
	return CCCursor{ordinal: -1}
}

// Invalidate drops the remembered position. The next call to Next or
// Prev starts fresh from the reference time it is given.
func (c *CCCursor) Invalidate() {
	c.active = false
	c.ordinal = -1
}

// Active reports whether the cursor holds a position.
func (c *CCCursor) Active() bool { return c.active }

// Next advances to the next controller event. now is the current edit
// position; when the cursor has no position, or the edit position
// moved away from the cursor's group, iteration restarts at the first
// group whose time is >= now.
//
// Repeated calls visit every event exactly once per full pass. Past
// the final event the cursor stays put and ok is false.
func (c *CCCursor) Next(src Source[CC], now float64) (CC, bool, error) {
	return c.step(src, now, 1)
}

// Prev is the reverse of Next: a fresh start picks the last group
// whose time is <= now, and within each group the ordinal walks the
// composite-key order backward.
func (c *CCCursor) Prev(src Source[CC], now float64) (CC, bool, error) {
	return c.step(src, now, -1)
}

func (c *CCCursor) step(src Source[CC], now float64, dir int) (CC, bool, error) {
	if src.Len() == 0 {
		c.Invalidate()
		return CC{}, false, nil
	}
	if c.active && c.time == now {
		group, err := c.currentGroup(src)
		if err != nil {
			return CC{}, false, err
		}
		if group != nil {
			next := c.ordinal + dir
			if 0 <= next && next < len(group) {
				c.ordinal = next
				return group[next], true, nil
			}
			return c.enterAdjacentGroup(src, dir)
		}
		// The group vanished under us; fall through to a fresh start.
	}
	return c.freshStart(src, now, dir)
}

// currentGroup re-finds and re-sorts the group at the cursor's
// remembered time. A nil slice means the group no longer exists.
func (c *CCCursor) currentGroup(src Source[CC]) ([]CC, error) {
	r, err := FindChord(src, c.time, 0)
	if err != nil {
		return nil, err
	}
	if r.Empty() {
		return nil, nil
	}
	return GroupCCs(src, r)
}

// enterAdjacentGroup moves to the next distinct timestamp in dir and
// positions the ordinal at that group's first or last element.
func (c *CCCursor) enterAdjacentGroup(src Source[CC], dir int) (CC, bool, error) {
	r, err := FindChord(src, c.time, dir)
	if err != nil {
		return CC{}, false, err
	}
	if r.Empty() {
		// Nothing further in this direction; stay on the current event.
		return CC{}, false, nil
	}
	group, err := GroupCCs(src, r)
	if err != nil || len(group) == 0 {
		return CC{}, false, err
	}
	return c.land(group, dir)
}

// freshStart seeks the first group at or beyond now in dir.
func (c *CCCursor) freshStart(src Source[CC], now float64, dir int) (CC, bool, error) {
	r, err := FindChord(src, now, 0)
	if err != nil {
		return CC{}, false, err
	}
	if r.Empty() {
		r, err = FindChord(src, now, dir)
		if err != nil {
			return CC{}, false, err
		}
	}
	if r.Empty() {
		c.Invalidate()
		return CC{}, false, nil
	}
	group, err := GroupCCs(src, r)
	if err != nil || len(group) == 0 {
		return CC{}, false, err
	}
	return c.land(group, dir)
}

// land enters a group at its first element for forward movement or its
// last for backward movement.
func (c *CCCursor) land(group []CC, dir int) (CC, bool, error) {
	if dir < 0 {
		c.ordinal = len(group) - 1
	} else {
		c.ordinal = 0
	}
	c.time = group[0].Start
	c.active = true
	return group[c.ordinal], true, nil
}
