package sequence

// Event is a timestamped item in a host-owned collection.
// Concrete events are transient snapshots; fields are only valid at the
// moment they were fetched.
type Event interface {
	// Time returns the event start time in project seconds.
	Time() float64
}

// Note is a snapshot of a note event.
//
// Index is the host index the note had when it was fetched. It may be
// stale by the time it is used; callers that mutate through it must
// tolerate misses.
type Note struct {
	Index    int
	Channel  int
	Pitch    int
	Velocity int
	Start    float64
	End      float64
	Selected bool
	Muted    bool
}

// Time implements Event.
func (n Note) Time() float64 { return n.Start }

// Length returns the note length in seconds, never negative.
func (n Note) Length() float64 {
	if n.End < n.Start {
		return 0
	}
	return n.End - n.Start
}

// CC is a snapshot of a controller event.
type CC struct {
	Index    int
	Status   int // message type, e.g. 0xB0 for control change
	Channel  int
	Data1    int
	Data2    int
	Start    float64
	Selected bool
	Muted    bool
}

// Time implements Event.
func (c CC) Time() float64 { return c.Start }

// Source is the narrow random-access contract the host offers for an
// event collection. Implementations must report events ordered by
// start time; ordering of events that share a start time is arbitrary
// and may differ between calls.
type Source[E Event] interface {
	// Len returns the current number of events.
	Len() int

	// At fetches the event at index i. It fails if i is out of range
	// or the underlying object vanished.
	At(i int) (E, error)
}
