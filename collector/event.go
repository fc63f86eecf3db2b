package collector

import (
	"iter"
	"time"

	"github.com/gofrs/uuid"
)

// Event is a node of the event tree of a run. A scenario is a top-level event,
// everything observed while it ran becomes one of its children.
type Event struct {
	ID uuid.UUID

	GroupID *uuid.UUID

	Data any

	Start time.Time
	End   time.Time

	// Children is a slice of events that are children of this event
	Children []*Event
}

// Timed is implemented by event data that carries its own timing.
type Timed interface {
	Timing() (start, end time.Time)
}

func (e *Event) Identity() uuid.UUID {
	return e.ID
}

func (e *Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// Visit iterates the event and all descendants depth-first.
func (e *Event) Visit() iter.Seq2[uuid.UUID, *Event] {
	return func(yield func(uuid.UUID, *Event) bool) {
		e.visitInternal(yield)
	}
}

func (e *Event) visitInternal(yield func(uuid.UUID, *Event) bool) bool {
	if !yield(e.ID, e) {
		return false
	}
	for _, child := range e.Children {
		if !child.visitInternal(yield) {
			return false
		}
	}
	return true
}

func generateID() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}
