package session

import "github.com/dshills/pigment/internal/engine/tool"

// EventKind identifies what changed in a session.
type EventKind uint8

const (
	// EventImageChanged means the stable buffer changed.
	EventImageChanged EventKind = iota + 1
	// EventHistoryChanged means the history or its cursor changed.
	EventHistoryChanged
	// EventToolChanged means the active tool changed.
	EventToolChanged
	// EventToolState means a tool machine changed state.
	EventToolState
)

// String returns a string representation of the kind.
func (k EventKind) String() string {
	switch k {
	case EventImageChanged:
		return "image-changed"
	case EventHistoryChanged:
		return "history-changed"
	case EventToolChanged:
		return "tool-changed"
	case EventToolState:
		return "tool-state"
	default:
		return "unknown"
	}
}

// Event describes one session change.
type Event struct {
	Kind   EventKind
	Tool   tool.ID
	State  tool.State // EventToolState only
	Cursor int
	Length int
	Err    error // set when a history move failed part way
}

// Observer receives session events on the session's goroutine.
type Observer func(Event)

type subscription struct {
	id int
	fn Observer
}

// Subscribe registers fn and returns a function that removes it.
func (s *Session) Subscribe(fn Observer) (unsubscribe func()) {
	s.nextSub++
	id := s.nextSub
	s.observers = append(s.observers, subscription{id: id, fn: fn})
	return func() {
		for i, sub := range s.observers {
			if sub.id == id {
				s.observers = append(s.observers[:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

func (s *Session) emit(e Event) {
	e.Cursor = s.history.Cursor()
	e.Length = s.history.Len()
	for _, sub := range s.observers {
		sub.fn(e)
	}
}
