package plist

// EventType identifies a list lifecycle event.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDefined
	EventNamed
	EventDeleted
	EventGrown
	EventRehashed
	EventDuplicated
	EventDestroyed
	EventFull
)

var eventNames = [...]string{
	EventCreated:    "created",
	EventDefined:    "defined",
	EventNamed:      "named",
	EventDeleted:    "deleted",
	EventGrown:      "grown",
	EventRehashed:   "rehashed",
	EventDuplicated: "duplicated",
	EventDestroyed:  "destroyed",
	EventFull:       "full",
}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// Event describes one change to a list. Index and Name are set for
// property events, Capacity for array events, Buckets for rehashes. Count
// is the number of properties carried by a duplicated or destroyed list.
type Event struct {
	Name     string
	Index    int
	Capacity int
	Buckets  int
	Count    int
	Type     EventType
}

// Observer receives list lifecycle events. Callbacks run synchronously
// inside the list operation and must not call back into the list.
type Observer interface {
	OnListEvent(Event)
}
