package resource

// Handle is an opaque reference to a value in a table.
// Handle 0 is reserved and always invalid.
//
// The low indexBits hold the 1-based slot; the high bits hold the slot's
// generation, bumped each time the slot is freed.
type Handle uint32

const (
	indexBits = 20
	indexMask = 1<<indexBits - 1

	maxSlots      = indexMask
	maxGeneration = 1<<(32-indexBits) - 1
)

func makeHandle(slot int, gen uint32) Handle {
	return Handle(gen<<indexBits | uint32(slot+1))
}

// slot returns the 0-based slot, or -1 for handle 0.
func (h Handle) slot() int {
	return int(h&indexMask) - 1
}

func (h Handle) generation() uint32 {
	return uint32(h) >> indexBits
}

// Event types for handle lifecycle notifications.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDropped
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventDropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// Event represents a handle lifecycle event.
type Event struct {
	Value  any
	Handle Handle
	Type   EventType
}

// Observer receives notifications about handle lifecycle events.
type Observer interface {
	OnResourceEvent(Event)
}
