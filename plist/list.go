package plist

import (
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/proplist"
	"github.com/wippyai/proplist/errors"
)

const (
	// DefaultInitialSize is the slot capacity of a list created without reserved indices.
	DefaultInitialSize = 8

	// DefaultGrowBy is the number of slots added each time the array fills.
	DefaultGrowBy = 16
)

// Pool charges, in bytes.
const (
	headerSize = int(unsafe.Sizeof(List{}))
	slotSize   = int(unsafe.Sizeof(slot{}))
)

// List is an ordered, integer-indexed property list with optional name
// lookup. Indices are 1-based and stable for the life of a property.
//
// A List is not safe for concurrent use; see SyncList.
type List struct {
	pool      proplist.Pool
	symtab    *symtab
	observer  Observer
	slots     []slot
	maxCount  int
	reserved  int
	initIndex int
	lastIndex int
	count     int
	growBy    int
	initSize  int
	destroyed bool
}

// Property is a snapshot of one occupied slot.
type Property struct {
	Value any
	Name  string
	Index int
	Type  TypeRef
}

// Stats describes a list's bookkeeping.
type Stats struct {
	Len       int
	Capacity  int
	Reserved  int
	MaxCount  int
	InitIndex int
	LastIndex int
	Names     int
	Buckets   int
}

// Option configures a list at creation.
type Option func(*options)

type options struct {
	observer    Observer
	initialSize int
	growBy      int
}

// WithInitialSize sets the slot capacity used when no indices are reserved.
func WithInitialSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.initialSize = n
		}
	}
}

// WithGrowBy sets how many slots are added when the array fills.
func WithGrowBy(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.growBy = n
		}
	}
}

// WithObserver attaches an observer for list lifecycle events.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// Create makes a new list in pool. The first reserved indices are always
// addressable by explicit index; auto-assigned indices start after them.
// maxCount limits the slot array (zero or negative means unbounded), and
// reserved is clamped to it.
func Create(pool proplist.Pool, reserved, maxCount int, opts ...Option) (*List, error) {
	if pool == nil {
		return nil, errors.InvalidInput(errors.PhaseCreate, "nil pool")
	}

	o := options{initialSize: DefaultInitialSize, growBy: DefaultGrowBy}
	for _, opt := range opts {
		opt(&o)
	}

	if maxCount < 0 {
		maxCount = 0
	}
	if reserved < 0 {
		reserved = 0
	}
	if maxCount > 0 && reserved > maxCount {
		reserved = maxCount
	}

	size := reserved
	if size == 0 {
		size = o.initialSize
	}
	if maxCount > 0 && size > maxCount {
		size = maxCount
	}

	if err := pool.Malloc(headerSize); err != nil {
		return nil, errors.NoMemory(errors.PhaseCreate, headerSize, err)
	}
	if err := pool.Calloc(size, slotSize); err != nil {
		pool.Free(headerSize)
		return nil, errors.NoMemory(errors.PhaseCreate, size*slotSize, err)
	}

	l := &List{
		pool:      pool,
		observer:  o.observer,
		slots:     make([]slot, size),
		maxCount:  maxCount,
		reserved:  reserved,
		initIndex: reserved,
		lastIndex: reserved,
		growBy:    o.growBy,
		initSize:  o.initialSize,
	}
	l.emit(Event{Type: EventCreated, Capacity: size})
	return l, nil
}

// New makes an unbounded list with no reserved indices.
func New(pool proplist.Pool, opts ...Option) (*List, error) {
	return Create(pool, 0, 0, opts...)
}

// Destroy returns the list's memory to its pool. Values and type references
// are left alone. Destroy is idempotent; a destroyed list rejects every
// operation with ErrUndefined.
func (l *List) Destroy() {
	if l == nil || l.destroyed {
		return
	}

	if l.symtab != nil {
		l.pool.Free(l.symtab.size())
	}
	for i := 0; i < l.initIndex; i++ {
		s := &l.slots[i]
		if s.used && s.name != "" {
			l.pool.Free(nameSize(s.name))
		}
	}
	l.pool.Free(len(l.slots) * slotSize)
	l.pool.Free(headerSize)

	count := l.count
	l.slots = nil
	l.symtab = nil
	l.count = 0
	l.destroyed = true

	Logger().Debug("list destroyed", zap.Int("properties", count))
	l.emit(Event{Type: EventDestroyed, Count: count})
}

// Destroyed reports whether Destroy has been called.
func (l *List) Destroyed() bool {
	return l.destroyed
}

// Pool returns the pool the list was created in.
func (l *List) Pool() proplist.Pool {
	return l.pool
}

// Len returns the number of occupied slots.
func (l *List) Len() int {
	return l.count
}

// Capacity returns the current slot array length.
func (l *List) Capacity() int {
	return len(l.slots)
}

// Reserved returns the number of reserved indices.
func (l *List) Reserved() int {
	return l.reserved
}

// MaxCount returns the slot limit, or 0 if unbounded.
func (l *List) MaxCount() int {
	return l.maxCount
}

// Stats returns the list's bookkeeping counters.
func (l *List) Stats() Stats {
	st := Stats{
		Len:       l.count,
		Capacity:  len(l.slots),
		Reserved:  l.reserved,
		MaxCount:  l.maxCount,
		InitIndex: l.initIndex,
		LastIndex: l.lastIndex,
	}
	if l.symtab != nil {
		st.Names = l.symtab.count
		st.Buckets = len(l.symtab.buckets)
	}
	return st
}

func (l *List) emit(e Event) {
	if l.observer != nil {
		l.observer.OnListEvent(e)
	}
}

func (l *List) errDestroyed(phase errors.Phase) error {
	return errors.Undefined(phase, "list destroyed")
}
