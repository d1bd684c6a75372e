package resource

import (
	"sync"
)

// Table maps small integer handles to values. Freed slots are recycled
// most-recently-freed first, but under a new generation: a removed handle
// never resolves again, not even to a later value in the same slot. A slot
// whose generation is exhausted is retired. Removing a handle never touches
// the value itself: the table holds references, not ownership.
type Table[T any] struct {
	entries   []entry[T]
	freeList  []int
	observers []Observer
	live      int
	mu        sync.RWMutex
	obsMu     sync.RWMutex
	closed    bool
}

type entry[T any] struct {
	value T
	gen   uint32
	valid bool
}

// NewTable creates an empty table.
func NewTable[T any]() *Table[T] {
	return &Table[T]{
		entries:  make([]entry[T], 0, 16),
		freeList: make([]int, 0, 4),
	}
}

// Insert adds a value and returns its handle. It returns 0 after Close or
// once every slot is in use or retired.
func (t *Table[T]) Insert(value T) Handle {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return 0
	}

	var handle Handle
	switch {
	case len(t.freeList) > 0:
		idx := t.freeList[len(t.freeList)-1]
		t.freeList = t.freeList[:len(t.freeList)-1]
		e := &t.entries[idx]
		e.value, e.valid = value, true
		handle = makeHandle(idx, e.gen)
	case len(t.entries) < maxSlots:
		t.entries = append(t.entries, entry[T]{value: value, valid: true})
		handle = makeHandle(len(t.entries)-1, 0)
	default:
		t.mu.Unlock()
		return 0
	}
	t.live++
	t.mu.Unlock()

	t.notify(Event{
		Type:   EventCreated,
		Handle: handle,
		Value:  value,
	})

	return handle
}

// lookup returns the slot behind a live handle, or -1. Callers hold mu.
func (t *Table[T]) lookup(handle Handle) int {
	idx := handle.slot()
	if idx < 0 || idx >= len(t.entries) {
		return -1
	}
	if e := t.entries[idx]; !e.valid || e.gen != handle.generation() {
		return -1
	}
	return idx
}

// Get retrieves a value by handle.
func (t *Table[T]) Get(handle Handle) (T, bool) {
	var zero T

	t.mu.RLock()
	defer t.mu.RUnlock()

	idx := t.lookup(handle)
	if idx < 0 {
		return zero, false
	}
	return t.entries[idx].value, true
}

// Remove drops a handle and returns (value, true) if it was live.
func (t *Table[T]) Remove(handle Handle) (T, bool) {
	var zero T

	t.mu.Lock()
	idx := t.lookup(handle)
	if idx < 0 {
		t.mu.Unlock()
		return zero, false
	}

	e := &t.entries[idx]
	value := e.value
	e.value, e.valid = zero, false
	if e.gen < maxGeneration {
		e.gen++
		t.freeList = append(t.freeList, idx)
	}
	t.live--
	t.mu.Unlock()

	t.notify(Event{
		Type:   EventDropped,
		Handle: handle,
		Value:  value,
	})

	return value, true
}

// Find returns the handle of the first live value matching fn.
func (t *Table[T]) Find(fn func(T) bool) (Handle, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for i, e := range t.entries {
		if e.valid && fn(e.value) {
			return makeHandle(i, e.gen), true
		}
	}
	return 0, false
}

// Len returns the number of live handles.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.live
}

// Each iterates over live handles in ascending order until fn returns false.
func (t *Table[T]) Each(fn func(Handle, T) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for i, e := range t.entries {
		if e.valid {
			if !fn(makeHandle(i, e.gen), e.value) {
				break
			}
		}
	}
}

// Clear drops all handles.
func (t *Table[T]) Clear() {
	// Collect handles first to avoid holding lock during Remove
	var handles []Handle
	t.Each(func(h Handle, _ T) bool {
		handles = append(handles, h)
		return true
	})
	for _, h := range handles {
		t.Remove(h)
	}
}

// Close drops all handles and stops accepting inserts.
func (t *Table[T]) Close() error {
	t.Clear()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	t.entries = nil
	t.freeList = nil
	return nil
}

// Subscribe adds an observer for lifecycle events.
func (t *Table[T]) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table[T]) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

func (t *Table[T]) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnResourceEvent(e)
	}
}
