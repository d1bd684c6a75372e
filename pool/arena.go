package pool

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/proplist"
	"github.com/wippyai/proplist/errors"
)

var (
	_ proplist.Pool     = (*Arena)(nil)
	_ proplist.Releaser = (*Arena)(nil)
)

var (
	ErrExhausted = errors.Sentinel(errors.KindNoMemory)
	ErrReleased  = errors.Sentinel(errors.KindReleased)
)

// Arena is a byte-accounting pool. Storage itself is ordinary Go memory;
// the arena tracks how much each scope holds so that a bounded arena can
// refuse allocations the way a fixed-size server pool would.
//
// An Arena is safe for concurrent use.
type Arena struct {
	parent   *Arena
	name     string
	limit    int
	used     int
	peak     int
	allocs   uint64
	frees    uint64
	failures uint64
	mu       sync.Mutex
	released bool
}

// Stats is a snapshot of arena accounting.
type Stats struct {
	Name     string
	Limit    int
	Used     int
	Peak     int
	Allocs   uint64
	Frees    uint64
	Failures uint64
	Released bool
}

// New creates an arena. A limit of zero or less means unbounded.
func New(name string, limit int) *Arena {
	if limit < 0 {
		limit = 0
	}
	return &Arena{name: name, limit: limit}
}

// NewChild creates a nested arena whose reservations also count against a.
// Releasing the child returns everything it still holds to a.
func (a *Arena) NewChild(name string, limit int) *Arena {
	c := New(name, limit)
	c.parent = a
	return c
}

// Malloc reserves n bytes.
func (a *Arena) Malloc(n int) error {
	return a.reserve(n)
}

// Calloc reserves count*size bytes.
func (a *Arena) Calloc(count, size int) error {
	if count < 0 || size < 0 {
		return errors.InvalidInput(errors.PhaseAlloc, "negative calloc size")
	}
	return a.reserve(count * size)
}

// Realloc grows or shrinks a reservation.
func (a *Arena) Realloc(oldSize, newSize int) error {
	delta := newSize - oldSize
	if delta > 0 {
		return a.reserve(delta)
	}
	if delta < 0 {
		a.Free(-delta)
	}
	return nil
}

// Free returns n bytes to the arena.
func (a *Arena) Free(n int) {
	if n <= 0 {
		return
	}
	a.mu.Lock()
	if a.released {
		a.mu.Unlock()
		return
	}
	if n > a.used {
		n = a.used
	}
	a.used -= n
	a.frees++
	parent := a.parent
	a.mu.Unlock()

	if parent != nil {
		parent.Free(n)
	}
}

// Strdup copies s into arena-owned storage.
func (a *Arena) Strdup(s string) (string, error) {
	if err := a.reserve(len(s) + 1); err != nil {
		return "", err
	}
	return strings.Clone(s), nil
}

// Release ends the arena's scope. Further allocations fail and any bytes
// still held are returned to the parent.
func (a *Arena) Release() {
	a.mu.Lock()
	if a.released {
		a.mu.Unlock()
		return
	}
	a.released = true
	held := a.used
	a.used = 0
	parent := a.parent
	a.mu.Unlock()

	Logger().Debug("arena released",
		zap.String("arena", a.name),
		zap.Int("held", held))

	if parent != nil {
		parent.Free(held)
	}
}

// Used returns the number of bytes currently reserved.
func (a *Arena) Used() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.used
}

// Name returns the arena's label.
func (a *Arena) Name() string {
	return a.name
}

// Stats returns a snapshot of the arena's counters.
func (a *Arena) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Stats{
		Name:     a.name,
		Limit:    a.limit,
		Used:     a.used,
		Peak:     a.peak,
		Allocs:   a.allocs,
		Frees:    a.frees,
		Failures: a.failures,
		Released: a.released,
	}
}

func (a *Arena) reserve(n int) error {
	if n < 0 {
		return errors.InvalidInput(errors.PhaseAlloc, "negative allocation size")
	}

	a.mu.Lock()
	if a.released {
		a.failures++
		a.mu.Unlock()
		return errors.New(errors.PhaseAlloc, errors.KindReleased).
			Detail("arena %q released", a.name).
			Build()
	}
	if a.limit > 0 && a.used+n > a.limit {
		a.failures++
		used := a.used
		a.mu.Unlock()
		Logger().Debug("arena exhausted",
			zap.String("arena", a.name),
			zap.Int("request", n),
			zap.Int("used", used),
			zap.Int("limit", a.limit))
		return errors.New(errors.PhaseAlloc, errors.KindNoMemory).
			Value(n).
			Detail("arena %q: %d bytes requested, %d of %d in use", a.name, n, used, a.limit).
			Build()
	}
	a.used += n
	a.mu.Unlock()

	if a.parent != nil {
		if err := a.parent.reserve(n); err != nil {
			a.mu.Lock()
			a.used -= n
			a.failures++
			a.mu.Unlock()
			return err
		}
	}

	a.mu.Lock()
	a.allocs++
	if a.used > a.peak {
		a.peak = a.used
	}
	a.mu.Unlock()
	return nil
}
