package plist

import (
	"go.uber.org/zap"

	"github.com/wippyai/proplist/errors"
)

// freeIndex picks the next index for an auto-assigned property.
//
// The scan starts at lastIndex. Below initIndex it takes the first empty
// slot; between initIndex and the end of the array every slot is unused, so
// the first one is taken and initIndex advances. At the end of the array the
// scan wraps once to the first unreserved index to pick up holes left by
// deletes, and only then grows the array.
func (l *List) freeIndex() (int, error) {
	wrapped := false
	i := l.lastIndex

	for {
		if i < l.initIndex {
			if !l.slots[i].used {
				break
			}
			i++
			continue
		}

		if i < len(l.slots) {
			l.initIndex = i + 1
			break
		}

		if !wrapped {
			i = l.reserved
			wrapped = true
			continue
		}

		// initIndex == len(l.slots) here, so i lands on the first new slot
		if err := l.growAuto(); err != nil {
			return 0, err
		}
	}

	l.lastIndex = i + 1
	return i + 1, nil
}

// growAuto extends the slot array by growBy, stopping at maxCount.
func (l *List) growAuto() error {
	capacity := len(l.slots)
	target := capacity + l.growBy

	if l.maxCount > 0 {
		if capacity >= l.maxCount {
			Logger().Debug("list full",
				zap.Int("capacity", capacity),
				zap.Int("max", l.maxCount))
			l.emit(Event{Type: EventFull, Capacity: capacity})
			return errors.ListFull(errors.PhaseDefine, l.maxCount)
		}
		if target > l.maxCount {
			target = l.maxCount
		}
	}

	return l.resize(target)
}

// resize extends the slot array to n slots, charging the pool.
func (l *List) resize(n int) error {
	capacity := len(l.slots)
	if n <= capacity {
		return nil
	}

	if err := l.pool.Realloc(capacity*slotSize, n*slotSize); err != nil {
		return errors.NoMemory(errors.PhaseDefine, (n-capacity)*slotSize, err)
	}

	grown := make([]slot, n)
	copy(grown, l.slots)
	l.slots = grown

	Logger().Debug("slot array grown",
		zap.Int("from", capacity),
		zap.Int("to", n))
	l.emit(Event{Type: EventGrown, Capacity: n})
	return nil
}
