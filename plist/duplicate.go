package plist

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/proplist"
	"github.com/wippyai/proplist/errors"
)

// Duplicate builds an independent copy of the list. The copy lives in
// target when useNewPool is set, otherwise in the source list's pool. It
// keeps the source's shape and every property at its original index, with
// the same name, value and type. Values and types are shared, not copied.
// If any property cannot be replayed the partial copy is destroyed.
func (l *List) Duplicate(target proplist.Pool, useNewPool bool) (*List, error) {
	if l.destroyed {
		return nil, l.errDestroyed(errors.PhaseDuplicate)
	}

	p := l.pool
	if useNewPool {
		if target == nil {
			return nil, errors.InvalidInput(errors.PhaseDuplicate, "nil target pool")
		}
		p = target
	}

	size := len(l.slots)
	if err := p.Malloc(headerSize); err != nil {
		return nil, errors.NoMemory(errors.PhaseDuplicate, headerSize, err)
	}
	if err := p.Calloc(size, slotSize); err != nil {
		p.Free(headerSize)
		return nil, errors.NoMemory(errors.PhaseDuplicate, size*slotSize, err)
	}

	// replay runs unobserved; the copy reports itself once complete
	dup := &List{
		pool:      p,
		slots:     make([]slot, size),
		maxCount:  l.maxCount,
		reserved:  l.reserved,
		initIndex: l.initIndex,
		lastIndex: l.lastIndex,
		growBy:    l.growBy,
		initSize:  l.initSize,
	}

	for i := 0; i < l.initIndex; i++ {
		s := &l.slots[i]
		if !s.used {
			continue
		}

		idx, err := dup.DefineProperty(i+1, s.name, true)
		if err == nil {
			_, err = dup.SetValue(idx, s.value, s.typ)
		}
		if err != nil {
			dup.Destroy()
			Logger().Debug("duplicate aborted",
				zap.Int("index", i+1),
				zap.Error(err))
			kind, _ := errors.KindOf(err)
			return nil, errors.Wrap(errors.PhaseDuplicate, kind, err, fmt.Sprintf("replay property %d", i+1))
		}
	}

	dup.observer = l.observer
	l.emit(Event{Type: EventDuplicated, Capacity: size, Count: dup.count})
	return dup, nil
}
