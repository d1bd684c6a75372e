package plist

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/wippyai/proplist/errors"
)

// DefineProperty creates an empty property and returns its index.
//
// A positive index requests that exact slot. It must fall within the
// reserved range unless ignoreReserved is set, in which case the array is
// extended to fit (up to the list maximum). An index of zero picks the next
// free index. If name is non-empty the property is named as well; should
// naming fail the new property is removed again and the error returned.
func (l *List) DefineProperty(index int, name string, ignoreReserved bool) (int, error) {
	if l.destroyed {
		return 0, l.errDestroyed(errors.PhaseDefine)
	}

	switch {
	case index < 0:
		return 0, errors.InvalidIndex(errors.PhaseDefine, index, l.reserved)

	case index > 0:
		if !ignoreReserved && index > l.reserved {
			return 0, errors.InvalidIndex(errors.PhaseDefine, index, l.reserved)
		}
		if index > len(l.slots) {
			if l.maxCount > 0 && index > l.maxCount {
				return 0, errors.InvalidIndex(errors.PhaseDefine, index, l.maxCount)
			}
			if err := l.resize(index); err != nil {
				return 0, err
			}
		}
		if l.slots[index-1].used {
			return 0, errors.AlreadyExists(errors.PhaseDefine, index)
		}
		if index > l.initIndex {
			l.initIndex = index
		}

	default:
		idx, err := l.freeIndex()
		if err != nil {
			return 0, err
		}
		index = idx
	}

	l.slots[index-1] = slot{used: true}
	l.count++

	if name != "" {
		if _, err := l.NameProperty(index, name); err != nil {
			l.slots[index-1] = slot{}
			l.count--
			Logger().Debug("property rolled back",
				zap.Int("index", index),
				zap.String("name", name),
				zap.Error(err))
			return 0, err
		}
	}

	l.emit(Event{Type: EventDefined, Index: index, Name: name})
	return index, nil
}

// InitProperty defines a property and sets its value and type in one step.
// Explicit indices must be reserved.
func (l *List) InitProperty(index int, name string, value any, typ TypeRef) (int, error) {
	idx, err := l.DefineProperty(index, name, false)
	if err != nil {
		return 0, err
	}
	return l.SetValue(idx, value, typ)
}

// SetValue replaces the value of a defined property. The type is replaced
// only when typ is non-zero.
func (l *List) SetValue(index int, value any, typ TypeRef) (int, error) {
	s, err := l.occupied(index, errors.PhaseAssign)
	if err != nil {
		return 0, err
	}
	s.value = value
	if typ != 0 {
		s.typ = typ
	}
	return index, nil
}

// SetType replaces the type of a defined property; zero clears it.
func (l *List) SetType(index int, typ TypeRef) (int, error) {
	s, err := l.occupied(index, errors.PhaseAssign)
	if err != nil {
		return 0, err
	}
	s.typ = typ
	return index, nil
}

// AssignValue is SetValue addressed by property name.
func (l *List) AssignValue(name string, value any, typ TypeRef) (int, error) {
	if l.destroyed {
		return 0, l.errDestroyed(errors.PhaseAssign)
	}
	idx := l.lookup(name)
	if idx == 0 {
		return 0, errors.Undefined(errors.PhaseAssign, "property "+strconv.Quote(name))
	}
	return l.SetValue(idx, value, typ)
}

// NameProperty gives a defined property a new name, replacing any old one.
// An empty name removes the current name. Pool allocations happen before
// the old name is dropped, so a NoMemory failure leaves the property as it
// was.
func (l *List) NameProperty(index int, name string) (int, error) {
	s, err := l.occupied(index, errors.PhaseName)
	if err != nil {
		return 0, err
	}
	if s.name == name {
		return index, nil
	}

	var dup string
	if name != "" {
		if err := l.ensureSymtab(); err != nil {
			return 0, err
		}
		dup, err = l.pool.Strdup(name)
		if err != nil {
			return 0, errors.NoMemory(errors.PhaseName, nameSize(name), err)
		}
	}

	if s.name != "" {
		l.unlink(index)
		l.pool.Free(nameSize(s.name))
		s.name = ""
	}
	if dup != "" {
		s.name = dup
		l.link(index)
	}

	l.emit(Event{Type: EventNamed, Index: index, Name: name})
	return index, nil
}

// DeleteProperty removes a property and hands its value back to the caller.
// An index within the initialized range selects by index; otherwise name is
// looked up. It returns false if nothing matched.
func (l *List) DeleteProperty(index int, name string) (any, bool) {
	if l.destroyed {
		return nil, false
	}

	var idx int
	if index > 0 && index <= l.initIndex {
		if l.slots[index-1].used {
			idx = index
		}
	} else {
		idx = l.lookup(name)
	}
	if idx == 0 {
		return nil, false
	}

	s := &l.slots[idx-1]
	deleted := s.name
	if s.name != "" {
		l.unlink(idx)
		l.pool.Free(nameSize(s.name))
	}
	value := s.value
	*s = slot{}
	l.count--

	l.emit(Event{Type: EventDeleted, Index: idx, Name: deleted})
	return value, true
}

// GetValue returns the property at index.
func (l *List) GetValue(index int) (Property, error) {
	s, err := l.occupied(index, errors.PhaseLookup)
	if err != nil {
		return Property{}, err
	}
	return s.property(index), nil
}

// FindValue returns the property named name.
func (l *List) FindValue(name string) (Property, error) {
	if l.destroyed {
		return Property{}, l.errDestroyed(errors.PhaseLookup)
	}
	idx := l.lookup(name)
	if idx == 0 {
		return Property{}, errors.Undefined(errors.PhaseLookup, "property "+strconv.Quote(name))
	}
	return l.slots[idx-1].property(idx), nil
}

// Enumerate calls fn with the name and value of every property in index order.
func (l *List) Enumerate(fn func(name string, value any)) {
	if l.destroyed {
		return
	}
	for i := 0; i < l.initIndex; i++ {
		if s := &l.slots[i]; s.used {
			fn(s.name, s.value)
		}
	}
}

// Each calls fn for every property in index order until fn returns false.
func (l *List) Each(fn func(Property) bool) {
	if l.destroyed {
		return
	}
	for i := 0; i < l.initIndex; i++ {
		if s := &l.slots[i]; s.used {
			if !fn(s.property(i + 1)) {
				return
			}
		}
	}
}
