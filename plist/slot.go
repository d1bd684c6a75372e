package plist

import "github.com/wippyai/proplist/errors"

// slot is one entry of the list's slot map. Its index is its position + 1.
// next links the slot into its symbol table bucket by index; 0 ends a chain.
type slot struct {
	value any
	name  string
	typ   TypeRef
	next  int
	used  bool
}

func (s *slot) property(index int) Property {
	return Property{
		Index: index,
		Name:  s.name,
		Value: s.value,
		Type:  s.typ,
	}
}

// nameSize is what a name copy costs in the pool.
func nameSize(name string) int {
	return len(name) + 1
}

// occupied resolves index to a defined slot within the initialized range.
func (l *List) occupied(index int, phase errors.Phase) (*slot, error) {
	if l.destroyed {
		return nil, l.errDestroyed(phase)
	}
	if index < 1 || index > l.initIndex || !l.slots[index-1].used {
		return nil, errors.InvalidIndex(phase, index, l.initIndex)
	}
	return &l.slots[index-1], nil
}
