package plist

import (
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/proplist/errors"
)

// Bucket counts for successive symbol table size classes.
var hashSizes = [...]int{7, 19, 31, 67, 123, 257, 513}

const maxSizeClass = len(hashSizes) - 1

const (
	symtabHeaderSize = int(unsafe.Sizeof(symtab{}))
	bucketSize       = int(unsafe.Sizeof(int(0)))
)

// symtab is a chained hash index over named slots. Buckets hold the
// 1-based index of the chain head; chains continue through slot.next.
type symtab struct {
	buckets   []int
	sizeClass int
	count     int
}

// Hash returns the symbol table hash of name: a 5-bit shift-xor over the
// low seven bits of each byte.
func Hash(name string) uint32 {
	var h uint32
	for i := 0; i < len(name); i++ {
		h = (h << 5) ^ uint32(name[i]&0x7f)
	}
	return h
}

func symtabSize(class int) int {
	return symtabHeaderSize + hashSizes[class]*bucketSize
}

func (st *symtab) size() int {
	return symtabSize(st.sizeClass)
}

func (st *symtab) bucket(name string) int {
	return int(Hash(name) % uint32(len(st.buckets)))
}

// ensureSymtab creates the symbol table on first use and grows it once the
// load reaches two names per bucket. A failed growth is not an error: the
// old table keeps working with longer chains.
func (l *List) ensureSymtab() error {
	if l.symtab == nil {
		if err := l.pool.Calloc(1, symtabSize(0)); err != nil {
			return errors.NoMemory(errors.PhaseName, symtabSize(0), err)
		}
		l.symtab = &symtab{buckets: make([]int, hashSizes[0])}
		return nil
	}

	st := l.symtab
	if st.sizeClass >= maxSizeClass || st.count < 2*len(st.buckets) {
		return nil
	}

	next := st.sizeClass + 1
	if err := l.pool.Calloc(1, symtabSize(next)); err != nil {
		Logger().Debug("symbol table growth skipped",
			zap.Int("class", st.sizeClass),
			zap.Int("names", st.count),
			zap.Error(err))
		return nil
	}

	l.rehash(next)
	l.pool.Free(symtabSize(next - 1))
	return nil
}

// rehash moves every chain into a table of the given size class. Old
// buckets are drained in order and entries appended at the tail of their
// new bucket, so names that shared a bucket keep their relative order.
func (l *List) rehash(class int) {
	old := l.symtab
	n := hashSizes[class]
	buckets := make([]int, n)
	tails := make([]int, n)

	for _, head := range old.buckets {
		for idx := head; idx != 0; {
			s := &l.slots[idx-1]
			next := s.next
			s.next = 0

			b := int(Hash(s.name) % uint32(n))
			if tails[b] == 0 {
				buckets[b] = idx
			} else {
				l.slots[tails[b]-1].next = idx
			}
			tails[b] = idx
			idx = next
		}
	}

	l.symtab = &symtab{
		buckets:   buckets,
		sizeClass: class,
		count:     old.count,
	}

	Logger().Debug("symbol table rehashed",
		zap.Int("buckets", n),
		zap.Int("names", old.count))
	l.emit(Event{Type: EventRehashed, Buckets: n})
}

// lookup returns the index of the most recently named slot called name, or 0.
func (l *List) lookup(name string) int {
	if l.symtab == nil || name == "" {
		return 0
	}
	for idx := l.symtab.buckets[l.symtab.bucket(name)]; idx != 0; idx = l.slots[idx-1].next {
		if l.slots[idx-1].name == name {
			return idx
		}
	}
	return 0
}

// link pushes a named slot onto the head of its bucket.
func (l *List) link(index int) {
	st := l.symtab
	s := &l.slots[index-1]
	b := st.bucket(s.name)
	s.next = st.buckets[b]
	st.buckets[b] = index
	st.count++
}

// unlink splices a named slot out of its bucket.
func (l *List) unlink(index int) {
	st := l.symtab
	s := &l.slots[index-1]
	b := st.bucket(s.name)

	prev := 0
	for idx := st.buckets[b]; idx != 0; idx = l.slots[idx-1].next {
		if idx == index {
			if prev == 0 {
				st.buckets[b] = s.next
			} else {
				l.slots[prev-1].next = s.next
			}
			s.next = 0
			st.count--
			return
		}
		prev = idx
	}
}
