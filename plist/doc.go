// Package plist implements property lists: ordered, integer-indexed
// containers with optional name lookup.
//
// A property has a 1-based index that never changes while it exists, an
// optional name, a value, and an optional type reference to another list.
// Lists carry per-request attributes and per-connection properties, and
// type references let them describe trees of typed values.
//
// # Basic Usage
//
//	arena := pool.New("request", 0)
//	l, err := plist.New(arena)
//	if err != nil {
//		return err
//	}
//	defer l.Destroy()
//
//	idx, err := l.DefineProperty(0, "host", false)
//	_, err = l.SetValue(idx, "example.com", 0)
//
//	p, err := l.FindValue("host") // p.Index == idx, p.Value == "example.com"
//
//	v, ok := l.DeleteProperty(0, "host") // v == "example.com"
//
// # Indices
//
// Create can reserve the first n indices for fixed positional properties;
// those are defined by explicit index. Index 0 asks the list to pick one.
// Auto-assignment walks forward from the last assigned index, wraps once to
// reuse holes left by deletes, and only then grows the slot array. A list
// with a maximum size fails with ErrListFull once the array cannot grow.
//
// # Names
//
// Names live in a chained hash table created on first use. The table grows
// through fixed size classes once it averages two names per bucket; past
// the largest class chains simply get longer. If two properties are given
// the same name, lookups find the one named most recently.
//
// # Memory
//
// The list header, slot array, symbol table and name copies are charged to
// the pool passed to Create and returned by Destroy. Values and type
// references are borrowed: the list never frees them, and deleting a
// property hands its value back to the caller.
//
// # Types
//
// Type references are TypeRefs issued by a Registry. They do not keep the
// referenced list alive and cycles are not detected.
//
// # Concurrency
//
// A List must not be mutated concurrently with any other operation on it.
// Wrap it in a SyncList to share it between goroutines.
package plist
