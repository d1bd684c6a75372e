// Package resource provides a generic handle table.
//
// A handle is a small non-zero integer standing in for a Go value. Handles
// let one structure refer to another without owning it: removing a handle
// only forgets the reference, and the value's lifetime stays with whoever
// created it. Property lists use this for type references between lists.
//
// # Handle Table
//
//	table := resource.NewTable[*Thing]()
//
//	// Insert a value, get a handle
//	h := table.Insert(thing)
//
//	// Retrieve value by handle
//	thing, ok := table.Get(h)
//
//	// Forget the handle; thing itself is untouched
//	thing, ok = table.Remove(h)
//
// Handle 0 is never issued. Slots are recycled, but each reuse carries a
// new generation in the handle's high bits, so a removed handle stays dead
// and never resolves to a later value.
//
// # Observers
//
// Register observers to track lifecycle events:
//
//	table.Subscribe(obs) // obs implements OnResourceEvent(resource.Event)
//
// The table is safe for concurrent use.
package resource
