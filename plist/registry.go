package plist

import "github.com/wippyai/proplist/resource"

// TypeRef is a non-owning reference from a property to the list that
// describes its type. Zero means no type.
type TypeRef = resource.Handle

// Registry issues TypeRefs for lists. It never owns the lists it tracks:
// unregistering or destroying one list has no effect on any other, and
// references may form cycles. Keeping the graph acyclic is up to callers.
type Registry struct {
	table *resource.Table[*List]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{table: resource.NewTable[*List]()}
}

// Register returns the TypeRef for l, issuing one if l is new. A TypeRef is
// never issued twice, so a reference to an unregistered list cannot come to
// resolve to a later one. Register returns 0 after Close.
func (r *Registry) Register(l *List) TypeRef {
	if l == nil {
		return 0
	}
	if ref, ok := r.table.Find(func(v *List) bool { return v == l }); ok {
		return ref
	}
	return r.table.Insert(l)
}

// Resolve returns the list behind ref. Destroyed lists do not resolve.
func (r *Registry) Resolve(ref TypeRef) (*List, bool) {
	l, ok := r.table.Get(ref)
	if !ok || l.Destroyed() {
		return nil, false
	}
	return l, true
}

// Unregister forgets ref. Properties still holding it will no longer
// resolve, even after other lists are registered.
func (r *Registry) Unregister(ref TypeRef) bool {
	_, ok := r.table.Remove(ref)
	return ok
}

// Len returns the number of registered lists.
func (r *Registry) Len() int {
	return r.table.Len()
}

// Subscribe forwards registry lifecycle events to o.
func (r *Registry) Subscribe(o resource.Observer) {
	r.table.Subscribe(o)
}

// Unsubscribe stops forwarding events to o.
func (r *Registry) Unsubscribe(o resource.Observer) {
	r.table.Unsubscribe(o)
}

// Close unregisters every list and stops issuing references. The lists
// themselves are left alone.
func (r *Registry) Close() error {
	return r.table.Close()
}
