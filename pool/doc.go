// Package pool provides the scoped allocator that property lists draw from.
//
// An Arena accounts for bytes rather than handing out raw memory. Lists
// charge their header, slot array, symbol table and name strings to the
// arena, and return them on destroy. A bounded arena refuses reservations
// past its limit, which lets out-of-memory paths be exercised without
// actually exhausting the process:
//
//	a := pool.New("request", 4096)
//	defer a.Release()
//
//	list, err := plist.New(a)
//
// Child arenas charge their parent as well, so a connection-scoped arena
// can bound the sum of all request arenas created under it:
//
//	conn := pool.New("conn", 1<<20)
//	req := conn.NewChild("req", 0)
//	defer req.Release() // returns anything still held to conn
package pool
