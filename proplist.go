package proplist

// Pool is the scoped allocator a property list draws its memory from.
// Sizes are in bytes. Every method reports failure instead of panicking so
// callers can surface out-of-memory as an ordinary error result.
type Pool interface {
	// Malloc reserves n bytes.
	Malloc(n int) error

	// Calloc reserves count*size zeroed bytes.
	Calloc(count, size int) error

	// Realloc resizes a reservation from oldSize to newSize bytes.
	Realloc(oldSize, newSize int) error

	// Free returns n bytes to the pool.
	Free(n int)

	// Strdup copies s into pool-owned storage.
	Strdup(s string) (string, error)
}

// Releaser is implemented by pools that can end their scope explicitly.
type Releaser interface {
	Release()
}
