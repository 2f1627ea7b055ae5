package alloc

// Allocator is the facade shared by Heap and Guarded.
type Allocator interface {
	// Alloc returns a block of at least size bytes.
	Alloc(size int) (Ptr, error)

	// Free releases a pointer returned by Alloc.
	Free(p Ptr) error

	// Reset returns the whole region to its initial, empty state.
	Reset() error

	// Walk visits every block in chain order until fn returns false.
	Walk(fn func(Block) bool)
}

var (
	_ Allocator = (*Heap)(nil)
	_ Allocator = (*Guarded)(nil)
)
