package region

// Provider hands out contiguous memory to a heap.
type Provider interface {
	// Extend grows the region by exactly n bytes and returns the offset of
	// the first new byte. The new bytes are zeroed. Returns ErrExhausted
	// when the region cannot grow.
	Extend(n int) (int, error)

	// Bytes returns the region [0, Len()).
	Bytes() []byte

	// Len returns the current break.
	Len() int

	// Reset rolls the break back to zero and zeroes the released bytes.
	Reset() error

	// Close releases the backing memory. The provider is unusable afterwards.
	Close() error
}

// Mapping is implemented by providers backed by a file mapping.
type Mapping interface {
	Bytes() []byte
	FD() int
}
