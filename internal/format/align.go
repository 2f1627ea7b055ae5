package format

// Align returns n rounded up to the next multiple of WordSize.
//
// Example (64-bit):
//
//	Align(3)  = 8
//	Align(8)  = 8
//	Align(9)  = 16
func Align(n int) int {
	return (n + WordAlignmentMask) & ^WordAlignmentMask
}

// IsAligned reports whether n sits on the word grid.
func IsAligned(n int) bool {
	return n&WordAlignmentMask == 0
}

// Footprint returns the bytes a block with the given payload size occupies:
// the header plus the payload minus the inline payload word already counted
// in the header.
//
// Example (64-bit):
//
//	Footprint(8)  = 32
//	Footprint(16) = 40
func Footprint(size int) int {
	return HeaderSize + size - WordSize
}
