// Package format defines the in-band block header layout shared by the heap
// engine and its diagnostics. Every managed block starts with a fixed header of
// machine words followed by the payload; the first payload word lives inside
// the header, so a one-word allocation costs exactly one header.
package format

import "math/bits"

const (
	// WordSize is the machine word in bytes (8 on 64-bit, 4 on 32-bit).
	// All payload sizes are multiples of it.
	WordSize = bits.UintSize / 8

	// WordAlignmentMask is used by Align to round up to WordSize.
	WordAlignmentMask = WordSize - 1

	// HeaderSize is the size of a block header including the inline payload word.
	//
	// Header layout (little-endian, one word per field):
	//
	//	Word  Field  Description
	//	0     size   Usable payload size in bytes (multiple of WordSize).
	//	1     flags  Bit 0 set => block is in use.
	//	2     next   Region offset of the next block header, NilOffset for none.
	//	3     data   First payload word.
	HeaderSize = 4 * WordSize

	// Overhead is the number of header bytes that precede the payload.
	Overhead = HeaderSize - WordSize

	// SizeField, FlagsField and NextField are byte offsets within a header.
	SizeField  = 0
	FlagsField = WordSize
	NextField  = 2 * WordSize

	// PayloadOffset is the distance from a header to its payload.
	PayloadOffset = Overhead

	// MinPayload is the smallest payload a block can carry.
	MinPayload = WordSize

	// FlagUsed marks an allocated block.
	FlagUsed = 1

	// NilOffset encodes "no next block" in the next field.
	NilOffset uint64 = 1<<bits.UintSize - 1
)
