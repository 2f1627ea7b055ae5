package format

import "github.com/cockroachdb/errors"

// Header is the decoded form of a block header.
type Header struct {
	Size int  // Usable payload size in bytes
	Used bool // True when the block is allocated
	Next int  // Offset of the next header in the chain, -1 for none
}

// PutHeader encodes h at off. The caller must ensure b holds HeaderSize bytes
// past off.
func PutHeader(b []byte, off int, h Header) {
	PutWord(b, off+SizeField, uint64(h.Size))
	var flags uint64
	if h.Used {
		flags = FlagUsed
	}
	PutWord(b, off+FlagsField, flags)
	PutNext(b, off, h.Next)
}

// PutNext encodes the next link of the header at off.
func PutNext(b []byte, off, next int) {
	if next < 0 {
		PutWord(b, off+NextField, NilOffset)
		return
	}
	PutWord(b, off+NextField, uint64(next))
}

// ReadNext decodes the next link of the header at off, -1 for none.
func ReadNext(b []byte, off int) int {
	v := ReadWord(b, off+NextField)
	if v == NilOffset {
		return -1
	}
	return int(v)
}

// ParseHeader decodes and sanity checks the header at off.
func ParseHeader(b []byte, off int) (Header, error) {
	if off < 0 || off+HeaderSize > len(b) {
		return Header{}, errors.Wrapf(ErrTruncated, "header at %d (region %d bytes)", off, len(b))
	}
	if !IsAligned(off) {
		return Header{}, errors.Wrapf(ErrMisaligned, "header at %d", off)
	}
	size := ReadWord(b, off+SizeField)
	if size < MinPayload || size > uint64(len(b)) || !IsAligned(int(size)) {
		return Header{}, errors.Wrapf(ErrBadSize, "header at %d declares %d", off, size)
	}
	return Header{
		Size: int(size),
		Used: ReadWord(b, off+FlagsField)&FlagUsed != 0,
		Next: ReadNext(b, off),
	}, nil
}
