package alloc

import (
	"github.com/cockroachdb/errors"

	"github.com/joshuapare/heapkit/internal/format"
)

// none marks an absent block offset.
const none = -1

// chain is one physically ordered list of blocks.
type chain struct {
	head int
	top  int
}

func emptyChain() chain { return chain{head: none, top: none} }

func footprint(size int) int { return format.Footprint(size) }

// BucketOf returns the segregated size class serving a request of size
// bytes: aligned words minus one.
func BucketOf(size int) int {
	return format.Align(max(size, 1))/format.WordSize - 1
}

// headerOf maps a payload pointer back to its header offset. It is the only
// place a caller-supplied pointer is turned into a region offset.
func (h *Heap) headerOf(p Ptr) (int, error) {
	off := int(p) - format.PayloadOffset
	if off < 0 || off+format.HeaderSize > h.region.Len() {
		return none, errors.Wrapf(ErrInvalidRelease, "pointer %d outside region [0, %d)", p, h.region.Len())
	}
	if !format.IsAligned(off) {
		return none, errors.Wrapf(ErrInvalidRelease, "pointer %d misaligned", p)
	}
	return off, nil
}

func ptrOf(off int) Ptr { return Ptr(off + format.PayloadOffset) }

// Header field access. Offsets passed here always come from the heap's own
// chains, never from callers.

func (h *Heap) size(off int) int {
	return int(format.ReadWord(h.region.Bytes(), off+format.SizeField))
}

func (h *Heap) used(off int) bool {
	return format.ReadWord(h.region.Bytes(), off+format.FlagsField)&format.FlagUsed != 0
}

func (h *Heap) next(off int) int {
	return format.ReadNext(h.region.Bytes(), off)
}

func (h *Heap) setSize(off, size int) {
	format.PutWord(h.region.Bytes(), off+format.SizeField, uint64(size))
	h.touch(off + format.SizeField)
}

func (h *Heap) setUsed(off int, used bool) {
	var flags uint64
	if used {
		flags = format.FlagUsed
	}
	format.PutWord(h.region.Bytes(), off+format.FlagsField, flags)
	h.touch(off + format.FlagsField)
}

func (h *Heap) setNext(off, next int) {
	format.PutNext(h.region.Bytes(), off, next)
	h.touch(off + format.NextField)
}

func (h *Heap) putHeader(off int, hdr format.Header) {
	format.PutHeader(h.region.Bytes(), off, hdr)
	if h.dt != nil {
		h.dt.Add(off, format.Overhead)
	}
}

func (h *Heap) touch(off int) {
	if h.dt != nil {
		h.dt.Add(off, format.WordSize)
	}
}

// extentEnd returns where the block at off physically ends.
func (h *Heap) extentEnd(off int) int {
	if h.strategy == Segregated {
		return off + footprint(h.size(off))
	}
	if n := h.next(off); n != none {
		return n
	}
	return h.region.Len()
}

// block builds the Walk view of the block at off.
func (h *Heap) block(off int) Block {
	b := Block{
		Offset: off,
		Ptr:    ptrOf(off),
		Size:   h.size(off),
		Used:   h.used(off),
		Next:   h.next(off),
		Extent: h.extentEnd(off) - off,
		Class:  none,
	}
	if h.strategy == Segregated {
		b.Class = BucketOf(b.Size)
	}
	return b
}
