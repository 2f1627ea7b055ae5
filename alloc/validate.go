package alloc

import (
	"fmt"
	"strings"

	"github.com/joshuapare/heapkit/internal/format"
)

// Validate checks every structural invariant of the heap and returns an
// ErrCorrupt-marked error describing the first violation.
//
// Checked:
//   - headers are aligned, sizes are whole words >= one word
//   - blocks tile the region in address order, each extent holding at least
//     the block's footprint
//   - top is the last block of its chain
//   - FreeList: the list holds exactly the free blocks, once each
//   - Segregated: each bucket holds only its own class
//   - every live pointer addresses a used block (with CheckReleases)
func (h *Heap) Validate() error {
	var err error
	if h.strategy == Segregated {
		err = h.validateBuckets()
	} else {
		err = h.validateChain()
	}
	if err != nil {
		return err
	}
	return h.validateLive()
}

func (h *Heap) validateHeader(off int) error {
	if !format.IsAligned(off) {
		return corruptf("alloc: header at %d is misaligned", off)
	}
	if off+format.HeaderSize > h.region.Len() {
		return corruptf("alloc: header at %d overruns region of %d bytes", off, h.region.Len())
	}
	if size := h.size(off); size < format.MinPayload || !format.IsAligned(size) {
		return corruptf("alloc: block at %d has invalid size %d", off, size)
	}
	return nil
}

func (h *Heap) validateChain() error {
	n := h.region.Len()
	if n == 0 {
		if h.chain.head != none || h.chain.top != none {
			return corruptf("alloc: empty region with head %d top %d", h.chain.head, h.chain.top)
		}
		return nil
	}
	if h.chain.head != 0 {
		return corruptf("alloc: head is %d, want 0", h.chain.head)
	}

	free := make(map[int]struct{})
	last := none
	for off := h.chain.head; off != none; off = h.next(off) {
		if err := h.validateHeader(off); err != nil {
			return err
		}
		end := h.extentEnd(off)
		if end <= off || end > n {
			return corruptf("alloc: block at %d links to %d", off, h.next(off))
		}
		if end-off < footprint(h.size(off)) {
			return corruptf("alloc: block at %d: extent %d below footprint %d", off, end-off, footprint(h.size(off)))
		}
		if !h.used(off) {
			free[off] = struct{}{}
		}
		last = off
	}
	if last != h.chain.top {
		return corruptf("alloc: top is %d, last block is %d", h.chain.top, last)
	}

	switch p := h.place.(type) {
	case *freeList:
		listed := p.offsets()
		if len(listed) != len(free) {
			return corruptf("alloc: free list holds %d blocks, chain has %d free", len(listed), len(free))
		}
		for _, off := range listed {
			if _, ok := free[off]; !ok {
				return corruptf("alloc: free list holds block %d which is not free", off)
			}
		}
	case *nextFit:
		if p.cursor != none && !h.inChain(p.cursor) {
			return corruptf("alloc: next-fit cursor %d is not a block", p.cursor)
		}
	}
	return nil
}

func (h *Heap) inChain(target int) bool {
	for off := h.chain.head; off != none; off = h.next(off) {
		if off == target {
			return true
		}
	}
	return false
}

func (h *Heap) validateBuckets() error {
	s := h.place.(*segregated)
	seen := make(map[int]int) // header -> class
	for _, class := range s.classes {
		c := s.buckets[class]
		prev := none
		for off := c.head; off != none; off = h.next(off) {
			if err := h.validateHeader(off); err != nil {
				return err
			}
			if got := BucketOf(h.size(off)); got != class {
				return corruptf("alloc: bucket %d holds block %d of class %d", class, off, got)
			}
			if off <= prev {
				return corruptf("alloc: bucket %d out of address order at %d", class, off)
			}
			if _, dup := seen[off]; dup {
				return corruptf("alloc: block %d reachable twice", off)
			}
			seen[off] = class
			prev = off
		}
		if prev != c.top {
			return corruptf("alloc: bucket %d top is %d, last block is %d", class, c.top, prev)
		}
	}

	// Every byte belongs to some bucket's block.
	n := h.region.Len()
	for off := 0; off < n; {
		if _, ok := seen[off]; !ok {
			return corruptf("alloc: block at %d is in no bucket", off)
		}
		off += footprint(h.size(off))
	}
	return nil
}

func (h *Heap) validateLive() error {
	if !h.checkReleases {
		return nil
	}
	used := 0
	var err error
	h.Walk(func(b Block) bool {
		if !b.Used {
			return true
		}
		used++
		if _, ok := h.live[b.Ptr]; !ok {
			err = corruptf("alloc: used block %d has no live pointer", b.Offset)
			return false
		}
		return true
	})
	if err != nil {
		return err
	}
	if used != len(h.live) {
		return corruptf("alloc: %d live pointers, %d used blocks", len(h.live), used)
	}
	return nil
}

// String renders the blocks as [size, used] pairs, used printed as 0 or 1.
func (h *Heap) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	first := true
	h.Walk(func(b Block) bool {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		used := 0
		if b.Used {
			used = 1
		}
		fmt.Fprintf(&sb, "[%d, %d]", b.Size, used)
		return true
	})
	sb.WriteByte(']')
	return sb.String()
}
