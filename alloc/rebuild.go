package alloc

import (
	"github.com/cockroachdb/errors"

	"github.com/joshuapare/heapkit/internal/format"
)

// rebuild reconstructs allocator state from the headers already in the
// region. Free blocks are handed to the placer in address order; used blocks
// become live pointers.
func (h *Heap) rebuild() error {
	if h.strategy == Segregated {
		return h.rebuildBuckets()
	}

	data := h.region.Bytes()
	n := len(data)
	h.chain.head = 0
	for off := 0; ; {
		hdr, err := format.ParseHeader(data, off)
		if err != nil {
			return errors.Mark(errors.Wrapf(err, "alloc: adopt block at %d", off), ErrCorrupt)
		}
		end := hdr.Next
		if end == none {
			end = n
		}
		if end > n || !format.IsAligned(end) || end-off < footprint(hdr.Size) {
			return corruptf("alloc: block at %d (size %d) ends at %d, region is %d bytes", off, hdr.Size, end, n)
		}
		h.adopt(off, hdr)
		if hdr.Next == none {
			h.chain.top = off
			return nil
		}
		off = hdr.Next
	}
}

// rebuildBuckets walks the region physically (blocks are exactly one
// footprint long in Segregated mode) and checks that each bucket's links
// follow address order.
func (h *Heap) rebuildBuckets() error {
	s := h.place.(*segregated)
	data := h.region.Bytes()
	n := len(data)
	for off := 0; off < n; {
		hdr, err := format.ParseHeader(data, off)
		if err != nil {
			return errors.Mark(errors.Wrapf(err, "alloc: adopt block at %d", off), ErrCorrupt)
		}
		end := off + footprint(hdr.Size)
		if end > n {
			return corruptf("alloc: block at %d (size %d) overruns region of %d bytes", off, hdr.Size, n)
		}
		c := s.chainFor(hdr.Size)
		if c.top != none {
			if got := h.next(c.top); got != off {
				return corruptf("alloc: bucket %d: block at %d links to %d, want %d", BucketOf(hdr.Size), c.top, got, off)
			}
		} else {
			c.head = off
		}
		c.top = off
		h.adopt(off, hdr)
		off = end
	}
	for _, class := range s.classes {
		if top := s.buckets[class].top; h.next(top) != none {
			return corruptf("alloc: bucket %d: last block at %d links to %d", class, top, h.next(top))
		}
	}
	return nil
}

func (h *Heap) adopt(off int, hdr format.Header) {
	if !hdr.Used {
		h.place.released(off)
		return
	}
	if h.checkReleases {
		h.live[ptrOf(off)] = struct{}{}
	}
}
