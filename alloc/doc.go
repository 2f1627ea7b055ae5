// Package alloc implements a heap allocator engine over one contiguous byte
// region.
//
// # Overview
//
// A Heap serves variable-sized Alloc/Free requests out of a region obtained
// from a region.Provider. Every block carries an in-band header (see
// internal/format) holding its payload size, a used flag and the offset of
// the next block. Callers get a Ptr, the region offset of the payload, and
// hand the same Ptr back to Free.
//
// # Strategies
//
// The placement strategy is fixed when the heap is created (or re-initialized
// with Init):
//
//   - FirstFit: first free block large enough, scanning from the head.
//   - NextFit: like FirstFit but resumes at the block found last, wrapping.
//   - BestFit: the free block wasting the fewest bytes; ties keep the first.
//   - FreeList: first fit over an explicit list of free blocks only.
//   - Segregated: one independent chain per size class; no split, no
//     coalescing, no fall-through between classes.
//
// All strategies but Segregated split oversized blocks when the remainder can
// hold a header, and coalesce a released block with its physically next
// neighbor when that one is free. Coalescing only looks forward: the header
// carries no link to the predecessor.
//
// # Growth
//
// When no free block fits, the heap extends the region by exactly the
// footprint of the request and appends a fresh block. Memory is never handed
// back to the provider except by Reset.
//
// # Usage Example
//
//	h, err := alloc.New(region.NewSlice(0), &alloc.Config{Strategy: alloc.BestFit})
//	if err != nil {
//	    return err
//	}
//	p, err := h.Alloc(100)
//	if err != nil {
//	    return err
//	}
//	copy(h.Payload(p), data)
//	err = h.Free(p)
//
// Payload slices are views into the region. With a Slice provider they are
// invalidated by growth; take a fresh view after every Alloc.
//
// # Thread Safety
//
// Heap is not thread-safe. Callers must serialize access, or wrap the heap in
// a Guarded, which holds one mutex for the whole of each call.
package alloc
