package alloc

// Stats holds counters since the heap was created or last reset.
type Stats struct {
	AllocCalls   int   // Alloc calls, including failed ones
	AllocReused  int   // Allocations served from a free block
	AllocGrown   int   // Allocations that extended the region
	AllocFailed  int   // Allocations that returned an error
	FreeCalls    int   // Free calls, including rejected ones
	FreeRejected int   // Free calls that returned ErrInvalidRelease
	Splits       int   // Blocks split on reuse
	Coalesces    int   // Forward merges on release
	GrowCalls    int   // Successful provider extensions
	GrowBytes    int64 // Bytes added by the provider
}

// Usage summarizes the current block chain.
type Usage struct {
	RegionBytes int // Region length
	Blocks      int
	UsedBlocks  int
	FreeBlocks  int
	UsedBytes   int // Payload bytes of used blocks
	FreeBytes   int // Payload bytes of free blocks
	LargestFree int // Largest free payload, 0 if none
	Slack       int // Extent bytes not covered by any block's size
}

// Stats returns a copy of the counters.
func (h *Heap) Stats() Stats { return h.stats }

// Usage walks the heap and summarizes it.
func (h *Heap) Usage() Usage {
	u := Usage{RegionBytes: h.region.Len()}
	h.Walk(func(b Block) bool {
		u.Blocks++
		u.Slack += b.Slack()
		if b.Used {
			u.UsedBlocks++
			u.UsedBytes += b.Size
			return true
		}
		u.FreeBlocks++
		u.FreeBytes += b.Size
		u.LargestFree = max(u.LargestFree, b.Size)
		return true
	})
	return u
}
