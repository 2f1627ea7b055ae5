package dirty

import "context"

// DirtyTracker is the minimal interface for recording modified byte ranges.
// It is what the heap needs: it never flushes by itself.
type DirtyTracker interface {
	// Add marks [off, off+length) of the region as dirty.
	Add(off, length int)
}

// FlushableTracker extends DirtyTracker with flushing, for the owner of the
// region.
type FlushableTracker interface {
	DirtyTracker
	Flush(ctx context.Context, mode FlushMode) error
}
