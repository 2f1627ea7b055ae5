// Package dirty tracks which bytes of a file-backed heap region were written
// and flushes them to disk.
//
// The heap reports every header write through the DirtyTracker interface.
// Tracker records the raw ranges cheaply, and at flush time page-aligns,
// sorts and merges them so each page is synced at most once.
//
// Usage:
//
//	r, _ := region.OpenFile(path, 64<<20)
//	t := dirty.NewTracker(r)
//	h, _ := alloc.New(r, &alloc.Config{Strategy: alloc.FirstFit, Dirty: t})
//	p, _ := h.Alloc(128)
//	copy(h.Payload(p), data)
//	t.Add(int(p), 128)
//	err := t.Flush(ctx, dirty.FlushAuto)
//
// Payload writes are the caller's business; only header writes are reported
// by the heap itself.
//
// Platform notes:
//   - Linux: msync on each merged range, then fdatasync.
//   - macOS: msync must cover the original mapping, so the whole region is
//     synced; FlushFull uses F_FULLFSYNC.
//   - Elsewhere file regions are unavailable and Flush reports
//     region.ErrUnsupported.
package dirty
