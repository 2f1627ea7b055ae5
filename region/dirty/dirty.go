package dirty

import (
	"context"
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/joshuapare/heapkit/region"
)

const (
	// defaultRangeCapacity is the pre-allocated capacity for dirty ranges.
	defaultRangeCapacity = 64

	// standardPageSize is the flush granularity.
	standardPageSize = 4096
)

// FlushMode controls durability of a flush.
type FlushMode int

const (
	// FlushAuto msyncs dirty pages then fdatasyncs the file.
	FlushAuto FlushMode = iota

	// FlushDataOnly only msyncs dirty pages. The caller syncs the
	// descriptor later, e.g. after batching several flushes.
	FlushDataOnly

	// FlushFull is FlushAuto plus F_FULLFSYNC on macOS.
	FlushFull
)

func (m FlushMode) String() string {
	switch m {
	case FlushAuto:
		return "auto"
	case FlushDataOnly:
		return "data-only"
	case FlushFull:
		return "full"
	default:
		return "unknown"
	}
}

// Range is a dirty byte range, in region offsets.
type Range struct {
	Off int64
	Len int64
}

// Tracker accumulates dirty ranges and flushes them.
//
// NOT thread-safe. Only one goroutine should use it at a time, which is the
// case when it is fed by a single heap (or by a Guarded one).
type Tracker struct {
	m        region.Mapping
	ranges   []Range // raw, coalesced at flush time
	pageSize int64
}

// NewTracker creates a tracker for the given mapping.
func NewTracker(m region.Mapping) *Tracker {
	return &Tracker{
		m:        m,
		ranges:   make([]Range, 0, defaultRangeCapacity),
		pageSize: standardPageSize,
	}
}

// Add records a dirty range. Empty ranges are ignored.
func (t *Tracker) Add(off, length int) {
	if length <= 0 {
		return
	}
	t.ranges = append(t.ranges, Range{
		Off: int64(off),
		Len: int64(length),
	})
}

// Flush writes the dirty pages back to the file and, unless mode is
// FlushDataOnly, syncs the descriptor. Ranges are cleared only on success.
//
// Cancellation is checked before each range; a cancelled flush may have
// synced a prefix of the ranges.
func (t *Tracker) Flush(ctx context.Context, mode FlushMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data := t.m.Bytes()
	if len(t.ranges) > 0 && len(data) > 0 {
		if err := t.flushRanges(ctx, data); err != nil {
			return errors.Wrap(err, "dirty: flush ranges")
		}
	}
	t.ranges = t.ranges[:0]

	if mode == FlushDataOnly {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fdatasync(t.m.FD(), mode == FlushFull); err != nil {
		return errors.Wrap(err, "dirty: sync descriptor")
	}
	return nil
}

// Reset drops all tracked ranges, e.g. after the region itself was reset.
func (t *Tracker) Reset() {
	t.ranges = t.ranges[:0]
}

// Pending reports whether anything is waiting to be flushed.
func (t *Tracker) Pending() bool { return len(t.ranges) > 0 }

// DebugRanges returns a copy of the raw, uncoalesced ranges.
func (t *Tracker) DebugRanges() []Range {
	return slices.Clone(t.ranges)
}

// DebugCoalescedRanges returns the page-aligned ranges a flush would sync.
func (t *Tracker) DebugCoalescedRanges() []Range {
	return t.coalesce()
}

// coalesce page-aligns all ranges, sorts them and merges overlapping or
// adjacent ones.
func (t *Tracker) coalesce() []Range {
	if len(t.ranges) == 0 {
		return nil
	}

	aligned := make([]Range, len(t.ranges))
	for i, r := range t.ranges {
		start := (r.Off / t.pageSize) * t.pageSize
		end := r.Off + r.Len
		if end%t.pageSize != 0 {
			end = (end/t.pageSize + 1) * t.pageSize
		}
		aligned[i] = Range{Off: start, Len: end - start}
	}

	slices.SortFunc(aligned, func(a, b Range) int {
		switch {
		case a.Off < b.Off:
			return -1
		case a.Off > b.Off:
			return 1
		}
		return 0
	})

	merged := make([]Range, 0, len(aligned))
	current := aligned[0]
	for _, next := range aligned[1:] {
		if next.Off <= current.Off+current.Len {
			current.Len = max(current.Off+current.Len, next.Off+next.Len) - current.Off
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}
