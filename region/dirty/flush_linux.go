package dirty

import (
	"context"

	"golang.org/x/sys/unix"
)

// flushRanges msyncs each merged range. Linux accepts any page-aligned
// sub-slice of the mapping.
func (t *Tracker) flushRanges(ctx context.Context, data []byte) error {
	for _, r := range t.coalesce() {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := int(r.Off)
		if start >= len(data) {
			continue
		}
		end := min(int(r.Off+r.Len), len(data))
		if err := unix.Msync(data[start:end], unix.MS_SYNC); err != nil {
			return err
		}
	}
	return nil
}

// fdatasync syncs file data. fullfsync has no meaning on Linux.
func fdatasync(fd int, _ bool) error {
	return unix.Fdatasync(fd)
}
