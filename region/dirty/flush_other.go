//go:build !linux && !darwin

package dirty

import (
	"context"

	"github.com/joshuapare/heapkit/region"
)

func (t *Tracker) flushRanges(context.Context, []byte) error {
	return region.ErrUnsupported
}

func fdatasync(int, bool) error {
	return region.ErrUnsupported
}
