//go:build linux || darwin

package dirty_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/region"
	"github.com/joshuapare/heapkit/region/dirty"
)

func openRegion(t *testing.T) *region.File {
	t.Helper()
	r, err := region.OpenFile(filepath.Join(t.TempDir(), "heap.bin"), 1<<20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	_, err = r.Extend(3 * 4096)
	require.NoError(t, err)
	return r
}

func TestTracker_Flush_Success(t *testing.T) {
	r := openRegion(t)
	tracker := dirty.NewTracker(r)

	copy(r.Bytes()[4100:], "dirty")
	tracker.Add(4100, 5)
	tracker.Add(100, 8)

	require.NoError(t, tracker.Flush(context.Background(), dirty.FlushAuto))
	require.False(t, tracker.Pending())
}

func TestTracker_Flush_AllModes(t *testing.T) {
	for _, mode := range []dirty.FlushMode{dirty.FlushAuto, dirty.FlushDataOnly, dirty.FlushFull} {
		t.Run(mode.String(), func(t *testing.T) {
			r := openRegion(t)
			tracker := dirty.NewTracker(r)
			tracker.Add(0, 32)
			require.NoError(t, tracker.Flush(context.Background(), mode))
		})
	}
}

func TestTracker_Flush_RangePastBreak(t *testing.T) {
	r := openRegion(t)
	tracker := dirty.NewTracker(r)

	tracker.Add(r.Len()-8, 4096)
	tracker.Add(r.Len()+8192, 8)
	require.NoError(t, tracker.Flush(context.Background(), dirty.FlushDataOnly))
}

func TestTracker_Flush_PreCancelled(t *testing.T) {
	r := openRegion(t)
	tracker := dirty.NewTracker(r)
	tracker.Add(4096, 100)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := tracker.Flush(ctx, dirty.FlushAuto)
	require.Error(t, err)
	require.True(t, errors.Is(err, context.Canceled), "expected context.Canceled, got: %v", err)
	require.True(t, tracker.Pending(), "cancelled flush must keep ranges")
}

func TestTracker_ImplementsFlushable(t *testing.T) {
	var _ dirty.FlushableTracker = dirty.NewTracker(openRegion(t))
}
