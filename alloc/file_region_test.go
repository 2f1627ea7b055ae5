//go:build linux || darwin

package alloc

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/region"
	"github.com/joshuapare/heapkit/region/dirty"
)

func Test_FileRegion_ReopenAdoptsHeap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heap.bin")

	r, err := region.OpenFile(path, 1<<20)
	require.NoError(t, err)
	tracker := dirty.NewTracker(r)
	h, err := New(r, &Config{Strategy: BestFit, CheckReleases: true, Dirty: tracker})
	require.NoError(t, err)

	keep := mustAlloc(t, h, 40)
	drop := mustAlloc(t, h, 64)
	mustAlloc(t, h, 8)
	copy(h.Payload(keep), "durable payload")
	tracker.Add(int(keep), 40)
	mustFree(t, h, drop)

	require.True(t, tracker.Pending())
	require.NoError(t, tracker.Flush(context.Background(), dirty.FlushAuto))
	want := blocks(h)
	require.NoError(t, r.Close())

	r, err = region.OpenFile(path, 1<<20)
	require.NoError(t, err)
	defer r.Close()

	h, err = New(r, &Config{Strategy: BestFit, CheckReleases: true})
	require.NoError(t, err)
	requireInvariants(t, h)
	assert.Equal(t, want, blocks(h))
	assert.Equal(t, "durable payload", string(h.Payload(keep)[:15]))

	again := mustAlloc(t, h, 64)
	assert.Equal(t, drop, again, "free block survives reopen")
	mustFree(t, h, keep)
}

func Test_FileRegion_ResetClearsTracker(t *testing.T) {
	r, err := region.OpenFile(filepath.Join(t.TempDir(), "heap.bin"), 1<<20)
	require.NoError(t, err)
	defer r.Close()
	tracker := dirty.NewTracker(r)
	h, err := New(r, &Config{Strategy: FirstFit, CheckReleases: true, Dirty: tracker})
	require.NoError(t, err)

	mustAlloc(t, h, 4096)
	require.True(t, tracker.Pending())

	require.NoError(t, h.Reset())
	assert.False(t, tracker.Pending())
	assert.Empty(t, tracker.DebugRanges())

	mustAlloc(t, h, 8)
	assert.Equal(t, []dirty.Range{{Off: 0, Len: 4096}}, tracker.DebugCoalescedRanges())
	require.NoError(t, tracker.Flush(context.Background(), dirty.FlushAuto))
}

func Test_MmapRegion_OutOfMemory(t *testing.T) {
	r, err := region.NewMmap(4096)
	require.NoError(t, err)
	defer r.Close()

	h, err := New(r, nil)
	require.NoError(t, err)

	n := 0
	for {
		if _, err := h.Alloc(64); err != nil {
			assert.True(t, errors.Is(err, ErrOutOfMemory), "%v", err)
			break
		}
		n++
	}
	assert.Equal(t, r.Capacity()/footprint(64), n)
	requireInvariants(t, h)
}
