package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/region"
)

const (
	W = format.WordSize
	H = format.HeaderSize
)

// newTestHeap creates a heap on an unlimited slice region.
func newTestHeap(t testing.TB, s Strategy) *Heap {
	t.Helper()
	return newLimitedHeap(t, s, 0)
}

// newLimitedHeap creates a heap whose region refuses to grow past limit bytes.
func newLimitedHeap(t testing.TB, s Strategy, limit int) *Heap {
	t.Helper()
	h, err := New(region.NewSlice(limit), &Config{Strategy: s, CheckReleases: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Region().Close() })
	return h
}

// mustAlloc allocates and checks the heap afterwards.
func mustAlloc(t testing.TB, h *Heap, size int) Ptr {
	t.Helper()
	p, err := h.Alloc(size)
	require.NoError(t, err, "alloc %d", size)
	require.NotEqual(t, Nil, p)
	requireInvariants(t, h)
	return p
}

func mustFree(t testing.TB, h *Heap, p Ptr) {
	t.Helper()
	require.NoError(t, h.Free(p), "free %d", p)
	requireInvariants(t, h)
}

// headerOff returns the header offset behind p.
func headerOff(t testing.TB, h *Heap, p Ptr) int {
	t.Helper()
	b, err := h.BlockOf(p)
	require.NoError(t, err)
	return b.Offset
}

func blockOf(t testing.TB, h *Heap, p Ptr) Block {
	t.Helper()
	b, err := h.BlockOf(p)
	require.NoError(t, err)
	return b
}

func blocks(h *Heap) []Block {
	var out []Block
	h.Walk(func(b Block) bool {
		out = append(out, b)
		return true
	})
	return out
}

func bucketOffsets(h *Heap, class int) []int {
	var out []int
	h.WalkBucket(class, func(b Block) bool {
		out = append(out, b.Offset)
		return true
	})
	return out
}

// requireInvariants checks the heap with Validate and re-derives the tiling
// from Walk independently of it.
func requireInvariants(t testing.TB, h *Heap) {
	t.Helper()
	require.NoError(t, h.Validate())

	total := 0
	h.Walk(func(b Block) bool {
		require.GreaterOrEqual(t, b.Size, W, "block %d size", b.Offset)
		require.Zero(t, b.Size%W, "block %d size %d not word aligned", b.Offset, b.Size)
		require.GreaterOrEqual(t, b.Extent, format.Footprint(b.Size), "block %d extent", b.Offset)
		total += b.Extent
		return true
	})
	require.Equal(t, h.Region().Len(), total, "extents must tile the region")
}
