package alloc

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/internal/format"
)

func Test_Validate_DetectsBadSize(t *testing.T) {
	h := newTestHeap(t, FirstFit)
	p := mustAlloc(t, h, 16)
	mustAlloc(t, h, 16)

	format.PutWord(h.Region().Bytes(), headerOff(t, h, p)+format.SizeField, uint64(W+1))
	err := h.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorrupt))
	assert.Contains(t, err.Error(), "invalid size")
}

func Test_Validate_DetectsFootprintOverrun(t *testing.T) {
	h := newTestHeap(t, BestFit)
	p := mustAlloc(t, h, 16)
	mustAlloc(t, h, 16)

	format.PutWord(h.Region().Bytes(), headerOff(t, h, p)+format.SizeField, 64)
	assert.True(t, errors.Is(h.Validate(), ErrCorrupt))
}

func Test_Validate_DetectsBrokenLink(t *testing.T) {
	h := newTestHeap(t, FirstFit)
	p := mustAlloc(t, h, 16)
	mustAlloc(t, h, 16)

	format.PutNext(h.Region().Bytes(), headerOff(t, h, p), 0)
	assert.True(t, errors.Is(h.Validate(), ErrCorrupt))
}

func Test_Validate_DetectsStaleTop(t *testing.T) {
	h := newTestHeap(t, FirstFit)
	mustAlloc(t, h, 16)
	mustAlloc(t, h, 16)

	h.chain.top = 0
	assert.True(t, errors.Is(h.Validate(), ErrCorrupt))
}

func Test_Validate_DetectsFreeListDrift(t *testing.T) {
	h := newTestHeap(t, FreeList)
	p := mustAlloc(t, h, 16)
	mustAlloc(t, h, 16)
	mustFree(t, h, p)

	h.place.(*freeList).remove(headerOff(t, h, p))
	err := h.Validate()
	assert.True(t, errors.Is(err, ErrCorrupt))
	assert.Contains(t, err.Error(), "free list")
}

func Test_Validate_DetectsUsedFlagWithoutOwner(t *testing.T) {
	h := newTestHeap(t, FirstFit)
	p := mustAlloc(t, h, 16)
	mustAlloc(t, h, 16)
	mustFree(t, h, p)

	format.PutWord(h.Region().Bytes(), headerOff(t, h, p)+format.FlagsField, format.FlagUsed)
	assert.True(t, errors.Is(h.Validate(), ErrCorrupt))
}

func Test_Validate_DetectsWrongBucket(t *testing.T) {
	h := newTestHeap(t, Segregated)
	p := mustAlloc(t, h, W)
	mustAlloc(t, h, W)

	format.PutWord(h.Region().Bytes(), headerOff(t, h, p)+format.SizeField, uint64(2*W))
	err := h.Validate()
	assert.True(t, errors.Is(err, ErrCorrupt))
	assert.Contains(t, err.Error(), "bucket")
}

func Test_Validate_EmptyHeap(t *testing.T) {
	for _, s := range Strategies {
		assert.NoError(t, newTestHeap(t, s).Validate(), s.String())
	}
}

func Test_Usage(t *testing.T) {
	h := newTestHeap(t, FirstFit)
	a := mustAlloc(t, h, 16)
	b := mustAlloc(t, h, 32)
	mustAlloc(t, h, 8)
	mustFree(t, h, b)
	mustFree(t, h, a)

	u := h.Usage()
	assert.Equal(t, h.Region().Len(), u.RegionBytes)
	assert.Equal(t, 2, u.Blocks)
	assert.Equal(t, 1, u.UsedBlocks)
	assert.Equal(t, 1, u.FreeBlocks)
	assert.Equal(t, 8, u.UsedBytes)
	assert.Equal(t, 48, u.FreeBytes)
	assert.Equal(t, 48, u.LargestFree)
	assert.Equal(t, format.Overhead, u.Slack)
}

func Test_String(t *testing.T) {
	h := newTestHeap(t, FirstFit)
	assert.Equal(t, "[]", h.String())

	mustAlloc(t, h, 8)
	p := mustAlloc(t, h, 16)
	mustFree(t, h, p)
	assert.Equal(t, "[[8, 1], [16, 0]]", h.String())
}

type jsonMap struct {
	Heap        string `json:"heap"`
	Strategy    string `json:"strategy"`
	RegionBytes int    `json:"regionBytes"`
	BlockCount  int    `json:"blockCount"`
	FreeBytes   int    `json:"freeBytes"`
	Blocks      []struct {
		Offset int  `json:"offset"`
		Ptr    int  `json:"ptr"`
		Size   int  `json:"size"`
		Used   bool `json:"used"`
		Next   int  `json:"next"`
		Extent int  `json:"extent"`
		Class  *int `json:"class"`
	} `json:"blocks"`
}

func Test_WriteJSON(t *testing.T) {
	h := newTestHeap(t, BestFit)
	mustAlloc(t, h, 8)
	p := mustAlloc(t, h, 24)
	mustFree(t, h, p)

	var buf bytes.Buffer
	require.NoError(t, h.WriteJSON(&buf))

	var m jsonMap
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m), buf.String())
	assert.Equal(t, h.ID().String(), m.Heap)
	assert.Equal(t, "best-fit", m.Strategy)
	assert.Equal(t, h.Region().Len(), m.RegionBytes)
	assert.Equal(t, 2, m.BlockCount)
	assert.Equal(t, 24, m.FreeBytes)
	require.Len(t, m.Blocks, 2)

	first, second := m.Blocks[0], m.Blocks[1]
	assert.Equal(t, 0, first.Offset)
	assert.Equal(t, format.PayloadOffset, first.Ptr)
	assert.True(t, first.Used)
	assert.Equal(t, second.Offset, first.Next)
	assert.Equal(t, -1, second.Next)
	assert.Equal(t, 24, second.Size)
	assert.False(t, second.Used)
	assert.Equal(t, format.Footprint(24), second.Extent)
	assert.Nil(t, first.Class)
}

func Test_WriteJSON_SegregatedHasClasses(t *testing.T) {
	h := newTestHeap(t, Segregated)
	mustAlloc(t, h, 4*W)

	var buf bytes.Buffer
	require.NoError(t, h.WriteJSON(&buf))

	var m jsonMap
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	require.Len(t, m.Blocks, 1)
	require.NotNil(t, m.Blocks[0].Class)
	assert.Equal(t, 3, *m.Blocks[0].Class)
}
