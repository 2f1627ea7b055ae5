package alloc

import (
	"go.uber.org/zap"

	"github.com/joshuapare/heapkit/internal/format"
)

// canSplit reports whether trimming the block at off to need leaves room for
// a whole header.
func (h *Heap) canSplit(off, need int) bool {
	return footprint(h.size(off))-footprint(need) >= format.HeaderSize
}

// split trims the block at off to need and turns the rest of its extent into
// a free block linked right after it. The remainder takes every byte up to
// the next header, including slack the block may have carried.
func (h *Heap) split(off, need int) {
	end := h.extentEnd(off)
	rem := off + footprint(need)
	remSize := end - rem - format.Overhead

	h.putHeader(rem, format.Header{Size: remSize, Used: false, Next: h.next(off)})
	h.setNext(off, rem)
	if h.chain.top == off {
		h.chain.top = rem
	}
	h.place.carved(rem)
	h.stats.Splits++

	if ce := h.log.Check(zap.DebugLevel, "split block"); ce != nil {
		ce.Write(zap.Int("off", off), zap.Int("need", need), zap.Int("remainder", rem), zap.Int("remainderSize", remSize))
	}
}

// takeFree turns the free block at off into an allocation of need bytes.
func (h *Heap) takeFree(off, need int) {
	if h.strategy.splits() && h.canSplit(off, need) {
		h.split(off, need)
	}
	h.setSize(off, need)
	h.setUsed(off, true)
}
