package alloc

import "go.uber.org/zap"

// coalesce merges the block at off with its physically next block when that
// one is free. Only one neighbor is absorbed per release, and only forward.
//
// The merged size is the sum of both sizes; the absorbed header becomes slack
// inside the merged block's extent.
func (h *Heap) coalesce(off int) {
	nxt := h.next(off)
	if nxt == none || h.used(nxt) {
		return
	}
	merged := h.size(off) + h.size(nxt)
	h.setSize(off, merged)
	h.setNext(off, h.next(nxt))
	if h.chain.top == nxt {
		h.chain.top = off
	}
	h.place.absorbed(nxt, off)
	h.stats.Coalesces++

	if ce := h.log.Check(zap.DebugLevel, "coalesced block"); ce != nil {
		ce.Write(zap.Int("off", off), zap.Int("absorbed", nxt), zap.Int("size", merged))
	}
}
