package alloc

import (
	"io"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// WriteJSON writes a block map of the heap: identity, strategy, usage and
// one object per block in Walk order.
func (h *Heap) WriteJSON(out io.Writer) error {
	w := jwriter.NewWriter()
	obj := w.Object()
	h.writeJSONHeader(&obj)

	blocks := obj.Name("blocks").Array()
	h.Walk(func(b Block) bool {
		bo := blocks.Object()
		bo.Name("offset").Int(b.Offset)
		bo.Name("ptr").Int(int(b.Ptr))
		bo.Name("size").Int(b.Size)
		bo.Name("used").Bool(b.Used)
		bo.Name("next").Int(b.Next)
		bo.Name("extent").Int(b.Extent)
		if b.Class >= 0 {
			bo.Name("class").Int(b.Class)
		}
		bo.End()
		return true
	})
	blocks.End()
	obj.End()

	if err := w.Error(); err != nil {
		return err
	}
	_, err := out.Write(w.Bytes())
	return err
}

func (h *Heap) writeJSONHeader(obj *jwriter.ObjectState) {
	u := h.Usage()
	obj.Name("heap").String(h.id.String())
	obj.Name("strategy").String(h.strategy.String())
	obj.Name("regionBytes").Int(u.RegionBytes)
	obj.Name("blockCount").Int(u.Blocks)
	obj.Name("usedBytes").Int(u.UsedBytes)
	obj.Name("freeBytes").Int(u.FreeBytes)
	obj.Name("largestFree").Int(u.LargestFree)
	obj.Name("slack").Int(u.Slack)
}
