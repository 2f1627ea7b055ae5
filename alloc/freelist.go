package alloc

import "container/list"

// freeList keeps every free block, in release order, on an explicit list and
// searches only that list. Blocks are indexed by header offset so absorbed
// neighbors can be unlinked without a scan.
type freeList struct {
	physical
	l     *list.List
	nodes map[int]*list.Element
}

func newFreeList(h *Heap) *freeList {
	return &freeList{
		physical: physical{h},
		l:        list.New(),
		nodes:    make(map[int]*list.Element),
	}
}

// find is first fit over the list; the block found is removed from it.
func (f *freeList) find(need int) int {
	for e := f.l.Front(); e != nil; e = e.Next() {
		off := e.Value.(int)
		if f.h.size(off) >= need {
			f.remove(off)
			return off
		}
	}
	return none
}

func (f *freeList) carved(off int)   { f.push(off) }
func (f *freeList) released(off int) { f.push(off) }

func (f *freeList) absorbed(victim, _ int) { f.remove(victim) }

func (f *freeList) reset() {
	f.l.Init()
	clear(f.nodes)
}

// Len returns the number of free blocks on the list.
func (f *freeList) Len() int { return f.l.Len() }

// offsets returns the list in order.
func (f *freeList) offsets() []int {
	out := make([]int, 0, f.l.Len())
	for e := f.l.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(int))
	}
	return out
}

func (f *freeList) push(off int) {
	if _, ok := f.nodes[off]; ok {
		return
	}
	f.nodes[off] = f.l.PushBack(off)
}

func (f *freeList) remove(off int) {
	if e, ok := f.nodes[off]; ok {
		f.l.Remove(e)
		delete(f.nodes, off)
	}
}
