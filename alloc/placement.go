package alloc

// placer is the strategy-specific half of the heap. The facade owns headers
// and the physical chain; placers own search and any auxiliary index, and are
// told about every change to the set of free blocks.
type placer interface {
	// find returns the header offset of a free block with size >= need, or
	// none. Index-based placers unlink the block before returning it.
	find(need int) int

	// chainFor returns the chain a fresh block of size need is appended to.
	chainFor(need int) *chain

	// carved is called for a free remainder created by a split.
	carved(off int)

	// released is called once the block at off is free, after coalescing.
	released(off int)

	// absorbed is called when the free block victim was merged into into.
	absorbed(victim, into int)

	// walk visits chains in order until fn returns false.
	walk(fn func(off int) bool)

	reset()
}

// newPlacer is the single place a strategy turns into behavior.
func newPlacer(h *Heap, s Strategy) placer {
	switch s {
	case NextFit:
		return &nextFit{physical: physical{h}, cursor: none}
	case BestFit:
		return &bestFit{physical{h}}
	case FreeList:
		return newFreeList(h)
	case Segregated:
		return newSegregated(h)
	default:
		return &firstFit{physical{h}}
	}
}

// physical is embedded by placers that search the heap's physical chain.
type physical struct{ h *Heap }

func (p physical) chainFor(int) *chain { return &p.h.chain }
func (physical) carved(int)            {}
func (physical) released(int)          {}
func (physical) absorbed(int, int)     {}
func (physical) reset()                {}

func (p physical) walk(fn func(off int) bool) {
	for off := p.h.chain.head; off != none; off = p.h.next(off) {
		if !fn(off) {
			return
		}
	}
}

func (p physical) fits(off, need int) bool {
	return !p.h.used(off) && p.h.size(off) >= need
}

// firstFit returns the first fitting block from the head.
type firstFit struct{ physical }

func (f *firstFit) find(need int) int {
	found := none
	f.walk(func(off int) bool {
		if f.fits(off, need) {
			found = off
			return false
		}
		return true
	})
	return found
}

// nextFit resumes where the previous search succeeded and wraps around to
// the head once.
type nextFit struct {
	physical
	cursor int
}

func (n *nextFit) find(need int) int {
	start := n.cursor
	if start == none {
		start = n.h.chain.head
	}
	if start == none {
		return none
	}
	off := start
	for {
		if n.fits(off, need) {
			n.cursor = off
			return off
		}
		if off = n.h.next(off); off == none {
			off = n.h.chain.head
		}
		if off == start {
			return none
		}
	}
}

func (n *nextFit) absorbed(victim, into int) {
	if n.cursor == victim {
		n.cursor = into
	}
}

func (n *nextFit) reset() { n.cursor = none }

// bestFit scans the whole chain for the smallest fitting block.
type bestFit struct{ physical }

func (b *bestFit) find(need int) int {
	best, waste := none, 0
	b.walk(func(off int) bool {
		if !b.fits(off, need) {
			return true
		}
		if w := b.h.size(off) - need; best == none || w < waste {
			best, waste = off, w
		}
		return true
	})
	return best
}
