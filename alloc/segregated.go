package alloc

import "slices"

// segregated keeps one independent chain per size class. A class only ever
// holds blocks of exactly its size since blocks are neither split nor
// coalesced.
type segregated struct {
	h       *Heap
	buckets map[int]*chain
	classes []int // sorted keys of buckets
}

func newSegregated(h *Heap) *segregated {
	return &segregated{h: h, buckets: make(map[int]*chain)}
}

// find is first fit inside the request's own bucket. There is no
// fall-through to larger classes.
func (s *segregated) find(need int) int {
	c, ok := s.buckets[BucketOf(need)]
	if !ok {
		return none
	}
	for off := c.head; off != none; off = s.h.next(off) {
		if !s.h.used(off) && s.h.size(off) >= need {
			return off
		}
	}
	return none
}

func (s *segregated) chainFor(need int) *chain {
	class := BucketOf(need)
	if c, ok := s.buckets[class]; ok {
		return c
	}
	c := &chain{head: none, top: none}
	s.buckets[class] = c
	i, _ := slices.BinarySearch(s.classes, class)
	s.classes = slices.Insert(s.classes, i, class)
	return c
}

func (s *segregated) carved(int)        {}
func (s *segregated) released(int)      {}
func (s *segregated) absorbed(int, int) {}

// walk visits buckets by ascending class.
func (s *segregated) walk(fn func(off int) bool) {
	for _, class := range s.classes {
		if !s.walkBucket(class, fn) {
			return
		}
	}
}

func (s *segregated) walkBucket(class int, fn func(off int) bool) bool {
	c := s.bucket(class)
	if c == nil {
		return true
	}
	for off := c.head; off != none; off = s.h.next(off) {
		if !fn(off) {
			return false
		}
	}
	return true
}

// bucket returns the chain for class, nil if nothing was ever carved for it.
func (s *segregated) bucket(class int) *chain { return s.buckets[class] }

func (s *segregated) reset() {
	clear(s.buckets)
	s.classes = s.classes[:0]
}
