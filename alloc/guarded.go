package alloc

import (
	"io"
	"sync"
)

// Guarded serializes every call on a Heap with one mutex. Each call is a
// single critical section, so a release and its coalescing can never
// interleave with another call.
type Guarded struct {
	mu sync.Mutex
	h  *Heap
}

// NewGuarded wraps h. The caller must stop using h directly.
func NewGuarded(h *Heap) *Guarded {
	return &Guarded{h: h}
}

func (g *Guarded) Alloc(size int) (Ptr, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.h.Alloc(size)
}

func (g *Guarded) Free(p Ptr) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.h.Free(p)
}

func (g *Guarded) Reset() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.h.Reset()
}

func (g *Guarded) Init(s Strategy) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.h.Init(s)
}

// Walk holds the lock for the whole traversal; fn must not call back into g.
func (g *Guarded) Walk(fn func(Block) bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.h.Walk(fn)
}

// Write copies data into the payload of p under the lock. It reports false
// when p is not a used block or data does not fit.
func (g *Guarded) Write(p Ptr, data []byte) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	buf := g.h.Payload(p)
	if buf == nil || len(data) > len(buf) {
		return false
	}
	copy(buf, data)
	return true
}

func (g *Guarded) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.h.Stats()
}

func (g *Guarded) Usage() Usage {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.h.Usage()
}

func (g *Guarded) Validate() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.h.Validate()
}

func (g *Guarded) WriteJSON(out io.Writer) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.h.WriteJSON(out)
}
