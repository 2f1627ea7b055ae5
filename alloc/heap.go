package alloc

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/region"
)

// maxRequest bounds Alloc so that footprint arithmetic cannot overflow.
const maxRequest = math.MaxInt / 2

// Heap is an allocator over one region. See the package documentation for
// the strategies and their policies.
type Heap struct {
	id     uuid.UUID
	region region.Provider
	dt     DirtyTracker
	log    *zap.Logger

	strategy      Strategy
	place         placer
	chain         chain // physical chain; unused in Segregated mode
	checkReleases bool
	live          map[Ptr]struct{}

	stats Stats

	// Test hook: called with the byte count before the region is extended.
	onGrow func(n int)
}

// New creates a heap on p. A nil cfg means DefaultConfig.
//
// If p already holds blocks (a reopened file region, for instance) the heap
// adopts them: chains, free list and buckets are rebuilt by walking the
// headers, and malformed headers yield ErrCorrupt. Adopting a region with a
// strategy other than the one that built it is a precondition violation:
// the result is undefined.
func New(p region.Provider, cfg *Config) (*Heap, error) {
	if cfg == nil {
		cfg = &DefaultConfig
	}
	if !cfg.Strategy.valid() {
		return nil, errors.Wrapf(ErrBadStrategy, "strategy %d", int(cfg.Strategy))
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	h := &Heap{
		id:            uuid.New(),
		region:        p,
		dt:            cfg.Dirty,
		strategy:      cfg.Strategy,
		chain:         emptyChain(),
		checkReleases: cfg.CheckReleases,
		live:          make(map[Ptr]struct{}),
	}
	h.log = logger.With(zap.String("heap", h.id.String()))
	h.place = newPlacer(h, h.strategy)

	if p.Len() > 0 {
		if err := h.rebuild(); err != nil {
			return nil, err
		}
		h.log.Info("adopted region",
			zap.Stringer("strategy", h.strategy),
			zap.Int("bytes", p.Len()),
			zap.Int("live", len(h.live)),
		)
	}
	return h, nil
}

// ID returns the heap's instance id, as used in its log entries.
func (h *Heap) ID() uuid.UUID { return h.id }

// Strategy returns the active placement strategy.
func (h *Heap) Strategy() Strategy { return h.strategy }

// Region returns the underlying provider.
func (h *Heap) Region() region.Provider { return h.region }

// Init resets the heap and switches it to strategy s.
func (h *Heap) Init(s Strategy) error {
	if !s.valid() {
		return errors.Wrapf(ErrBadStrategy, "strategy %d", int(s))
	}
	if err := h.Reset(); err != nil {
		return err
	}
	h.strategy = s
	h.place = newPlacer(h, s)
	return nil
}

// Reset returns every byte to the provider and clears all allocator state,
// including pending ranges of a dirty tracker that has a Reset method.
// Pointers obtained before Reset are invalid afterwards.
func (h *Heap) Reset() error {
	if err := h.region.Reset(); err != nil {
		return errors.Wrap(err, "alloc: reset region")
	}
	if r, ok := h.dt.(interface{ Reset() }); ok {
		r.Reset()
	}
	h.chain = emptyChain()
	h.place.reset()
	clear(h.live)
	h.stats = Stats{}
	h.log.Debug("reset", zap.Stringer("strategy", h.strategy))
	return nil
}

// Alloc returns a pointer to at least size bytes. The block's size is size
// rounded up to the machine word.
func (h *Heap) Alloc(size int) (Ptr, error) {
	h.stats.AllocCalls++
	if size < 1 {
		h.stats.AllocFailed++
		return Nil, errors.Wrapf(ErrInvalidSize, "alloc %d bytes", size)
	}
	if size > maxRequest {
		h.stats.AllocFailed++
		return Nil, errors.Wrapf(ErrOutOfMemory, "alloc %d bytes", size)
	}
	need := format.Align(size)

	if off := h.place.find(need); off != none {
		h.takeFree(off, need)
		h.stats.AllocReused++
		return h.handOut(off), nil
	}

	off, err := h.grow(need)
	if err != nil {
		h.stats.AllocFailed++
		return Nil, err
	}
	h.stats.AllocGrown++
	return h.handOut(off), nil
}

func (h *Heap) handOut(off int) Ptr {
	p := ptrOf(off)
	if h.checkReleases {
		h.live[p] = struct{}{}
	}
	return p
}

// grow extends the region by the footprint of need and appends a used block
// to the chain serving need.
func (h *Heap) grow(need int) (int, error) {
	n := footprint(need)
	if h.onGrow != nil {
		h.onGrow(n)
	}
	off, err := h.region.Extend(n)
	if err != nil {
		h.log.Warn("region exhausted", zap.Int("need", need), zap.Int("regionBytes", h.region.Len()), zap.Error(err))
		return none, errors.Mark(errors.Wrapf(err, "alloc: grow by %d bytes", n), ErrOutOfMemory)
	}

	h.putHeader(off, format.Header{Size: need, Used: true, Next: none})
	c := h.place.chainFor(need)
	if c.top != none {
		h.setNext(c.top, off)
	} else {
		c.head = off
	}
	c.top = off

	h.stats.GrowCalls++
	h.stats.GrowBytes += int64(n)
	if ce := h.log.Check(zap.DebugLevel, "grew region"); ce != nil {
		ce.Write(zap.Int("off", off), zap.Int("bytes", n), zap.Int("regionBytes", h.region.Len()))
	}
	return off, nil
}

// Free releases p. Pointers that are out of bounds, misaligned, not live or
// already free are rejected with ErrInvalidRelease before any header is
// written.
func (h *Heap) Free(p Ptr) error {
	h.stats.FreeCalls++
	off, err := h.checkRelease(p)
	if err != nil {
		h.stats.FreeRejected++
		h.log.Warn("invalid release", zap.Int("ptr", int(p)), zap.Error(err))
		return err
	}

	if h.strategy.coalesces() {
		h.coalesce(off)
	}
	h.setUsed(off, false)
	delete(h.live, p)
	h.place.released(off)
	return nil
}

func (h *Heap) checkRelease(p Ptr) (int, error) {
	off, err := h.headerOf(p)
	if err != nil {
		return none, err
	}
	if h.checkReleases {
		if _, ok := h.live[p]; !ok {
			return none, errors.Wrapf(ErrInvalidRelease, "pointer %d is not live", p)
		}
	}
	if !h.used(off) {
		return none, errors.Wrapf(ErrInvalidRelease, "pointer %d already released", p)
	}
	return off, nil
}

// Walk visits every block until fn returns false. Outside Segregated mode
// this is the physical chain from the head; in Segregated mode buckets are
// visited by ascending class, each in chain order.
func (h *Heap) Walk(fn func(Block) bool) {
	h.place.walk(func(off int) bool { return fn(h.block(off)) })
}

// WalkBucket visits the chain of one size class. It visits nothing outside
// Segregated mode.
func (h *Heap) WalkBucket(class int, fn func(Block) bool) {
	s, ok := h.place.(*segregated)
	if !ok {
		return
	}
	s.walkBucket(class, func(off int) bool { return fn(h.block(off)) })
}

// BlockOf returns the block behind a payload pointer. The pointer must be
// in bounds and aligned; it need not be live.
func (h *Heap) BlockOf(p Ptr) (Block, error) {
	off, err := h.headerOf(p)
	if err != nil {
		return Block{}, err
	}
	return h.block(off), nil
}

// Payload returns the payload bytes of p as a view into the region, nil when
// p does not address a used block. The view is invalidated by region growth
// on providers that move memory.
func (h *Heap) Payload(p Ptr) []byte {
	off, err := h.headerOf(p)
	if err != nil || !h.used(off) {
		return nil
	}
	size := h.size(off)
	if size < 0 || size > h.region.Len()-int(p) {
		return nil
	}
	return h.region.Bytes()[int(p) : int(p)+size]
}
