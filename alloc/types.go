package alloc

import (
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/joshuapare/heapkit/region/dirty"
)

// Ptr is a payload handle: the region offset of the first payload byte.
// The zero value never addresses a payload.
type Ptr int

// Nil is the pointer returned alongside every error.
const Nil Ptr = 0

// DirtyTracker receives the byte ranges of every header write.
type DirtyTracker = dirty.DirtyTracker

// Strategy selects how free blocks are searched.
type Strategy int

const (
	FirstFit Strategy = iota
	NextFit
	BestFit
	FreeList
	Segregated
)

// Strategies lists every strategy in declaration order.
var Strategies = []Strategy{FirstFit, NextFit, BestFit, FreeList, Segregated}

var strategyNames = [...]string{
	FirstFit:   "first-fit",
	NextFit:    "next-fit",
	BestFit:    "best-fit",
	FreeList:   "free-list",
	Segregated: "segregated",
}

func (s Strategy) String() string {
	if !s.valid() {
		return "unknown"
	}
	return strategyNames[s]
}

func (s Strategy) valid() bool { return s >= FirstFit && s <= Segregated }

// splits reports whether oversized blocks are trimmed on reuse.
func (s Strategy) splits() bool { return s != Segregated }

// coalesces reports whether released blocks merge with a free successor.
func (s Strategy) coalesces() bool { return s != Segregated }

// ParseStrategy accepts a strategy name as printed by String. Case, '_' and
// '-' are ignored, so "FirstFit" and "first_fit" work too.
func ParseStrategy(name string) (Strategy, error) {
	norm := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(name))
	for _, s := range Strategies {
		if strings.ReplaceAll(s.String(), "-", "") == norm {
			return s, nil
		}
	}
	return 0, errors.Wrapf(ErrBadStrategy, "%q", name)
}

// Config configures a Heap.
type Config struct {
	// Strategy is the placement strategy.
	Strategy Strategy

	// CheckReleases keeps a set of live pointers so Free can reject foreign
	// pointers and double releases before touching any header.
	CheckReleases bool

	// Logger receives heap events. Nil discards them.
	Logger *zap.Logger

	// Dirty, when set, is told about every header write. Used with
	// file-backed regions.
	Dirty DirtyTracker
}

// DefaultConfig is used by New when no config is given.
var DefaultConfig = Config{
	Strategy:      FirstFit,
	CheckReleases: true,
}

// Block describes one block as seen by Walk.
type Block struct {
	Offset int  // Header offset in the region
	Ptr    Ptr  // Payload handle
	Size   int  // Payload size
	Used   bool // Allocated
	Next   int  // Next header in the chain, -1 for none
	Extent int  // Bytes from this header to the next physical one
	Class  int  // Size class in Segregated mode, -1 otherwise
}

// Slack returns the bytes in the block's extent not described by its size.
func (b Block) Slack() int { return b.Extent - footprint(b.Size) }
