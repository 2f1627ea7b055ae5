package region

import (
	"math"
	"math/bits"
	"slices"

	"github.com/cockroachdb/errors"
)

// Slice is a region backed by a Go byte slice.
type Slice struct {
	data   []byte
	limit  int
	closed bool
}

// MaxSliceLen caps every slice region, limited or not, below the largest
// allocation the runtime will attempt.
var MaxSliceLen = maxSliceLen()

func maxSliceLen() int {
	if bits.UintSize == 32 {
		return math.MaxInt32
	}
	return math.MaxInt >> 16
}

// NewSlice creates a slice region that refuses to grow past limit bytes.
// A limit <= 0 means MaxSliceLen.
func NewSlice(limit int) *Slice {
	if limit <= 0 || limit > MaxSliceLen {
		limit = MaxSliceLen
	}
	return &Slice{limit: limit}
}

// Extend appends n zero bytes.
func (s *Slice) Extend(n int) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if n <= 0 {
		return 0, errors.Wrapf(ErrBadLength, "extend by %d", n)
	}
	base := len(s.data)
	if n > s.limit-base {
		return 0, errors.Wrapf(ErrExhausted, "break %d + %d exceeds limit %d", base, n, s.limit)
	}
	s.data = slices.Grow(s.data, n)[:base+n]
	clear(s.data[base:])
	return base, nil
}

func (s *Slice) Bytes() []byte { return s.data }

func (s *Slice) Len() int { return len(s.data) }

// Limit returns the maximum break.
func (s *Slice) Limit() int { return s.limit }

// Reset zeroes the region and moves the break back to zero. Capacity is kept.
func (s *Slice) Reset() error {
	if s.closed {
		return ErrClosed
	}
	clear(s.data)
	s.data = s.data[:0]
	return nil
}

func (s *Slice) Close() error {
	s.data = nil
	s.closed = true
	return nil
}
