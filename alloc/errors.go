package alloc

import "github.com/cockroachdb/errors"

var (
	// ErrOutOfMemory indicates the region provider could not supply more memory.
	ErrOutOfMemory = errors.New("alloc: out of memory")

	// ErrInvalidRelease indicates Free was given a pointer that is not a live
	// allocation: foreign, already released, out of bounds or misaligned.
	ErrInvalidRelease = errors.New("alloc: invalid release")

	// ErrInvalidSize indicates a request for fewer than one byte.
	ErrInvalidSize = errors.New("alloc: invalid size")

	// ErrCorrupt indicates block headers that do not form a valid heap.
	ErrCorrupt = errors.New("alloc: corrupt heap")

	// ErrBadStrategy indicates an unknown placement strategy.
	ErrBadStrategy = errors.New("alloc: unknown strategy")
)

func corruptf(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrCorrupt)
}
