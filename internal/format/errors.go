package format

import "github.com/cockroachdb/errors"

var (
	// ErrTruncated indicates the buffer lacked the bytes required for a header.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrMisaligned indicates a header or payload offset off the word grid.
	ErrMisaligned = errors.New("format: misaligned offset")
	// ErrBadSize indicates a header whose size field cannot describe a block.
	ErrBadSize = errors.New("format: invalid block size")
)
