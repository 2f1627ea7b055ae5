package region

import "github.com/cockroachdb/errors"

var (
	// ErrExhausted indicates the region cannot be extended any further.
	ErrExhausted = errors.New("region: address space exhausted")

	// ErrClosed indicates use of a provider after Close.
	ErrClosed = errors.New("region: provider closed")

	// ErrBadLength indicates a non-positive or oversized extension request.
	ErrBadLength = errors.New("region: invalid extension length")

	// ErrUnsupported indicates a provider kind unavailable on this platform.
	ErrUnsupported = errors.New("region: unsupported on this platform")
)
