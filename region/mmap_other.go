//go:build !linux && !darwin

package region

import "github.com/cockroachdb/errors"

// Mmap falls back to a Go slice capped at the requested capacity when
// anonymous reservations are not available.
type Mmap struct {
	*Slice
}

// NewMmap returns a slice-backed region limited to capacity bytes.
func NewMmap(capacity int) (*Mmap, error) {
	if capacity <= 0 {
		return nil, errors.Wrapf(ErrBadLength, "capacity %d", capacity)
	}
	return &Mmap{Slice: NewSlice(capacity)}, nil
}

// Capacity returns the byte limit.
func (m *Mmap) Capacity() int { return m.Limit() }
