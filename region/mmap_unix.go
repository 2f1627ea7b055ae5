//go:build linux || darwin

package region

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"
)

// Mmap is a region carved out of one anonymous mapping reserved up front.
// Pages past the break stay PROT_NONE until Extend commits them, so the base
// never moves and touching memory past the break faults.
type Mmap struct {
	mem       []byte // full reservation
	brk       int    // current break
	committed int    // bytes made readable/writable (page multiple)
	pageSize  int
}

// NewMmap reserves capacity bytes (rounded up to the page size) of address
// space.
func NewMmap(capacity int) (*Mmap, error) {
	if capacity <= 0 {
		return nil, errors.Wrapf(ErrBadLength, "capacity %d", capacity)
	}
	pageSize := unix.Getpagesize()
	capacity = alignUp(capacity, pageSize)

	mem, err := unix.Mmap(
		-1,
		0,
		capacity,
		unix.PROT_NONE,
		unix.MAP_PRIVATE|unix.MAP_ANON|unix.MAP_NORESERVE,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "region: reserve %d bytes", capacity)
	}
	return &Mmap{mem: mem, pageSize: pageSize}, nil
}

// Extend advances the break by n bytes, committing whole pages as needed.
func (m *Mmap) Extend(n int) (int, error) {
	if m.mem == nil {
		return 0, ErrClosed
	}
	if n <= 0 {
		return 0, errors.Wrapf(ErrBadLength, "extend by %d", n)
	}
	base := m.brk
	if n > len(m.mem)-base {
		return 0, errors.Wrapf(ErrExhausted, "break %d + %d exceeds reservation %d", base, n, len(m.mem))
	}
	end := base + n
	if end > m.committed {
		commit := min(alignUp(end, m.pageSize), len(m.mem))
		if err := unix.Mprotect(m.mem[m.committed:commit], unix.PROT_READ|unix.PROT_WRITE); err != nil {
			return 0, errors.Wrapf(err, "region: commit [%d, %d)", m.committed, commit)
		}
		m.committed = commit
	}
	m.brk = end
	return base, nil
}

func (m *Mmap) Bytes() []byte { return m.mem[:m.brk] }

func (m *Mmap) Len() int { return m.brk }

// Capacity returns the size of the reservation.
func (m *Mmap) Capacity() int { return len(m.mem) }

// Reset zeroes the used bytes, hands the pages back to the kernel and
// re-protects the whole reservation.
func (m *Mmap) Reset() error {
	if m.mem == nil {
		return ErrClosed
	}
	if m.committed == 0 {
		m.brk = 0
		return nil
	}
	clear(m.mem[:m.brk])
	committed := m.mem[:m.committed]
	// Advisory only; the clear above is what guarantees zeroed pages.
	_ = unix.Madvise(committed, unix.MADV_DONTNEED)
	if err := unix.Mprotect(committed, unix.PROT_NONE); err != nil {
		return errors.Wrap(err, "region: decommit")
	}
	m.brk = 0
	m.committed = 0
	return nil
}

func (m *Mmap) Close() error {
	if m.mem == nil {
		return nil
	}
	err := unix.Munmap(m.mem)
	if errors.Is(err, unix.EINVAL) {
		// Treat double-unmap as no-op for callers.
		err = nil
	}
	m.mem = nil
	m.brk = 0
	m.committed = 0
	return err
}
