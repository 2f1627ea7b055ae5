//go:build linux || darwin

package region

import (
	"os"

	"github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"
)

// File is a region backed by a shared mapping of a file. The mapping spans
// the whole capacity from the start; the file length is the break and only
// bytes below it may be touched.
type File struct {
	f   *os.File
	mem []byte
	brk int
}

// OpenFile maps path (created if missing) with room for capacity bytes. An
// existing file keeps its contents and its length becomes the break.
func OpenFile(path string, capacity int) (*File, error) {
	if capacity <= 0 {
		return nil, errors.Wrapf(ErrBadLength, "capacity %d", capacity)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, err
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	capacity = alignUp(capacity, unix.Getpagesize())
	if st.Size() > int64(capacity) {
		_ = f.Close()
		return nil, errors.Wrapf(ErrExhausted, "file %s holds %d bytes, capacity %d", path, st.Size(), capacity)
	}

	mem, err := unix.Mmap(
		int(f.Fd()),
		0,
		capacity,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_SHARED,
	)
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, "mmap failed: %s", path)
	}

	return &File{f: f, mem: mem, brk: int(st.Size())}, nil
}

// Extend grows the file by n zero bytes.
func (r *File) Extend(n int) (int, error) {
	if r.f == nil {
		return 0, ErrClosed
	}
	if n <= 0 {
		return 0, errors.Wrapf(ErrBadLength, "extend by %d", n)
	}
	base := r.brk
	if n > len(r.mem)-base {
		return 0, errors.Wrapf(ErrExhausted, "break %d + %d exceeds capacity %d", base, n, len(r.mem))
	}
	if err := r.f.Truncate(int64(base + n)); err != nil {
		return 0, errors.Wrap(err, "region: failed to grow file")
	}
	r.brk = base + n
	return base, nil
}

func (r *File) Bytes() []byte { return r.mem[:r.brk] }

func (r *File) Len() int { return r.brk }

// FD returns the descriptor of the backing file, -1 once closed.
func (r *File) FD() int {
	if r.f == nil {
		return -1
	}
	return int(r.f.Fd())
}

// Reset truncates the file to zero length. Pages past EOF read back as zero
// once the file grows again.
func (r *File) Reset() error {
	if r.f == nil {
		return ErrClosed
	}
	if err := r.f.Truncate(0); err != nil {
		return errors.Wrap(err, "region: failed to truncate file")
	}
	r.brk = 0
	return nil
}

func (r *File) Close() error {
	var err error
	if r.mem != nil {
		_ = unix.Munmap(r.mem)
		r.mem = nil
	}
	if r.f != nil {
		err = r.f.Close()
		r.f = nil
	}
	r.brk = 0
	return err
}
