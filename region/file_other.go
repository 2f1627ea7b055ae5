//go:build !linux && !darwin

package region

import "github.com/cockroachdb/errors"

// File is unavailable without shared file mappings.
type File struct{}

// OpenFile reports ErrUnsupported on this platform.
func OpenFile(path string, capacity int) (*File, error) {
	return nil, errors.Wrapf(ErrUnsupported, "file region %s", path)
}

func (r *File) Extend(int) (int, error) { return 0, ErrUnsupported }
func (r *File) Bytes() []byte           { return nil }
func (r *File) Len() int                { return 0 }
func (r *File) FD() int                 { return -1 }
func (r *File) Reset() error            { return ErrUnsupported }
func (r *File) Close() error            { return nil }
