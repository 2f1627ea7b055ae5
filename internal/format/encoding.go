package format

import "encoding/binary"

// Header words are stored little-endian at the native word width.

// PutWord writes v at off using WordSize bytes.
func PutWord(b []byte, off int, v uint64) {
	if WordSize == 8 {
		binary.LittleEndian.PutUint64(b[off:off+8], v)
		return
	}
	binary.LittleEndian.PutUint32(b[off:off+4], uint32(v))
}

// ReadWord reads a WordSize value at off.
func ReadWord(b []byte, off int) uint64 {
	if WordSize == 8 {
		return binary.LittleEndian.Uint64(b[off : off+8])
	}
	return uint64(binary.LittleEndian.Uint32(b[off : off+4]))
}
