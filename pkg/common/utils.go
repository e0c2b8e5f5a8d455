package common

import (
	"encoding/binary"

	"github.com/q191201771/naza/pkg/bele"
)

// Uint16LE reads a little-endian uint16 at offset, or 0 when out of bounds.
// bele only reads little-endian as uint32.
func Uint16LE(data []byte, offset int) uint16 {
	if offset < 0 || offset+2 > len(data) {
		return 0
	}
	return binary.LittleEndian.Uint16(data[offset:])
}

// Uint32LE reads a little-endian uint32 at offset, or 0 when out of bounds
func Uint32LE(data []byte, offset int) uint32 {
	if offset < 0 || offset+4 > len(data) {
		return 0
	}
	return bele.LeUint32(data[offset:])
}

// Uint32BE reads a big-endian uint32 at offset, or 0 when out of bounds
func Uint32BE(data []byte, offset int) uint32 {
	if offset < 0 || offset+4 > len(data) {
		return 0
	}
	return bele.BeUint32(data[offset:])
}

// IsAllZero reports whether every byte of data is zero
func IsAllZero(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}
	return true
}
