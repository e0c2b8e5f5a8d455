// Package bits reads and writes the MSB-first bitstreams used by PlayStation
// movie frames, either as straight big-endian bytes or as little-endian
// 16-bit words.
package bits

import (
	"fmt"

	"github.com/hansbonini/strtools/pkg/common"
)

// ByteOrder selects how bytes are fed to the bit cursor
type ByteOrder int

const (
	// BigEndian consumes bytes in storage order.
	BigEndian ByteOrder = iota
	// LittleEndianWords consumes 16-bit little-endian words, high bit first:
	// byte 1 is read before byte 0.
	LittleEndianWords
)

func (o ByteOrder) String() string {
	if o == LittleEndianWords {
		return "le16"
	}
	return "be"
}

// MaxBits is the widest single read supported
const MaxBits = 32

// ErrEndOfData is returned when a read would pass the declared length.
var ErrEndOfData = fmt.Errorf("%w: end of bitstream", common.ErrInsufficientData)

// Reader is a bit cursor over a byte slice
type Reader struct {
	data  []byte
	order ByteOrder
	start int // first byte of the stream in data
	size  int // usable bytes
	pos   int // bits consumed
}

// NewReader creates a reader over data[offset:offset+length].
// For LittleEndianWords the offset must be even and a trailing odd byte is ignored.
func NewReader(data []byte, offset, length int, order ByteOrder) (*Reader, error) {
	if offset < 0 || length < 0 || offset+length > len(data) {
		return nil, fmt.Errorf("bit reader range [%d,%d) outside %d bytes", offset, offset+length, len(data))
	}
	if order == LittleEndianWords {
		if offset%2 != 0 {
			return nil, fmt.Errorf("bit reader offset %d is not word aligned", offset)
		}
		length &^= 1
	}
	return &Reader{data: data, order: order, start: offset, size: length}, nil
}

// Reset rewinds to the first bit
func (r *Reader) Reset() {
	r.pos = 0
}

// Position returns the number of bits consumed
func (r *Reader) Position() int {
	return r.pos
}

// Remaining returns the number of unread bits
func (r *Reader) Remaining() int {
	return r.size*8 - r.pos
}

// ByteOrder returns the configured byte order
func (r *Reader) ByteOrder() ByteOrder {
	return r.order
}

func (r *Reader) byteAt(i int) byte {
	if r.order == LittleEndianWords {
		i ^= 1
	}
	return r.data[r.start+i]
}

func (r *Reader) peek(n int) (uint32, error) {
	if n < 0 || n > MaxBits {
		return 0, fmt.Errorf("bit count %d outside 0..%d", n, MaxBits)
	}
	if n > r.Remaining() {
		return 0, ErrEndOfData
	}

	var value uint32
	pos := r.pos
	for n > 0 {
		current := r.byteAt(pos >> 3)

		remaining := 8 - (pos & 7) // Remaining bits in byte
		read := n
		if remaining < n {
			read = remaining
		}

		shift := remaining - read
		mask := byte(0xFF >> (8 - read))

		value = (value << read) | uint32((current>>shift)&mask)

		pos += read
		n -= read
	}

	return value, nil
}

// PeekUnsigned returns the next n bits without consuming them
func (r *Reader) PeekUnsigned(n int) (uint32, error) {
	return r.peek(n)
}

// ReadUnsigned consumes n bits
func (r *Reader) ReadUnsigned(n int) (uint32, error) {
	value, err := r.peek(n)
	if err != nil {
		return 0, err
	}
	r.pos += n
	return value, nil
}

// ReadSigned consumes n bits as a two's complement value
func (r *Reader) ReadSigned(n int) (int32, error) {
	value, err := r.ReadUnsigned(n)
	if err != nil || n == 0 {
		return 0, err
	}
	return SignExtend(value, n), nil
}

// Skip consumes n bits
func (r *Reader) Skip(n int) error {
	if n < 0 {
		return fmt.Errorf("cannot skip %d bits", n)
	}
	if n > r.Remaining() {
		return ErrEndOfData
	}
	r.pos += n
	return nil
}

// SignExtend interprets the low n bits of value as two's complement
func SignExtend(value uint32, n int) int32 {
	if n <= 0 || n >= 32 {
		return int32(value)
	}
	shift := 32 - n
	return int32(value<<shift) >> shift
}
