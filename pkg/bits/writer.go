package bits

// Writer builds a bitstream in the same layout Reader consumes
type Writer struct {
	order ByteOrder
	buf   []byte
	bits  int
}

// NewWriter creates an empty writer
func NewWriter(order ByteOrder) *Writer {
	return &Writer{order: order}
}

// Len returns the number of bits written
func (w *Writer) Len() int {
	return w.bits
}

// WriteUnsigned appends the low n bits of value, most significant first
func (w *Writer) WriteUnsigned(value uint32, n int) {
	for i := n - 1; i >= 0; i-- {
		if w.bits&7 == 0 {
			w.buf = append(w.buf, 0)
		}
		if value&(1<<uint(i)) != 0 {
			w.buf[w.bits>>3] |= 0x80 >> uint(w.bits&7)
		}
		w.bits++
	}
}

// WriteSigned appends value as an n-bit two's complement number
func (w *Writer) WriteSigned(value int32, n int) {
	w.WriteUnsigned(uint32(value)&(1<<uint(n)-1), n)
}

// Bytes returns the stream zero padded to a byte, or a word for LittleEndianWords
func (w *Writer) Bytes() []byte {
	out := make([]byte, len(w.buf))
	copy(out, w.buf)
	if w.order != LittleEndianWords {
		return out
	}
	if len(out)%2 != 0 {
		out = append(out, 0)
	}
	for i := 0; i < len(out); i += 2 {
		out[i], out[i+1] = out[i+1], out[i]
	}
	return out
}
