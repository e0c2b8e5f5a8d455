package bits

import (
	"errors"
	"testing"

	"github.com/hansbonini/strtools/pkg/common"
	"github.com/q191201771/naza/pkg/assert"
)

func TestReader_BigEndian(t *testing.T) {
	data := []byte{0b10110011, 0b01011100, 0xFF}
	r, err := NewReader(data, 0, len(data), BigEndian)
	if err != nil {
		t.Fatalf("NewReader() failed: %v", err)
	}

	v, err := r.ReadUnsigned(3)
	assert.Equal(t, nil, err)
	assert.Equal(t, uint32(0b101), v)

	v, err = r.PeekUnsigned(7)
	assert.Equal(t, nil, err)
	assert.Equal(t, uint32(0b1001101), v)
	assert.Equal(t, 3, r.Position())

	v, err = r.ReadUnsigned(13)
	assert.Equal(t, nil, err)
	assert.Equal(t, uint32(0b1001101011100), v)
	assert.Equal(t, 8, r.Remaining())

	s, err := r.ReadSigned(8)
	assert.Equal(t, nil, err)
	assert.Equal(t, int32(-1), s)

	_, err = r.ReadUnsigned(1)
	if !errors.Is(err, ErrEndOfData) || !errors.Is(err, common.ErrInsufficientData) {
		t.Errorf("read past end error = %v, want ErrEndOfData", err)
	}
}

func TestReader_LittleEndianWords(t *testing.T) {
	// Word 0x3800 is stored as 00 38
	data := []byte{0x00, 0x38, 0x34, 0x12}
	r, err := NewReader(data, 0, len(data), LittleEndianWords)
	if err != nil {
		t.Fatalf("NewReader() failed: %v", err)
	}

	v, err := r.ReadUnsigned(16)
	assert.Equal(t, nil, err)
	assert.Equal(t, uint32(0x3800), v)

	v, err = r.ReadUnsigned(4)
	assert.Equal(t, nil, err)
	assert.Equal(t, uint32(0x1), v)

	v, err = r.ReadUnsigned(12)
	assert.Equal(t, nil, err)
	assert.Equal(t, uint32(0x234), v)
}

func TestReader_Offsets(t *testing.T) {
	data := []byte{0xFF, 0xFF, 0x80, 0x00, 0xAA}

	if _, err := NewReader(data, 1, 2, LittleEndianWords); err == nil {
		t.Error("NewReader() should reject an odd offset for word streams")
	}
	if _, err := NewReader(data, 4, 2, BigEndian); err == nil {
		t.Error("NewReader() should reject a range past the data")
	}

	// odd trailing byte is dropped for word streams
	r, err := NewReader(data, 2, 3, LittleEndianWords)
	if err != nil {
		t.Fatalf("NewReader() failed: %v", err)
	}
	assert.Equal(t, 16, r.Remaining())
	v, _ := r.ReadUnsigned(16)
	assert.Equal(t, uint32(0x0080), v)
}

func TestReader_SkipAndReset(t *testing.T) {
	r, _ := NewReader([]byte{0x0F, 0xF0}, 0, 2, BigEndian)

	if err := r.Skip(4); err != nil {
		t.Fatalf("Skip() failed: %v", err)
	}
	v, _ := r.ReadUnsigned(8)
	assert.Equal(t, uint32(0xFF), v)

	if err := r.Skip(5); !errors.Is(err, ErrEndOfData) {
		t.Errorf("Skip() past end = %v, want ErrEndOfData", err)
	}
	if err := r.Skip(-1); err == nil {
		t.Error("Skip(-1) should fail")
	}

	r.Reset()
	assert.Equal(t, 0, r.Position())
	v, _ = r.ReadUnsigned(0)
	assert.Equal(t, uint32(0), v)
	if _, err := r.ReadUnsigned(33); err == nil {
		t.Error("ReadUnsigned(33) should fail")
	}
}

func TestSignExtend(t *testing.T) {
	tests := []struct {
		value    uint32
		n        int
		expected int32
	}{
		{0x3FF, 10, -1},
		{0x200, 10, -512},
		{0x1FF, 10, 511},
		{0x000, 10, 0},
		{0x80, 8, -128},
		{0xFFFFFFFF, 32, -1},
	}

	for _, tt := range tests {
		if got := SignExtend(tt.value, tt.n); got != tt.expected {
			t.Errorf("SignExtend(0x%X, %d) = %d, want %d", tt.value, tt.n, got, tt.expected)
		}
	}
}

func TestWriter_RoundTrip(t *testing.T) {
	for _, order := range []ByteOrder{BigEndian, LittleEndianWords} {
		t.Run(order.String(), func(t *testing.T) {
			w := NewWriter(order)
			w.WriteUnsigned(0x3800, 16)
			w.WriteSigned(-300, 10)
			w.WriteUnsigned(0b10, 2)
			w.WriteUnsigned(1, 1)
			assert.Equal(t, 29, w.Len())

			data := w.Bytes()
			r, err := NewReader(data, 0, len(data), order)
			if err != nil {
				t.Fatalf("NewReader() failed: %v", err)
			}

			v, _ := r.ReadUnsigned(16)
			assert.Equal(t, uint32(0x3800), v)
			s, _ := r.ReadSigned(10)
			assert.Equal(t, int32(-300), s)
			v, _ = r.ReadUnsigned(2)
			assert.Equal(t, uint32(0b10), v)
			v, _ = r.ReadUnsigned(1)
			assert.Equal(t, uint32(1), v)
		})
	}
}

func TestWriter_LittleEndianLayout(t *testing.T) {
	w := NewWriter(LittleEndianWords)
	w.WriteUnsigned(0x3800, 16)
	w.WriteUnsigned(0xAB, 8)

	data := w.Bytes()
	expected := []byte{0x00, 0x38, 0x00, 0xAB}
	if string(data) != string(expected) {
		t.Errorf("Bytes() = % X, want % X", data, expected)
	}
}
