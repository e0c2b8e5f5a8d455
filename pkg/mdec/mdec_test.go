package mdec

import (
	"sort"
	"testing"

	"github.com/q191201771/naza/pkg/assert"
)

func TestReverseZigZag_IsBijection(t *testing.T) {
	seen := make([]int, 0, 64)
	for pos := 0; pos < 64; pos++ {
		seen = append(seen, ReverseZigZag[pos])
	}
	sort.Ints(seen)
	for i, v := range seen {
		if v != i {
			t.Fatalf("sorted ReverseZigZag[%d] = %d, want %d", i, v, i)
		}
	}

	for pos := 0; pos < 64; pos++ {
		if ZigZag[ReverseZigZag[pos]] != pos {
			t.Errorf("ZigZag is not the inverse at scan position %d", pos)
		}
	}
}

func TestTransform_DCFastPathMatchesFullIDCT(t *testing.T) {
	for v := int32(-1024); v <= 1024; v += 7 {
		var fast, full Block
		fast[0], full[0] = v, v

		Transform(&fast)
		IDCT(&full)

		if fast != full {
			t.Fatalf("DC %d: fast path %v differs from full IDCT %v", v, fast[:8], full[:8])
		}
		if !fast.IsUniform() {
			t.Fatalf("DC %d: block is not uniform", v)
		}
		assert.Equal(t, DCValue(v), fast[0])
	}
}

func TestTransform_SingleACMatchesFullIDCT(t *testing.T) {
	for _, index := range []int{1, 8, 9, 27, 63} {
		for _, v := range []int32{-300, -1, 1, 57, 511} {
			var fast, full Block
			fast[index], full[index] = v, v

			Transform(&fast)
			IDCT(&full)

			if fast != full {
				t.Fatalf("coefficient %d=%d: fast path differs from full IDCT", index, v)
			}
		}
	}
}

func TestTransform_ZeroBlock(t *testing.T) {
	var b Block
	Transform(&b)
	assert.Equal(t, 0, b.NonZero())
}

func TestTransform_FullPath(t *testing.T) {
	var b Block
	b[0] = 512
	b[1] = 100
	Transform(&b)
	if b.IsUniform() {
		t.Error("a block with an AC coefficient should not be uniform")
	}
	// Horizontal frequency only: every row is identical
	for y := 1; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if b[y*8+x] != b[x] {
				t.Fatalf("row %d differs from row 0 at column %d", y, x)
			}
		}
	}
	// Left half brighter than right half for a positive first harmonic
	if b[0] <= b[7] {
		t.Errorf("b[0]=%d should exceed b[7]=%d", b[0], b[7])
	}
}

func TestDCValue(t *testing.T) {
	// 1448/4096 twice is one eighth
	assert.Equal(t, int32(0), DCValue(0))
	assert.Equal(t, int32(128), DCValue(1024))
	assert.Equal(t, int32(-128), DCValue(-1024))
}

func TestCode_Word(t *testing.T) {
	tests := []struct {
		name string
		code Code
		word uint16
	}{
		{"eob", EndOfBlock(), 0xFE00},
		{"run 0 level 1", Code{Run: 0, Level: 1}, 0x0001},
		{"run 5 level -1", Code{Run: 5, Level: -1}, 5<<10 | 0x3FF},
		{"run 63 level -511", Code{Run: 63, Level: -511}, 63<<10 | 0x201},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.word, tt.code.Word())
			back := CodeFromWord(tt.word)
			assert.Equal(t, tt.code.Run, back.Run)
			assert.Equal(t, tt.code.Level, back.Level)
			assert.Equal(t, tt.code.EOB, back.EOB)
		})
	}
}

func TestCode_EndOfBlockAlias(t *testing.T) {
	c := Code{Run: 63, Level: -512}
	assert.Equal(t, EndOfBlockWord, c.Word())
	assert.Equal(t, true, CodeFromWord(c.Word()).EOB)
	if err := c.Validate(); err == nil {
		t.Error("Validate() should reject a code that packs to the end-of-block word")
	}
}

func TestCode_Validate(t *testing.T) {
	if err := (Code{Run: 3, Level: 2}).Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
	if err := EndOfBlock().Validate(); err != nil {
		t.Errorf("Validate(EOB) = %v, want nil", err)
	}
	for _, c := range []Code{{Run: 0, Level: 0}, {Run: 64, Level: 1}, {Run: 1, Level: 600}} {
		if err := c.Validate(); err == nil {
			t.Errorf("Validate(%v) should fail", c)
		}
	}
}

func TestDequantize(t *testing.T) {
	assert.Equal(t, int32(20), Dequantize(10, 0, 8))
	// scan position 1 is raster 1: Q=16
	assert.Equal(t, int32(4), Dequantize(1, 1, 2))
	assert.Equal(t, int32(-16), Dequantize(-1, 1, 8))
	// last position, Q=83
	assert.Equal(t, int32((3*83*5)>>3), Dequantize(3, 63, 5))
}

func TestMacroblockDims(t *testing.T) {
	w, h := MacroblockDims(320, 240)
	assert.Equal(t, 20, w)
	assert.Equal(t, 15, h)
	w, h = MacroblockDims(17, 1)
	assert.Equal(t, 2, w)
	assert.Equal(t, 1, h)
}
