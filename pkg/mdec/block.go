package mdec

// Block is one 8x8 coefficient block in raster order. It holds
// dequantized coefficients until Transform turns them into samples.
type Block [64]int32

// Block order inside a macroblock
const (
	BlockCr = iota
	BlockCb
	BlockY1
	BlockY2
	BlockY3
	BlockY4
	BlocksPerMacroblock
)

// BlockNames labels the six blocks of a macroblock
var BlockNames = [BlocksPerMacroblock]string{"Cr", "Cb", "Y1", "Y2", "Y3", "Y4"}

// IsChroma reports whether block index i is a chrominance block
func IsChroma(i int) bool {
	return i == BlockCr || i == BlockCb
}

// Reset zeroes the block
func (b *Block) Reset() {
	*b = Block{}
}

// Fill sets every coefficient to v
func (b *Block) Fill(v int32) {
	for i := range b {
		b[i] = v
	}
}

// NonZero counts the non-zero coefficients
func (b *Block) NonZero() int {
	n := 0
	for _, c := range b {
		if c != 0 {
			n++
		}
	}
	return n
}

// IsUniform reports whether all samples share the same value
func (b *Block) IsUniform() bool {
	for _, c := range b[1:] {
		if c != b[0] {
			return false
		}
	}
	return true
}

// Macroblock is a 16x16 area: Cr, Cb, Y1..Y4
type Macroblock struct {
	X, Y   int // position in macroblock units
	Blocks [BlocksPerMacroblock]Block
}

// Reset zeroes all blocks
func (m *Macroblock) Reset() {
	for i := range m.Blocks {
		m.Blocks[i].Reset()
	}
}

// MacroblockDims rounds a frame size up to whole 16x16 macroblocks
func MacroblockDims(width, height int) (mbWidth, mbHeight int) {
	return (width + 15) / 16, (height + 15) / 16
}
