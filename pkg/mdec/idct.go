package mdec

import "math"

const (
	idctBits  = 12
	idctRound = 1 << (idctBits - 1)
)

// idctMatrix[k][n] = round(4096 * a(n) * cos((2k+1)n*pi/16))
var idctMatrix [8][8]int64

func init() {
	for k := 0; k < 8; k++ {
		for n := 0; n < 8; n++ {
			a := 0.5
			if n == 0 {
				a = 1 / (2 * math.Sqrt2)
			}
			v := a * math.Cos(float64(2*k+1)*float64(n)*math.Pi/16)
			idctMatrix[k][n] = int64(math.Round(v * (1 << idctBits)))
		}
	}
}

func descale(v int64) int32 {
	return int32((v + idctRound) >> idctBits)
}

// IDCT runs the separable 2-D transform in place: columns, then rows.
func IDCT(b *Block) {
	var tmp [64]int64

	// Transform columns
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			var sum int64
			for v := 0; v < 8; v++ {
				sum += idctMatrix[y][v] * int64(b[v*8+x])
			}
			tmp[y*8+x] = int64(descale(sum))
		}
	}

	// Transform rows
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			var sum int64
			for u := 0; u < 8; u++ {
				sum += idctMatrix[x][u] * tmp[y*8+u]
			}
			b[y*8+x] = descale(sum)
		}
	}
}

// idctSingle is the closed form of IDCT for a block whose only non-zero
// coefficient is value at raster index. It matches IDCT bit for bit.
func idctSingle(b *Block, index int, value int32) {
	v, u := index/8, index%8
	for y := 0; y < 8; y++ {
		column := int64(descale(idctMatrix[y][v] * int64(value)))
		for x := 0; x < 8; x++ {
			b[y*8+x] = descale(idctMatrix[x][u] * column)
		}
	}
}

// DCValue is the constant every sample takes after transforming a DC-only block
func DCValue(dc int32) int32 {
	column := int64(descale(idctMatrix[0][0] * int64(dc)))
	return descale(idctMatrix[0][0] * column)
}

// Transform picks the single-coefficient fast path when it applies,
// otherwise runs the full IDCT.
func Transform(b *Block) {
	index, count := -1, 0
	for i, c := range b {
		if c != 0 {
			index = i
			count++
			if count > 1 {
				break
			}
		}
	}

	switch {
	case count == 0:
		return
	case count == 1 && index == 0:
		b.Fill(DCValue(b[0]))
	case count == 1:
		idctSingle(b, index, b[index])
	default:
		IDCT(b)
	}
}
