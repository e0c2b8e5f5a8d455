package mdec

// ReverseZigZag maps a scan position to its raster index inside the 8x8 block
var ReverseZigZag = [64]int{
	0, 1, 8, 16, 9, 2, 3, 10,
	17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34,
	27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36,
	29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46,
	53, 60, 61, 54, 47, 55, 62, 63,
}

// ZigZag maps a raster index to its scan position
var ZigZag [64]int

// QuantMatrix is the PlayStation default intra matrix in raster order
var QuantMatrix = [64]int32{
	2, 16, 19, 22, 26, 27, 29, 34,
	16, 16, 22, 24, 27, 29, 34, 37,
	19, 22, 26, 27, 29, 34, 34, 38,
	22, 22, 26, 27, 29, 34, 37, 40,
	22, 26, 27, 29, 32, 35, 40, 48,
	26, 27, 29, 32, 35, 40, 48, 58,
	26, 27, 29, 34, 38, 46, 56, 69,
	27, 29, 35, 38, 46, 56, 69, 83,
}

func init() {
	for scan, raster := range ReverseZigZag {
		ZigZag[raster] = scan
	}
}

// Dequantize scales a level at scan position pos: (level * Q * qscale) >> 3.
// The DC position is scaled by Q[0] alone.
func Dequantize(level int, pos int, qscale int) int32 {
	raster := ReverseZigZag[pos]
	if pos == 0 {
		return int32(level) * QuantMatrix[0]
	}
	return (int32(level) * QuantMatrix[raster] * int32(qscale)) >> 3
}
