package vlc

import (
	"fmt"
	"sync"

	"github.com/hansbonini/strtools/pkg/mdec"
)

// Fixed patterns shared by every AC table
const (
	EndOfBlockBits   = 0b10
	EndOfBlockLength = 2
	EscapeBits       = 0b000001
	EscapeLength     = 6
)

// acCode is one row of the MPEG-1 dct_coeff_next table, sign bit excluded
type acCode struct {
	pattern string
	run     int
	level   int
}

// acCodes lists the 111 run/level codes in table order
var acCodes = []acCode{
	{"11", 0, 1},
	{"011", 1, 1},
	{"0100", 0, 2},
	{"0101", 2, 1},
	{"00101", 0, 3},
	{"00110", 4, 1},
	{"00111", 3, 1},
	{"000100", 7, 1},
	{"000101", 6, 1},
	{"000110", 1, 2},
	{"000111", 5, 1},
	{"0000100", 2, 2},
	{"0000101", 9, 1},
	{"0000110", 0, 4},
	{"0000111", 8, 1},
	{"00100000", 13, 1},
	{"00100001", 0, 6},
	{"00100010", 12, 1},
	{"00100011", 11, 1},
	{"00100100", 3, 2},
	{"00100101", 1, 3},
	{"00100110", 0, 5},
	{"00100111", 10, 1},
	{"0000001000", 16, 1},
	{"0000001001", 5, 2},
	{"0000001010", 0, 7},
	{"0000001011", 2, 3},
	{"0000001100", 1, 4},
	{"0000001101", 15, 1},
	{"0000001110", 14, 1},
	{"0000001111", 4, 2},
	{"000000010000", 0, 11},
	{"000000010001", 8, 2},
	{"000000010010", 4, 3},
	{"000000010011", 0, 10},
	{"000000010100", 2, 4},
	{"000000010101", 7, 2},
	{"000000010110", 21, 1},
	{"000000010111", 20, 1},
	{"000000011000", 0, 9},
	{"000000011001", 19, 1},
	{"000000011010", 18, 1},
	{"000000011011", 1, 5},
	{"000000011100", 3, 3},
	{"000000011101", 0, 8},
	{"000000011110", 6, 2},
	{"000000011111", 17, 1},
	{"0000000010000", 10, 2},
	{"0000000010001", 9, 2},
	{"0000000010010", 5, 3},
	{"0000000010011", 3, 4},
	{"0000000010100", 2, 5},
	{"0000000010101", 1, 7},
	{"0000000010110", 1, 6},
	{"0000000010111", 0, 15},
	{"0000000011000", 0, 14},
	{"0000000011001", 0, 13},
	{"0000000011010", 0, 12},
	{"0000000011011", 26, 1},
	{"0000000011100", 25, 1},
	{"0000000011101", 24, 1},
	{"0000000011110", 23, 1},
	{"0000000011111", 22, 1},
	{"00000000010000", 0, 31},
	{"00000000010001", 0, 30},
	{"00000000010010", 0, 29},
	{"00000000010011", 0, 28},
	{"00000000010100", 0, 27},
	{"00000000010101", 0, 26},
	{"00000000010110", 0, 25},
	{"00000000010111", 0, 24},
	{"00000000011000", 0, 23},
	{"00000000011001", 0, 22},
	{"00000000011010", 0, 21},
	{"00000000011011", 0, 20},
	{"00000000011100", 0, 19},
	{"00000000011101", 0, 18},
	{"00000000011110", 0, 17},
	{"00000000011111", 0, 16},
	{"000000000010000", 0, 40},
	{"000000000010001", 0, 39},
	{"000000000010010", 0, 38},
	{"000000000010011", 0, 37},
	{"000000000010100", 0, 36},
	{"000000000010101", 0, 35},
	{"000000000010110", 0, 34},
	{"000000000010111", 0, 33},
	{"000000000011000", 0, 32},
	{"000000000011001", 1, 14},
	{"000000000011010", 1, 13},
	{"000000000011011", 1, 12},
	{"000000000011100", 1, 11},
	{"000000000011101", 1, 10},
	{"000000000011110", 1, 9},
	{"000000000011111", 1, 8},
	{"0000000000010000", 1, 18},
	{"0000000000010001", 1, 17},
	{"0000000000010010", 1, 16},
	{"0000000000010011", 1, 15},
	{"0000000000010100", 6, 3},
	{"0000000000010101", 16, 2},
	{"0000000000010110", 15, 2},
	{"0000000000010111", 14, 2},
	{"0000000000011000", 13, 2},
	{"0000000000011001", 12, 2},
	{"0000000000011010", 11, 2},
	{"0000000000011011", 31, 1},
	{"0000000000011100", 30, 1},
	{"0000000000011101", 29, 1},
	{"0000000000011110", 28, 1},
	{"0000000000011111", 27, 1},
}

// RowCount is the number of signed rows: every AC code with sign 0 then sign 1
var RowCount = 2 * len(acCodes)

func parsePattern(pattern string) (uint32, int) {
	var value uint32
	for _, c := range pattern {
		value <<= 1
		if c == '1' {
			value |= 1
		}
	}
	return value, len(pattern)
}

// Row returns the bit pattern of signed row i (sign bit last)
func Row(i int) (uint32, int) {
	value, length := parsePattern(acCodes[i/2].pattern)
	return value<<1 | uint32(i&1), length + 1
}

// fixedEntries returns end-of-block and escape entries
func fixedEntries() []Entry {
	return []Entry{
		{Length: EndOfBlockLength, Bits: EndOfBlockBits, Code: mdec.EndOfBlock()},
		{Length: EscapeLength, Bits: EscapeBits, Code: mdec.Code{Escape: true}},
	}
}

// StandardEntries builds the entries of the fixed AC table
func StandardEntries() []Entry {
	entries := fixedEntries()
	for i := 0; i < RowCount; i++ {
		value, length := Row(i)
		code := acCodes[i/2]
		level := code.level
		if i&1 == 1 {
			level = -level
		}
		entries = append(entries, Entry{Length: length, Bits: value, Code: mdec.Code{Run: code.run, Level: level}})
	}
	return entries
}

var (
	standardOnce  sync.Once
	standardTable *Table
)

// Standard returns the shared fixed AC table used by STR, FF7, FF8, Lain and
// Chrono Cross frames
func Standard() *Table {
	standardOnce.Do(func() {
		t, err := NewTable("standard", StandardEntries())
		if err != nil {
			panic(fmt.Sprintf("standard AC table is not a prefix code: %v", err))
		}
		standardTable = t
	})
	return standardTable
}
