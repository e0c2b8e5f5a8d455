// Package mdec holds the PlayStation MDEC coefficient model: run/level codes,
// 8x8 coefficient blocks, the quantization matrix, zig-zag order and the IDCT.
package mdec

import (
	"fmt"

	"github.com/hansbonini/strtools/pkg/bits"
)

// EndOfBlockWord is the 16-bit MDEC word that terminates a block
const EndOfBlockWord uint16 = 0xFE00

// MaxRun is the largest run a 6-bit field can hold
const MaxRun = 63

// Code is one decoded run/level unit
type Code struct {
	Run    int  // zero coefficients to skip, 0..63
	Level  int  // signed coefficient level, 10 bits in the MDEC word
	Escape bool // decoded from an escape sequence
	EOB    bool // end of block
}

// EndOfBlock returns the end-of-block code
func EndOfBlock() Code {
	return Code{Run: MaxRun, EOB: true}
}

// CodeFromWord unpacks a 16-bit MDEC word (6-bit run, 10-bit signed level)
func CodeFromWord(word uint16) Code {
	if word == EndOfBlockWord {
		return EndOfBlock()
	}
	return Code{
		Run:   int(word >> 10),
		Level: int(bits.SignExtend(uint32(word&0x3FF), 10)),
	}
}

// Word packs the code into a 16-bit MDEC word. Run 63 with level -512
// packs to EndOfBlockWord; Validate rejects it.
func (c Code) Word() uint16 {
	if c.EOB {
		return EndOfBlockWord
	}
	return uint16(c.Run&MaxRun)<<10 | uint16(c.Level)&0x3FF
}

// Validate reports whether the code can appear as an AC coefficient
func (c Code) Validate() error {
	if c.EOB {
		return nil
	}
	if c.Run < 0 || c.Run > MaxRun {
		return fmt.Errorf("run %d outside 0..%d", c.Run, MaxRun)
	}
	if c.Level < -512 || c.Level > 511 {
		return fmt.Errorf("level %d outside -512..511", c.Level)
	}
	if c.Level == 0 {
		return fmt.Errorf("zero level")
	}
	if c.Word() == EndOfBlockWord {
		return fmt.Errorf("run %d level %d packs to the end-of-block word", c.Run, c.Level)
	}
	return nil
}

func (c Code) String() string {
	switch {
	case c.EOB:
		return "EOB"
	case c.Escape:
		return fmt.Sprintf("ESC(%d,%d)", c.Run, c.Level)
	}
	return fmt.Sprintf("(%d,%d)", c.Run, c.Level)
}
