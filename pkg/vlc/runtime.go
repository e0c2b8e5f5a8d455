package vlc

import (
	"fmt"

	"github.com/hansbonini/strtools/pkg/common"
	"github.com/hansbonini/strtools/pkg/mdec"
)

// BuildRuntimeTable builds a movie-specific table from the code order of a
// table packet: one MDEC word per signed row of the fixed alphabet.
// Every word must be a structurally valid AC code.
func BuildRuntimeTable(name string, words []uint16) (*Table, error) {
	if len(words) != RowCount {
		return nil, common.CorruptStream("%s: %d entries, want %d", common.ErrInvalidTableEntry, len(words), RowCount)
	}

	entries := fixedEntries()
	for i, word := range words {
		code := mdec.CodeFromWord(word)
		if code.EOB {
			return nil, common.CorruptStream("%s: row %d is end of block", common.ErrInvalidTableEntry, i)
		}
		if err := code.Validate(); err != nil {
			return nil, common.CorruptStream("%s: row %d word 0x%04X: %v", common.ErrInvalidTableEntry, i, word, err)
		}
		value, length := Row(i)
		entries = append(entries, Entry{Length: length, Bits: value, Code: code})
	}

	t, err := NewTable(name, entries)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", common.ErrFailedToBuildVLCTable, err)
	}
	return t, nil
}

// StandardCodeOrder returns the words that make BuildRuntimeTable reproduce
// the standard table
func StandardCodeOrder() []uint16 {
	words := make([]uint16, 0, RowCount)
	for _, e := range StandardEntries()[2:] {
		words = append(words, e.Code.Word())
	}
	return words
}
