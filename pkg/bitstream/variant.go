// Package bitstream decodes PlayStation frame bitstreams into macroblocks of
// spatial-domain blocks.
package bitstream

import (
	"fmt"

	"github.com/hansbonini/strtools/pkg/bits"
	"github.com/hansbonini/strtools/pkg/sector"
)

// Variant selects the frame header layout and coding rules
type Variant int

const (
	VariantSTR Variant = iota
	VariantFF7
	VariantFF8
	VariantChronoCross
	VariantLain
	VariantEA
)

func (v Variant) String() string {
	switch v {
	case VariantSTR:
		return "str"
	case VariantFF7:
		return "ff7"
	case VariantFF8:
		return "ff8"
	case VariantChronoCross:
		return "chrono-cross"
	case VariantLain:
		return "lain"
	case VariantEA:
		return "ea"
	}
	return fmt.Sprintf("variant(%d)", int(v))
}

// VariantFor maps a video sector kind to its bitstream variant
func VariantFor(kind sector.Kind) (Variant, bool) {
	switch kind {
	case sector.KindSTRVideo:
		return VariantSTR, true
	case sector.KindFF7Video:
		return VariantFF7, true
	case sector.KindFF8Video:
		return VariantFF8, true
	case sector.KindChronoCrossVideo:
		return VariantChronoCross, true
	case sector.KindLainVideo:
		return VariantLain, true
	case sector.KindEAData:
		return VariantEA, true
	}
	return 0, false
}

// versions lists the bitstream versions each variant decodes. Anything else
// (the version 0 logo streams outside Lain, for one) is unsupported.
var versions = map[Variant][]int{
	VariantSTR:         {1, 2, 3},
	VariantFF7:         {1},
	VariantFF8:         {2, 3},
	VariantChronoCross: {3},
	VariantLain:        {0},
}

// Supports reports whether the variant decodes a bitstream version
func (v Variant) Supports(version int) bool {
	if v == VariantEA {
		return true
	}
	for _, s := range versions[v] {
		if s == version {
			return true
		}
	}
	return false
}

// ByteOrder returns how the variant packs its bits
func (v Variant) ByteOrder() bits.ByteOrder {
	if v == VariantEA {
		return bits.BigEndian
	}
	return bits.LittleEndianWords
}

// AllowsZeroLevelEscape is true for the one family whose encoder emits
// escape codes with a zero level
func (v Variant) AllowsZeroLevelEscape() bool {
	return v == VariantFF7
}
