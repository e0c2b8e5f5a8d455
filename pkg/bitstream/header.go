package bitstream

import (
	"github.com/hansbonini/strtools/pkg/bits"
	"github.com/hansbonini/strtools/pkg/common"
	"github.com/hansbonini/strtools/pkg/sector"
)

// Header is the frame header at the front of a bitstream
type Header struct {
	Version        int
	RunLengthCodes int
	QuantScale     int // luma scale for Lain
	ChromaScale    int // equal to QuantScale except for Lain
}

// ReadHeader reads and validates the frame header of a variant: four 16-bit
// words, two for EA
func ReadHeader(r *bits.Reader, v Variant) (Header, error) {
	var words [4]uint32
	n := len(words)
	if v == VariantEA {
		n = 2
	}
	for i := 0; i < n; i++ {
		w, err := r.ReadUnsigned(16)
		if err != nil {
			return Header{}, err
		}
		words[i] = w
	}

	var h Header
	switch v {
	case VariantEA:
		h = Header{QuantScale: int(words[0]), RunLengthCodes: int(words[1])}
	case VariantLain:
		if uint16(words[1]) != sector.HeaderSentinel {
			return Header{}, common.CorruptBitstream("%s: sentinel 0x%04X", common.ErrBadFrameHeader, words[1])
		}
		h = Header{
			QuantScale:     int(words[0] & 0xFF),
			ChromaScale:    int(words[0] >> 8),
			RunLengthCodes: int(words[2]),
			Version:        int(words[3]),
		}
	default:
		if uint16(words[1]) != sector.HeaderSentinel {
			return Header{}, common.CorruptBitstream("%s: sentinel 0x%04X", common.ErrBadFrameHeader, words[1])
		}
		h = Header{
			RunLengthCodes: int(words[0]),
			QuantScale:     int(words[2]),
			Version:        int(words[3]),
		}
	}
	if h.ChromaScale == 0 && v != VariantLain {
		h.ChromaScale = h.QuantScale
	}

	if !v.Supports(h.Version) {
		return Header{}, common.Unsupported("%s: %s version %d", common.ErrUnsupportedBitstreamVer, v, h.Version)
	}
	if h.QuantScale < 1 || h.QuantScale > sector.MaxQuantScale || h.ChromaScale < 1 || h.ChromaScale > sector.MaxQuantScale {
		return Header{}, common.CorruptBitstream("%s: quantization scale %d/%d", common.ErrBadFrameHeader, h.QuantScale, h.ChromaScale)
	}
	return h, nil
}
