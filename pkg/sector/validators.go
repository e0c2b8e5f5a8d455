package sector

import (
	"bytes"

	"github.com/hansbonini/strtools/pkg/common"
	"github.com/hansbonini/strtools/pkg/psx"
)

// Magic numbers at offset 0 of video chunk headers
const (
	MagicSTR          uint32 = 0x80010160
	MagicChronoCross1 uint32 = 0x81010160
	MagicChronoCross2 uint32 = 0x01030160

	HeaderSentinel uint16 = 0x3800

	STRHeaderSize   = 32
	FF7HeaderSize   = 72
	FF8HeaderSize   = 8
	MaxSTRChunks    = 32
	MaxSTRWidth     = 640
	MaxSTRHeight    = 512
	MaxQuantScale   = 63
	FF8MinChunks    = 3
	FF8MaxChunks    = 10
	LainMinChunks   = 6
	LainMaxChunks   = 10
	MaxVideoChunks  = 10
	StandardWidth   = 320
	lowConfidence   = 50
	softConfidence  = 75
	fullConfidence  = 100
	xaMinUserData   = 8
	ff8AudioChunks  = 2
	stdPaddingStart = 28
)

// StreamContext is the part of the open stream state that stateful
// validators consult
type StreamContext struct {
	EAOpen bool
}

// validator tries to parse one layout. ok is false when the sector is not
// of this layout.
type validator func(s *psx.RawSector, ctx StreamContext) (h Header, confidence int, ok bool)

// videoConfidence lowers confidence when the subheader contradicts a data sector
func videoConfidence(s *psx.RawSector) int {
	if s.SubHeader != nil && s.SubHeader.Has(psx.SubModeAudio) {
		return softConfidence
	}
	return fullConfidence
}

func parseISOVolume(s *psx.RawSector, _ StreamContext) (Header, int, bool) {
	d := s.Data
	if len(d) < 7 {
		return nil, 0, false
	}
	switch d[0] {
	case psx.ISODescriptorPrimary, psx.ISODescriptorSupplementary, psx.ISODescriptorPartition, psx.ISODescriptorTerminator:
	default:
		return nil, 0, false
	}
	descriptor, err := psx.ParseISODescriptor(d)
	if err != nil || descriptor.Version != 1 {
		return nil, 0, false
	}
	return &VolumeDescriptor{ISODescriptor: descriptor}, fullConfidence, true
}

func parseXAAudio(s *psx.RawSector, _ StreamContext) (Header, int, bool) {
	sub := s.SubHeader
	if sub == nil || len(s.Data) < xaMinUserData {
		return nil, 0, false
	}
	if !sub.Has(psx.SubModeAudio|psx.SubModeForm2) || sub.SubMode&(psx.SubModeVideo|psx.SubModeData) != 0 {
		return nil, 0, false
	}
	if sub.Channel >= 32 {
		return nil, 0, false
	}
	ci := sub.CodingInfo
	channels := ci & 0x03
	rate := (ci >> 2) & 0x03
	depth := (ci >> 4) & 0x03
	if channels > 1 || rate > 1 || depth > 1 || ci&0x80 != 0 {
		return nil, 0, false
	}

	h := &XAAudio{
		File:          int(sub.File),
		Channel:       int(sub.Channel),
		Stereo:        channels == 1,
		SampleRate:    37800,
		BitsPerSample: 4,
		Emphasis:      ci&0x40 != 0,
	}
	if rate == 1 {
		h.SampleRate = 18900
	}
	if depth == 1 {
		h.BitsPerSample = 8
	}

	confidence := fullConfidence
	if !bytes.Equal(s.Data[0:4], s.Data[4:8]) {
		confidence = softConfidence
	}
	return h, confidence, true
}

// ff8Header parses the 8-byte "SM" header shared by FF8 audio and video
func ff8Header(d []byte) (chunk, chunks, frame int, ok bool) {
	if len(d) < FF8HeaderSize || d[0] != 'S' || d[1] != 'M' {
		return 0, 0, 0, false
	}
	chunk = int(d[2])
	chunks = int(d[3]) + 1
	if chunks < FF8MinChunks || chunks > FF8MaxChunks || chunk >= chunks {
		return 0, 0, 0, false
	}
	if d[6] != 0 || d[7] != 0 {
		return 0, 0, 0, false
	}
	return chunk, chunks, int(common.Uint16LE(d, 4)), true
}

func parseFF8Audio(s *psx.RawSector, _ StreamContext) (Header, int, bool) {
	chunk, chunks, frame, ok := ff8Header(s.Data)
	if !ok || chunk >= ff8AudioChunks {
		return nil, 0, false
	}
	return &AudioChunk{Chunk: chunk, Chunks: chunks, Frame: frame, PayloadOffset: FF8HeaderSize}, fullConfidence, true
}

func parseFF8Video(s *psx.RawSector, _ StreamContext) (Header, int, bool) {
	chunk, chunks, frame, ok := ff8Header(s.Data)
	if !ok || chunk < ff8AudioChunks {
		return nil, 0, false
	}
	return &VideoChunk{
		Chunk:         chunk - ff8AudioChunks,
		Chunks:        chunks - ff8AudioChunks,
		Frame:         frame,
		Version:       2,
		PayloadOffset: FF8HeaderSize,
	}, videoConfidence(s), true
}

func parseChronoCrossNull(s *psx.RawSector, _ StreamContext) (Header, int, bool) {
	d := s.Data
	if len(d) < STRHeaderSize || common.Uint32LE(d, 0) != MagicChronoCross1 {
		return nil, 0, false
	}
	if !common.IsAllZero(d[4:STRHeaderSize]) {
		return nil, 0, false
	}
	return &NullChunk{}, fullConfidence, true
}

// standardHeader reads the 32-byte layout without range checks
func standardHeader(d []byte) *VideoChunk {
	return &VideoChunk{
		Chunk:          int(common.Uint16LE(d, 4)),
		Chunks:         int(common.Uint16LE(d, 6)),
		Frame:          int(common.Uint32LE(d, 8)),
		UsedDemuxSize:  int(common.Uint32LE(d, 12)),
		Width:          int(common.Uint16LE(d, 16)),
		Height:         int(common.Uint16LE(d, 18)),
		RunLengthCodes: int(common.Uint16LE(d, 20)),
		QuantScale:     int(common.Uint16LE(d, 24)),
		Version:        int(common.Uint16LE(d, 26)),
		PayloadOffset:  STRHeaderSize,
	}
}

// checkStandard applies the checks shared by every 32-byte layout. Fields are
// tested in header order and the first failure stops the check.
func checkStandard(d []byte, h *VideoChunk, maxChunks int) bool {
	if h.Chunks < 1 || h.Chunks > maxChunks || h.Chunk >= h.Chunks {
		return false
	}
	capacity := len(d) - h.PayloadOffset
	if h.UsedDemuxSize < 1 || h.UsedDemuxSize > h.Chunks*capacity {
		return false
	}
	if h.Width < 1 || h.Width > MaxSTRWidth || h.Height < 1 || h.Height > MaxSTRHeight {
		return false
	}
	if common.Uint16LE(d, 22) != HeaderSentinel {
		return false
	}
	if h.QuantScale < 1 || h.QuantScale > MaxQuantScale {
		return false
	}
	return common.IsAllZero(d[stdPaddingStart:STRHeaderSize])
}

func isStandardHeight(h int) bool {
	return h == 224 || h == 240
}

func parseChronoCrossVideo(s *psx.RawSector, _ StreamContext) (Header, int, bool) {
	d := s.Data
	if len(d) < STRHeaderSize {
		return nil, 0, false
	}
	magic := common.Uint32LE(d, 0)
	if magic != MagicChronoCross1 && magic != MagicChronoCross2 {
		return nil, 0, false
	}
	h := standardHeader(d)
	if !checkStandard(d, h, MaxVideoChunks) {
		return nil, 0, false
	}
	if h.Width != StandardWidth || !isStandardHeight(h.Height) || h.Version != 3 {
		return nil, 0, false
	}
	return h, videoConfidence(s), true
}

func parseLainVideo(s *psx.RawSector, _ StreamContext) (Header, int, bool) {
	d := s.Data
	if len(d) < STRHeaderSize || common.Uint32LE(d, 0) != MagicSTR {
		return nil, 0, false
	}
	h := &VideoChunk{
		Chunk:          int(common.Uint16LE(d, 4)),
		Chunks:         int(common.Uint16LE(d, 6)),
		Frame:          int(common.Uint32LE(d, 8)),
		UsedDemuxSize:  int(common.Uint32LE(d, 12)),
		Width:          int(common.Uint16LE(d, 16)),
		Height:         int(common.Uint16LE(d, 18)),
		RunLengthCodes: int(common.Uint16LE(d, 20)),
		LumaScale:      int(d[22]),
		ChromaScale:    int(d[23]),
		Version:        int(common.Uint16LE(d, 26)),
		PayloadOffset:  STRHeaderSize,
	}
	if h.Chunks < LainMinChunks || h.Chunks > LainMaxChunks || h.Chunk >= h.Chunks {
		return nil, 0, false
	}
	if h.UsedDemuxSize < 1 || h.UsedDemuxSize > h.Chunks*(len(d)-STRHeaderSize) {
		return nil, 0, false
	}
	if h.Width != StandardWidth || h.Height != 240 {
		return nil, 0, false
	}
	if h.LumaScale < 1 || h.LumaScale > MaxQuantScale || h.ChromaScale < 1 || h.ChromaScale > MaxQuantScale {
		return nil, 0, false
	}
	if common.Uint16LE(d, 24) != HeaderSentinel || h.Version != 0 {
		return nil, 0, false
	}
	if !common.IsAllZero(d[stdPaddingStart:STRHeaderSize]) {
		return nil, 0, false
	}
	h.QuantScale = h.LumaScale
	return h, videoConfidence(s), true
}

func parseFF7Video(s *psx.RawSector, _ StreamContext) (Header, int, bool) {
	d := s.Data
	if len(d) < FF7HeaderSize || common.Uint32LE(d, 0) != MagicSTR {
		return nil, 0, false
	}
	h := standardHeader(d)
	h.PayloadOffset = FF7HeaderSize
	if !checkStandard(d, h, MaxVideoChunks) {
		return nil, 0, false
	}
	if h.Version != 1 || h.Width != StandardWidth || !isStandardHeight(h.Height) {
		return nil, 0, false
	}
	return h, videoConfidence(s), true
}

func parseSTRVideo(s *psx.RawSector, _ StreamContext) (Header, int, bool) {
	d := s.Data
	if len(d) < STRHeaderSize || common.Uint32LE(d, 0) != MagicSTR {
		return nil, 0, false
	}
	h := standardHeader(d)
	if !checkStandard(d, h, MaxSTRChunks) {
		return nil, 0, false
	}
	if h.Frame < 1 || (h.Version != 2 && h.Version != 3) {
		return nil, 0, false
	}
	return h, videoConfidence(s), true
}

func parseEAData(s *psx.RawSector, ctx StreamContext) (Header, int, bool) {
	d := s.Data
	if len(d) >= EAHeaderSize {
		tag := string(d[0:4])
		if min, max, ok := EAPacketBounds(tag); ok {
			size := int(common.Uint32BE(d, 4))
			if size >= min && size <= max {
				return &EAChunk{Start: true, Tag: tag}, fullConfidence, true
			}
		}
	}
	if !ctx.EAOpen {
		return nil, 0, false
	}
	if s.SubHeader != nil && s.SubHeader.Has(psx.SubModeAudio) {
		return nil, 0, false
	}
	return &EAChunk{}, lowConfidence, true
}
