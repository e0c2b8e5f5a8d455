package sector

import "github.com/hansbonini/strtools/pkg/psx"

// Header is the decoded, format specific part of a classified sector.
// The set of implementations is closed.
type Header interface {
	isHeader()
}

// VideoChunk is one sector of a chunked video frame (STR, FF7, FF8,
// Chrono Cross, Lain)
type VideoChunk struct {
	Chunk          int // 0 based chunk number within the frame
	Chunks         int // chunks in the frame
	Frame          int // frame number as written in the header
	UsedDemuxSize  int // bitstream bytes of the whole frame, 0 if unknown
	Width          int
	Height         int
	RunLengthCodes int
	QuantScale     int
	LumaScale      int // Lain only
	ChromaScale    int // Lain only
	Version        int
	PayloadOffset  int
}

// AudioChunk is one half of the audio carried by an FF8 frame
type AudioChunk struct {
	Chunk         int // 0 left, 1 right
	Chunks        int
	Frame         int
	PayloadOffset int
}

// XAAudio is a CD-XA ADPCM audio sector
type XAAudio struct {
	File          int
	Channel       int
	Stereo        bool
	SampleRate    int
	BitsPerSample int
	Emphasis      bool
}

// SamplesPerChannel is the number of PCM samples one sector decodes to per channel
func (x *XAAudio) SamplesPerChannel() int {
	samples := 4032
	if x.BitsPerSample == 8 {
		samples = 2016
	}
	if x.Stereo {
		samples /= 2
	}
	return samples
}

// NullChunk is a Chrono Cross sector that carries no frame data
type NullChunk struct{}

// VolumeDescriptor is an ISO9660 volume descriptor sector
type VolumeDescriptor struct {
	*psx.ISODescriptor
}

// EAChunk is a sector of an EA packet stream. Start is set when a packet
// header sits at the front of the sector.
type EAChunk struct {
	Start bool
	Tag   string
}

func (*VideoChunk) isHeader()       {}
func (*AudioChunk) isHeader()       {}
func (*XAAudio) isHeader()          {}
func (*NullChunk) isHeader()        {}
func (*VolumeDescriptor) isHeader() {}
func (*EAChunk) isHeader()          {}

// ClassifiedSector is the outcome of classifying one raw sector
type ClassifiedSector struct {
	Sector     *psx.RawSector
	Kind       Kind
	Confidence int    // 1..100 for a match, 0 for unidentified
	Header     Header // nil when unidentified
}

// Channel returns the CD-XA channel, or 0 for sectors without a subheader
func (c *ClassifiedSector) Channel() int {
	if c.Sector == nil || c.Sector.SubHeader == nil {
		return 0
	}
	return int(c.Sector.SubHeader.Channel)
}

// Payload returns the bytes after the format header
func (c *ClassifiedSector) Payload() []byte {
	if c.Sector == nil {
		return nil
	}
	offset := 0
	switch h := c.Header.(type) {
	case *VideoChunk:
		offset = h.PayloadOffset
	case *AudioChunk:
		offset = h.PayloadOffset
	case *XAAudio, *EAChunk:
	default:
		return nil
	}
	if offset > len(c.Sector.Data) {
		return nil
	}
	return c.Sector.Data[offset:]
}
