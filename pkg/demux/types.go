// Package demux reassembles classified sectors into frames, audio packets
// and VLC table packets.
package demux

import (
	"fmt"

	"github.com/hansbonini/strtools/pkg/sector"
	"github.com/hansbonini/strtools/pkg/vlc"
)

// Fraction is an exact presentation time in seconds
type Fraction struct {
	Num int
	Den int
}

func (f Fraction) String() string {
	return fmt.Sprintf("%d/%d", f.Num, f.Den)
}

// Seconds converts the fraction, 0 when the denominator is 0
func (f Fraction) Seconds() float64 {
	if f.Den == 0 {
		return 0
	}
	return float64(f.Num) / float64(f.Den)
}

// DemuxedFrame is the complete bitstream of one video frame
type DemuxedFrame struct {
	Stream      string
	Kind        sector.Kind
	Movie       int // EA movies only, 0 based
	Number      FrameNumber
	HeaderFrame int // frame number field of the header, -1 when absent
	Width       int
	Height      int
	StartSector int
	EndSector   int
	Table       *vlc.Table // runtime table for EA frames, nil otherwise
	Data        []byte
}

// AudioPacket is one packet of compressed audio
type AudioPacket struct {
	Stream      string
	Kind        sector.Kind
	StartSector int
	EndSector   int
	Channels    int
	SampleRate  int
	Samples     int // per channel, 0 when the format does not say
	Timing      Fraction
	Data        []byte
}

// TablePacket is a validated runtime VLC table
type TablePacket struct {
	Stream      string
	Movie       int
	StartSector int
	EndSector   int
	Table       *vlc.Table
}

// Listener receives everything a stream emits. err is nil for a clean end of
// stream and a *common.StreamError when the stream was abandoned.
type Listener interface {
	FrameComplete(f *DemuxedFrame)
	AudioComplete(a *AudioPacket)
	TableComplete(t *TablePacket)
	EndOfStream(stream string, sector int, err error)
}
