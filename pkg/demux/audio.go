package demux

import (
	"github.com/hansbonini/strtools/pkg/common"
	"github.com/hansbonini/strtools/pkg/sector"
)

// FF8FrameRate is the frame rate FF8 audio is timed against
const FF8FrameRate = 15

// XASoundGroupBytes is the audio part of an XA sector: 18 sound groups of 128 bytes
const XASoundGroupBytes = 18 * 128

// AudioDemuxer turns audio sectors into audio packets. XA sectors are one
// packet each; FF8 packets pair the left and right chunks of a frame.
type AudioDemuxer struct {
	name     string
	kind     sector.Kind
	listener Listener

	frame int
	parts [2][]byte
	start int
}

// NewAudioDemuxer creates a demuxer for one audio stream
func NewAudioDemuxer(name string, kind sector.Kind, listener Listener) *AudioDemuxer {
	return &AudioDemuxer{name: name, kind: kind, listener: listener, frame: -1}
}

// Name identifies the stream
func (d *AudioDemuxer) Name() string {
	return d.name
}

// Feed adds one classified audio sector
func (d *AudioDemuxer) Feed(cs *sector.ClassifiedSector) {
	switch h := cs.Header.(type) {
	case *sector.XAAudio:
		d.feedXA(cs, h)
	case *sector.AudioChunk:
		d.feedFF8(cs, h)
	}
}

func (d *AudioDemuxer) feedXA(cs *sector.ClassifiedSector, h *sector.XAAudio) {
	payload := cs.Payload()
	if len(payload) > XASoundGroupBytes {
		payload = payload[:XASoundGroupBytes]
	}
	data := make([]byte, len(payload))
	copy(data, payload)

	channels := 1
	if h.Stereo {
		channels = 2
	}
	samples := h.SamplesPerChannel()
	a := &AudioPacket{
		Stream:      d.name,
		Kind:        d.kind,
		StartSector: cs.Sector.Index,
		EndSector:   cs.Sector.Index,
		Channels:    channels,
		SampleRate:  h.SampleRate,
		Samples:     samples,
		Timing:      Fraction{Num: samples, Den: h.SampleRate},
		Data:        data,
	}
	common.LogDebug(common.DebugAudioEmitted, d.name, a.StartSector, a.EndSector, samples)
	d.listener.AudioComplete(a)
}

func (d *AudioDemuxer) feedFF8(cs *sector.ClassifiedSector, h *sector.AudioChunk) {
	index := cs.Sector.Index
	if h.Frame != d.frame {
		if d.parts[0] != nil || d.parts[1] != nil {
			common.LogWarn(common.WarnFrameDiscarded, d.frame, d.count(), 2)
		}
		d.parts = [2][]byte{}
		d.frame = h.Frame
		d.start = index
	}
	d.parts[h.Chunk] = cs.Payload()
	if d.parts[0] == nil || d.parts[1] == nil {
		return
	}

	data := make([]byte, 0, len(d.parts[0])+len(d.parts[1]))
	data = append(data, d.parts[0]...)
	data = append(data, d.parts[1]...)
	a := &AudioPacket{
		Stream:      d.name,
		Kind:        d.kind,
		StartSector: d.start,
		EndSector:   index,
		Channels:    2,
		Timing:      Fraction{Num: h.Frame, Den: FF8FrameRate},
		Data:        data,
	}
	d.parts = [2][]byte{}
	common.LogDebug(common.DebugAudioEmitted, d.name, a.StartSector, a.EndSector, 0)
	d.listener.AudioComplete(a)
}

func (d *AudioDemuxer) count() int {
	n := 0
	for _, p := range d.parts {
		if p != nil {
			n++
		}
	}
	return n
}

// Close ends the stream
func (d *AudioDemuxer) Close(sectorIndex int) {
	if d.count() > 0 {
		common.LogWarn(common.WarnFrameDiscarded, d.frame, d.count(), 2)
	}
	d.parts = [2][]byte{}
	d.listener.EndOfStream(d.name, sectorIndex, nil)
}
