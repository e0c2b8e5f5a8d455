package demux

import (
	"fmt"
	"sort"

	"github.com/hansbonini/strtools/pkg/psx"
	"github.com/hansbonini/strtools/pkg/sector"
)

// Options configures a StreamDemuxer
type Options struct {
	FF8Width  int
	FF8Height int
}

// DefaultOptions returns the FF8 frame size used when a config sets none
func DefaultOptions() Options {
	return Options{FF8Width: 320, FF8Height: 224}
}

// StreamDemuxer classifies sectors and routes them to one demuxer per
// logical stream. Streams are keyed by format and CD-XA channel.
type StreamDemuxer struct {
	classifier *sector.Classifier
	listener   Listener
	options    Options

	video map[string]*FrameDemuxer
	audio map[string]*AudioDemuxer
	ea    *PacketReassembler

	eaStreams int
	last      int
}

// NewStreamDemuxer creates a multiplexer that reports to listener
func NewStreamDemuxer(classifier *sector.Classifier, listener Listener, options Options) *StreamDemuxer {
	return &StreamDemuxer{
		classifier: classifier,
		listener:   listener,
		options:    options,
		video:      make(map[string]*FrameDemuxer),
		audio:      make(map[string]*AudioDemuxer),
	}
}

// Context returns the stream state the classifier needs
func (d *StreamDemuxer) Context() sector.StreamContext {
	return sector.StreamContext{EAOpen: d.ea != nil}
}

// StreamName builds the identity of a stream
func StreamName(kind sector.Kind, channel int) string {
	return fmt.Sprintf("%s#%d", kind, channel)
}

// Feed classifies one sector and hands it to its stream. Sectors must be fed
// in increasing index order.
func (d *StreamDemuxer) Feed(s *psx.RawSector) sector.ClassifiedSector {
	cs := d.classifier.Classify(s, d.Context())
	d.Dispatch(&cs)
	return cs
}

// Dispatch routes an already classified sector
func (d *StreamDemuxer) Dispatch(cs *sector.ClassifiedSector) {
	index := cs.Sector.Index
	d.last = index

	switch {
	case cs.Kind.IsVideo():
		name := StreamName(cs.Kind, cs.Channel())
		fd, ok := d.video[name]
		if !ok {
			fd = NewFrameDemuxer(name, cs.Kind, d.listener)
			fd.SetDefaultSize(d.options.FF8Width, d.options.FF8Height)
			d.video[name] = fd
		}
		fd.Feed(cs)

	case cs.Kind.IsAudio():
		name := StreamName(cs.Kind, cs.Channel())
		ad, ok := d.audio[name]
		if !ok {
			ad = NewAudioDemuxer(name, cs.Kind, d.listener)
			d.audio[name] = ad
		}
		ad.Feed(cs)

	case cs.Kind == sector.KindEAData:
		h, _ := cs.Header.(*sector.EAChunk)
		if d.ea == nil {
			if h == nil || !h.Start {
				return
			}
			d.ea = NewPacketReassembler(StreamName(cs.Kind, d.eaStreams), d.listener)
			d.eaStreams++
		}
		d.ea.Feed(index, cs.Sector.Data)
		if d.ea.State() == StateEnded {
			d.ea = nil
		}
	}
}

// Close ends every open stream
func (d *StreamDemuxer) Close() {
	for _, name := range sortedKeys(d.video) {
		d.video[name].Close(d.last)
	}
	for _, name := range sortedKeys(d.audio) {
		d.audio[name].Close(d.last)
	}
	if d.ea != nil {
		d.ea.Close(d.last)
		d.ea = nil
	}
	d.video = make(map[string]*FrameDemuxer)
	d.audio = make(map[string]*AudioDemuxer)
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
