package demux

import (
	"github.com/hansbonini/strtools/pkg/common"
	"github.com/hansbonini/strtools/pkg/sector"
)

// FrameDemuxer collects the chunks of chunked video frames (STR, FF7, FF8,
// Chrono Cross, Lain). Chunks of one frame may arrive in any order but a
// frame must be complete before the next one starts.
type FrameDemuxer struct {
	name     string
	kind     sector.Kind
	listener Listener
	numberer *FrameNumberer

	// dimensions for formats whose headers carry none
	defaultWidth  int
	defaultHeight int

	first  *sector.VideoChunk
	parts  [][]byte
	have   int
	start  int
	end    int
	active bool
}

// NewFrameDemuxer creates a demuxer for one video stream
func NewFrameDemuxer(name string, kind sector.Kind, listener Listener) *FrameDemuxer {
	return &FrameDemuxer{
		name:     name,
		kind:     kind,
		listener: listener,
		numberer: NewFrameNumberer(NumberingFor(kind)),
	}
}

// SetDefaultSize sets the dimensions used when the header has none
func (d *FrameDemuxer) SetDefaultSize(width, height int) {
	d.defaultWidth = width
	d.defaultHeight = height
}

// Name identifies the stream
func (d *FrameDemuxer) Name() string {
	return d.name
}

// Feed adds one classified video sector
func (d *FrameDemuxer) Feed(cs *sector.ClassifiedSector) {
	h, ok := cs.Header.(*sector.VideoChunk)
	if !ok {
		return
	}
	index := cs.Sector.Index

	if d.active && !sameFrame(d.first, h) {
		d.discard(index)
	}
	if !d.active {
		d.first = h
		d.parts = make([][]byte, h.Chunks)
		d.have = 0
		d.start = index
		d.active = true
	}

	if d.parts[h.Chunk] != nil {
		d.fail(index, common.CorruptStream("%s: frame %d chunk %d", common.ErrDuplicateChunk, h.Frame, h.Chunk))
		return
	}
	if !consistent(d.first, h) {
		d.fail(index, common.CorruptStream("%s: frame %d chunk %d", common.ErrInconsistentChunk, h.Frame, h.Chunk))
		return
	}

	payload := cs.Payload()
	d.parts[h.Chunk] = payload
	d.have++
	d.end = index
	common.LogDebug(common.DebugChunkAccepted, index, d.kind, h.Frame, h.Chunk+1, h.Chunks)

	if d.have == len(d.parts) {
		d.complete(index)
	}
}

// Close ends the stream. An unfinished frame is reported as corrupt.
func (d *FrameDemuxer) Close(sectorIndex int) {
	if d.active {
		d.fail(sectorIndex, common.CorruptStream("%s: frame %d has %d/%d chunks", common.ErrIncompleteFrame, d.first.Frame, d.have, len(d.parts)))
		return
	}
	common.LogInfo(common.InfoStreamEnded, d.name, sectorIndex)
	d.listener.EndOfStream(d.name, sectorIndex, nil)
}

func sameFrame(a, b *sector.VideoChunk) bool {
	return a.Frame == b.Frame && a.Chunks == b.Chunks
}

func consistent(a, b *sector.VideoChunk) bool {
	return a.Width == b.Width && a.Height == b.Height && a.Version == b.Version &&
		a.UsedDemuxSize == b.UsedDemuxSize && a.QuantScale == b.QuantScale
}

func (d *FrameDemuxer) complete(index int) {
	size := 0
	for _, p := range d.parts {
		size += len(p)
	}

	used := d.first.UsedDemuxSize
	if used == 0 {
		used = size
	}
	if used > size {
		d.fail(index, common.CorruptStream("%s: frame %d declares %d bytes, chunks hold %d", common.ErrPayloadSizeMismatch, d.first.Frame, used, size))
		return
	}

	data := make([]byte, 0, size)
	for _, p := range d.parts {
		data = append(data, p...)
	}
	data = data[:used]

	width, height := d.first.Width, d.first.Height
	if width == 0 || height == 0 {
		width, height = d.defaultWidth, d.defaultHeight
	}

	f := &DemuxedFrame{
		Stream:      d.name,
		Kind:        d.kind,
		Number:      d.numberer.Next(d.first.Frame, d.start, d.end),
		HeaderFrame: d.first.Frame,
		Width:       width,
		Height:      height,
		StartSector: d.start,
		EndSector:   d.end,
		Data:        data,
	}
	d.reset()
	common.LogDebug(common.DebugFrameEmitted, f.Number, f.Width, f.Height, f.StartSector, f.EndSector, len(f.Data))
	d.listener.FrameComplete(f)
}

// discard drops an unfinished frame when the next frame begins
func (d *FrameDemuxer) discard(index int) {
	common.LogWarn(common.WarnFrameDiscarded, d.first.Frame, d.have, len(d.parts))
	d.fail(index, common.CorruptStream("%s: frame %d has %d/%d chunks", common.ErrIncompleteFrame, d.first.Frame, d.have, len(d.parts)))
}

// fail abandons the buffered frame. The stream itself continues with the
// next chunk.
func (d *FrameDemuxer) fail(index int, err error) {
	d.reset()
	common.LogWarn(common.WarnStreamCorrupted, d.name, index, err)
	d.listener.EndOfStream(d.name, index, &common.StreamError{Sector: index, Stream: d.name, Err: err})
}

func (d *FrameDemuxer) reset() {
	d.first = nil
	d.parts = nil
	d.have = 0
	d.active = false
}
