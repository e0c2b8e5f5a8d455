package pkg

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hansbonini/strtools/pkg/bitstream"
	"github.com/hansbonini/strtools/pkg/common"
	"github.com/hansbonini/strtools/pkg/config"
	"github.com/hansbonini/strtools/pkg/demux"
	"github.com/hansbonini/strtools/pkg/psx"
	"github.com/hansbonini/strtools/pkg/sector"
)

// DiscFileDecoder implements the DiscDecoder interface
type DiscFileDecoder struct {
	classifier *sector.Classifier
	options    demux.Options
	decode     bool
	start      int
	end        int
}

// NewDiscDecoder creates a decoder configured by cfg, or by the defaults when cfg is nil
func NewDiscDecoder(cfg *config.Config) (*DiscFileDecoder, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	kinds, err := cfg.Kinds()
	if err != nil {
		return nil, err
	}
	return &DiscFileDecoder{
		classifier: sector.NewClassifier(kinds...),
		options:    demux.Options{FF8Width: cfg.FF8.Width, FF8Height: cfg.FF8.Height},
		decode:     cfg.Decode,
		start:      cfg.Image.StartSector,
		end:        cfg.Image.EndSector,
	}, nil
}

// Sectors classifies every sector in the configured range
func (d *DiscFileDecoder) Sectors(ctx context.Context, reader *psx.CDReader) ([]SectorRecord, error) {
	var records []SectorRecord
	identified := 0
	err := d.walk(ctx, reader, NewIndexBuilder(&FrameIndex{}, false), func(cs *sector.ClassifiedSector) {
		if cs.Kind != sector.KindUnidentified {
			identified++
		}
		records = append(records, describeSector(cs))
	})
	common.LogInfo(common.InfoSectorSummary, len(records), identified)
	return records, err
}

// Frames demuxes the configured range and decodes every frame when enabled.
// On cancellation the index holds everything emitted before the stop.
func (d *DiscFileDecoder) Frames(ctx context.Context, reader *psx.CDReader) (*FrameIndex, error) {
	index := &FrameIndex{SectorSize: reader.SectorSize()}
	if descriptor, err := reader.ReadISODescriptor(); err == nil {
		index.Volume = volumeLabel(descriptor)
	}
	builder := NewIndexBuilder(index, d.decode)
	err := d.walk(ctx, reader, builder, func(cs *sector.ClassifiedSector) {
		index.Summary.Sectors++
		if cs.Kind != sector.KindUnidentified {
			index.Summary.Identified++
		}
	})
	s := index.Summary
	common.LogInfo(common.InfoFrameSummary, s.Frames, s.Decoded, s.Failed, s.Audio)
	return index, err
}

// bounds resolves the configured range against the image
func (d *DiscFileDecoder) bounds(reader *psx.CDReader) (int64, int64, error) {
	total := reader.TotalSectors()
	first, last := int64(d.start), int64(d.end)
	if last == 0 || last > total {
		last = total
	}
	if first >= last {
		return 0, 0, common.FormatErrorString(common.ErrInvalidSectorRange, "%d..%d of %d sectors", first, last, total)
	}
	return first, last, nil
}

// walk feeds sectors in order to a fresh stream demuxer. Every stream is
// closed on return, including after a cancellation.
func (d *DiscFileDecoder) walk(ctx context.Context, reader *psx.CDReader, listener demux.Listener, visit func(cs *sector.ClassifiedSector)) error {
	first, last, err := d.bounds(reader)
	if err != nil {
		return err
	}

	mux := demux.NewStreamDemuxer(d.classifier, listener, d.options)
	defer mux.Close()

	for lba := first; lba < last; lba++ {
		if err := ctx.Err(); err != nil {
			common.LogInfo(common.InfoTraversalStopped, lba, err)
			return err
		}
		s, err := reader.ReadSector(lba)
		if err != nil {
			return err
		}
		cs := mux.Feed(s)
		visit(&cs)
	}
	return nil
}

func describeSector(cs *sector.ClassifiedSector) SectorRecord {
	rec := SectorRecord{
		Sector:     cs.Sector.Index,
		Kind:       cs.Kind.String(),
		Confidence: cs.Confidence,
		Channel:    cs.Channel(),
	}
	if lba, err := common.SafeIntToUint32(cs.Sector.Index); err == nil {
		rec.MSF = common.LBAToMSF(lba)
	}

	switch h := cs.Header.(type) {
	case *sector.VideoChunk:
		rec.Detail = fmt.Sprintf("frame %d chunk %d/%d %dx%d v%d", h.Frame, h.Chunk+1, h.Chunks, h.Width, h.Height, h.Version)
	case *sector.AudioChunk:
		rec.Detail = fmt.Sprintf("frame %d chunk %d/%d", h.Frame, h.Chunk+1, h.Chunks)
	case *sector.XAAudio:
		mode := "mono"
		if h.Stereo {
			mode = "stereo"
		}
		rec.Detail = fmt.Sprintf("file %d %d Hz %d-bit %s", h.File, h.SampleRate, h.BitsPerSample, mode)
	case *sector.EAChunk:
		if h.Start {
			rec.Detail = "packet " + h.Tag
		} else {
			rec.Detail = "continuation"
		}
	case *sector.VolumeDescriptor:
		rec.Detail = volumeLabel(h.ISODescriptor)
	case *sector.NullChunk:
		rec.Detail = "null"
	}
	return rec
}

func volumeLabel(d *psx.ISODescriptor) string {
	return strings.TrimRight(string(d.VolumeID[:]), " \x00")
}

// IndexBuilder fills a FrameIndex from demux events. Frames are decoded as
// they arrive, reusing one bitstream context.
type IndexBuilder struct {
	index  *FrameIndex
	decode bool
	ctx    *bitstream.Context
}

// NewIndexBuilder creates a listener that appends to index
func NewIndexBuilder(index *FrameIndex, decode bool) *IndexBuilder {
	return &IndexBuilder{index: index, decode: decode, ctx: bitstream.NewContext()}
}

// FrameComplete records a frame and decodes it when enabled
func (b *IndexBuilder) FrameComplete(f *demux.DemuxedFrame) {
	rec := FrameRecord{
		Stream:      f.Stream,
		Number:      f.Number.String(),
		Movie:       f.Movie,
		HeaderFrame: f.HeaderFrame,
		Width:       f.Width,
		Height:      f.Height,
		StartSector: f.StartSector,
		EndSector:   f.EndSector,
		Size:        len(f.Data),
		Status:      StatusDemuxed,
	}
	b.index.Summary.Frames++
	if b.decode {
		b.decodeFrame(f, &rec)
	}
	b.index.Frames = append(b.index.Frames, rec)
}

func (b *IndexBuilder) decodeFrame(f *demux.DemuxedFrame, rec *FrameRecord) {
	in, ok := bitstream.FromFrame(f)
	if !ok {
		err := common.Unsupported("%s: %s", common.ErrFailedToDecodeFrame, f.Kind)
		b.failed(rec, StatusUnsupported, err)
		common.LogWarn(common.WarnFrameUnsupported, rec.Number, err)
		return
	}

	p, err := bitstream.Decode(b.ctx, in)
	if p != nil {
		rec.Version = p.Header.Version
		rec.QuantScale = p.Header.QuantScale
		rec.Macroblocks = len(p.Macroblocks)
		rec.Decoded = p.Decoded
	}
	switch {
	case err == nil:
		rec.Status = StatusDecoded
		b.index.Summary.Decoded++
	case errors.Is(err, common.ErrUnsupportedVariant):
		b.failed(rec, StatusUnsupported, err)
		common.LogWarn(common.WarnFrameUnsupported, in.Name, err)
	default:
		b.failed(rec, StatusCorrupt, err)
		common.LogWarn(common.WarnFrameCorrupted, in.Name, err)
	}
}

func (b *IndexBuilder) failed(rec *FrameRecord, status string, err error) {
	rec.Status = status
	rec.Error = err.Error()
	b.index.Summary.Failed++
}

// AudioComplete records an audio packet
func (b *IndexBuilder) AudioComplete(a *demux.AudioPacket) {
	b.index.Summary.Audio++
	b.index.Audio = append(b.index.Audio, AudioRecord{
		Stream:      a.Stream,
		StartSector: a.StartSector,
		EndSector:   a.EndSector,
		Channels:    a.Channels,
		SampleRate:  a.SampleRate,
		Samples:     a.Samples,
		Timing:      a.Timing.String(),
		Seconds:     a.Timing.Seconds(),
		Size:        len(a.Data),
	})
}

// TableComplete records a runtime VLC table
func (b *IndexBuilder) TableComplete(t *demux.TablePacket) {
	b.index.Tables = append(b.index.Tables, TableRecord{
		Stream:      t.Stream,
		Movie:       t.Movie,
		StartSector: t.StartSector,
		EndSector:   t.EndSector,
		Entries:     t.Table.Len(),
	})
}

// EndOfStream records how a stream ended
func (b *IndexBuilder) EndOfStream(stream string, sector int, err error) {
	rec := StreamRecord{Stream: stream, Sector: sector}
	if err != nil {
		rec.Error = err.Error()
		b.index.Summary.Corruptions++
	}
	b.index.Streams = append(b.index.Streams, rec)
}
