package pkg

import (
	"context"
	"io"

	"github.com/hansbonini/strtools/pkg/psx"
)

// Frame decode outcomes recorded in the index
const (
	StatusDemuxed     = "demuxed"     // decoding disabled
	StatusDecoded     = "decoded"     // every macroblock decoded
	StatusCorrupt     = "corrupt"     // bitstream failed part way
	StatusUnsupported = "unsupported" // variant or version not handled
)

// SectorRecord describes one classified sector
type SectorRecord struct {
	Sector     int    `yaml:"sector"`
	MSF        string `yaml:"msf"`
	Kind       string `yaml:"kind"`
	Confidence int    `yaml:"confidence,omitempty"`
	Channel    int    `yaml:"channel,omitempty"`
	Detail     string `yaml:"detail,omitempty"`
}

// FrameRecord describes one demuxed video frame
type FrameRecord struct {
	Stream      string `yaml:"stream"`
	Number      string `yaml:"number"`
	Movie       int    `yaml:"movie,omitempty"`
	HeaderFrame int    `yaml:"header_frame"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	StartSector int    `yaml:"start_sector"`
	EndSector   int    `yaml:"end_sector"`
	Size        int    `yaml:"size"`
	Version     int    `yaml:"version,omitempty"`
	QuantScale  int    `yaml:"qscale,omitempty"`
	Macroblocks int    `yaml:"macroblocks,omitempty"`
	Decoded     int    `yaml:"decoded,omitempty"`
	Status      string `yaml:"status"`
	Error       string `yaml:"error,omitempty"`
}

// AudioRecord describes one audio packet
type AudioRecord struct {
	Stream      string  `yaml:"stream"`
	StartSector int     `yaml:"start_sector"`
	EndSector   int     `yaml:"end_sector"`
	Channels    int     `yaml:"channels"`
	SampleRate  int     `yaml:"sample_rate,omitempty"`
	Samples     int     `yaml:"samples,omitempty"`
	Timing      string  `yaml:"timing"`
	Seconds     float64 `yaml:"seconds"`
	Size        int     `yaml:"size"`
}

// TableRecord describes one runtime VLC table
type TableRecord struct {
	Stream      string `yaml:"stream"`
	Movie       int    `yaml:"movie"`
	StartSector int    `yaml:"start_sector"`
	EndSector   int    `yaml:"end_sector"`
	Entries     int    `yaml:"entries"`
}

// StreamRecord describes an end of stream, clean or not
type StreamRecord struct {
	Stream string `yaml:"stream"`
	Sector int    `yaml:"sector"`
	Error  string `yaml:"error,omitempty"`
}

// IndexSummary holds the counters of a traversal
type IndexSummary struct {
	Sectors     int `yaml:"sectors"`
	Identified  int `yaml:"identified"`
	Frames      int `yaml:"frames"`
	Decoded     int `yaml:"decoded"`
	Failed      int `yaml:"failed"`
	Audio       int `yaml:"audio"`
	Corruptions int `yaml:"corruptions"`
}

// FrameIndex is everything demuxed from one disc image
type FrameIndex struct {
	Image      string         `yaml:"image"`
	Volume     string         `yaml:"volume,omitempty"` // ISO9660 volume identifier
	SectorSize int            `yaml:"sector_size"`
	Summary    IndexSummary   `yaml:"summary"`
	Tables     []TableRecord  `yaml:"tables,omitempty"`
	Frames     []FrameRecord  `yaml:"frames,omitempty"`
	Audio      []AudioRecord  `yaml:"audio,omitempty"`
	Streams    []StreamRecord `yaml:"streams,omitempty"`
}

// DiscDecoder interface defines methods for traversing a disc image
type DiscDecoder interface {
	Sectors(ctx context.Context, reader *psx.CDReader) ([]SectorRecord, error)
	Frames(ctx context.Context, reader *psx.CDReader) (*FrameIndex, error)
}

// IndexExporter interface defines methods for exporting traversal results
type IndexExporter interface {
	ExportSectors(records []SectorRecord, writer io.Writer) error
	ExportIndex(index *FrameIndex, writer io.Writer) error
	SaveIndex(index *FrameIndex, outputFile string) error
}

// DiscProcessor combines decoder and exporter functionality
type DiscProcessor interface {
	DiscDecoder
	IndexExporter
	ListSectors(ctx context.Context, inputFile string, writer io.Writer) error
	Process(ctx context.Context, inputFile, outputFile string) (*FrameIndex, error)
}
