package pkg

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hansbonini/strtools/pkg/common"
	"github.com/hansbonini/strtools/pkg/config"
	"github.com/hansbonini/strtools/pkg/psx"
	"github.com/q191201771/naza/pkg/nazaerrors"
	"gopkg.in/yaml.v3"
)

// YAMLExporter implements the IndexExporter interface
type YAMLExporter struct{}

// NewYAMLExporter creates a new exporter instance
func NewYAMLExporter() *YAMLExporter {
	return &YAMLExporter{}
}

// ExportSectors writes the sector listing as a YAML sequence
func (e *YAMLExporter) ExportSectors(records []SectorRecord, writer io.Writer) error {
	return e.encode(records, writer)
}

// ExportIndex writes the frame index as a YAML document
func (e *YAMLExporter) ExportIndex(index *FrameIndex, writer io.Writer) error {
	return e.encode(index, writer)
}

// SaveIndex writes the frame index to a file, creating parent directories
func (e *YAMLExporter) SaveIndex(index *FrameIndex, outputFile string) error {
	if dir := filepath.Dir(outputFile); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return common.FormatError(common.ErrFailedToCreateOutput, err)
		}
	}

	file, err := os.Create(outputFile)
	if err != nil {
		return common.FormatError(common.ErrFailedToCreateOutput, err)
	}
	defer file.Close()

	if err := e.ExportIndex(index, file); err != nil {
		return err
	}
	common.LogInfo(common.InfoFrameIndexSaved, outputFile)
	return nil
}

func (e *YAMLExporter) encode(value interface{}, writer io.Writer) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(value); err != nil {
		return common.FormatError(common.ErrFailedToWriteIndex, err)
	}
	if err := encoder.Close(); err != nil {
		return common.FormatError(common.ErrFailedToWriteIndex, err)
	}
	return nil
}

// DiscFileProcessor combines decoder and exporter functionality
type DiscFileProcessor struct {
	*DiscFileDecoder
	*YAMLExporter
	sectorSize int
}

// NewDiscProcessor creates a processor configured by cfg, or by the defaults when cfg is nil
func NewDiscProcessor(cfg *config.Config) (*DiscFileProcessor, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	decoder, err := NewDiscDecoder(cfg)
	if err != nil {
		return nil, err
	}
	return &DiscFileProcessor{
		DiscFileDecoder: decoder,
		YAMLExporter:    NewYAMLExporter(),
		sectorSize:      cfg.Image.SectorSize,
	}, nil
}

func (p *DiscFileProcessor) open(inputFile string) (*psx.CDReader, error) {
	reader, err := psx.NewCDReader(inputFile, p.sectorSize)
	if err != nil {
		return nil, err
	}
	common.LogInfo(common.InfoProcessingImage, inputFile, reader.TotalSectors(), reader.SectorSize())
	return reader, nil
}

// ListSectors classifies every sector of an image and writes the listing
func (p *DiscFileProcessor) ListSectors(ctx context.Context, inputFile string, writer io.Writer) error {
	reader, err := p.open(inputFile)
	if err != nil {
		return err
	}
	defer reader.Close()

	records, err := p.Sectors(ctx, reader)
	if err != nil {
		return fmt.Errorf("failed to classify sectors: %w", err)
	}
	return p.ExportSectors(records, writer)
}

// Process handles the complete workflow of demuxing, decoding and indexing an
// image. The index is written to outputFile, or discarded when it is empty.
// A cancelled traversal still saves what was indexed before the stop.
func (p *DiscFileProcessor) Process(ctx context.Context, inputFile, outputFile string) (*FrameIndex, error) {
	reader, err := p.open(inputFile)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	index, walkErr := p.Frames(ctx, reader)
	index.Image = filepath.Base(inputFile)

	if outputFile != "" {
		if err := p.SaveIndex(index, outputFile); err != nil {
			return index, nazaerrors.Wrap(err)
		}
	}
	if walkErr != nil {
		return index, fmt.Errorf("failed to index frames: %w", walkErr)
	}
	return index, nil
}
