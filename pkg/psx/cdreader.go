// Package psx provides PlayStation-specific CD-ROM reading functionality.
package psx

import (
	"fmt"
	"io"
	"os"

	"github.com/hansbonini/strtools/pkg/common"
)

// CDReader reads sectors from a raw (.bin, 2352 bytes per sector) or
// cooked (.iso, 2048 bytes per sector) disc image
type CDReader struct {
	file          io.ReaderAt
	closer        io.Closer
	sectorSize    int
	totalSectors  int64
	currentSector int64
	sectorBuffer  []byte
}

// NewCDReader opens a disc image. sectorSize may be 0 to detect it from
// the file size, otherwise CD_SECTOR_SIZE or CD_DATA_SIZE.
func NewCDReader(filename string, sectorSize int) (*CDReader, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToOpenImage, err)
	}

	// Get total sectors
	fileInfo, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}

	reader, err := NewCDReaderFrom(file, fileInfo.Size(), sectorSize)
	if err != nil {
		file.Close()
		return nil, err
	}
	reader.closer = file
	return reader, nil
}

// NewCDReaderFrom reads sectors from any io.ReaderAt of the given size
func NewCDReaderFrom(r io.ReaderAt, size int64, sectorSize int) (*CDReader, error) {
	if sectorSize == 0 {
		sectorSize = DetectSectorSize(size)
		if sectorSize == 0 {
			return nil, common.FormatErrorString(common.ErrUnsupportedImageSize, "%d bytes", size)
		}
	}
	if sectorSize != CD_SECTOR_SIZE && sectorSize != CD_DATA_SIZE {
		return nil, fmt.Errorf("unsupported sector size %d", sectorSize)
	}

	return &CDReader{
		file:          r,
		sectorSize:    sectorSize,
		totalSectors:  size / int64(sectorSize),
		currentSector: -1,
		sectorBuffer:  make([]byte, sectorSize),
	}, nil
}

// DetectSectorSize guesses the sector size from the image size, preferring raw sectors
func DetectSectorSize(size int64) int {
	switch {
	case size > 0 && size%CD_SECTOR_SIZE == 0:
		return CD_SECTOR_SIZE
	case size > 0 && size%CD_DATA_SIZE == 0:
		return CD_DATA_SIZE
	}
	return 0
}

func (r *CDReader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

// SectorSize returns the size of one sector in the image
func (r *CDReader) SectorSize() int {
	return r.sectorSize
}

// TotalSectors returns the number of whole sectors in the image
func (r *CDReader) TotalSectors() int64 {
	return r.totalSectors
}

// SeekToSector loads a sector into the internal buffer
func (r *CDReader) SeekToSector(lba int64) error {
	if lba >= r.totalSectors || lba < 0 {
		return fmt.Errorf("LBA %d out of bounds (total: %d)", lba, r.totalSectors)
	}

	offset := lba * int64(r.sectorSize)
	if _, err := r.file.ReadAt(r.sectorBuffer, offset); err != nil && err != io.EOF {
		return err
	}

	r.currentSector = lba
	return nil
}

// ReadSector reads one sector. The returned RawSector owns a copy of the bytes.
func (r *CDReader) ReadSector(lba int64) (*RawSector, error) {
	if err := r.SeekToSector(lba); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadSector, err)
	}

	raw := make([]byte, r.sectorSize)
	copy(raw, r.sectorBuffer)

	index, err := common.SafeInt64ToInt(lba)
	if err != nil {
		return nil, err
	}

	if r.sectorSize == CD_DATA_SIZE {
		return NewRawSector(index, raw), nil
	}
	return ParseRawSector(index, raw)
}

// ReadISODescriptor reads the ISO9660 descriptor from sector 16
func (r *CDReader) ReadISODescriptor() (*ISODescriptor, error) {
	sector, err := r.ReadSector(16)
	if err != nil {
		return nil, err
	}
	return ParseISODescriptor(sector.Data)
}
