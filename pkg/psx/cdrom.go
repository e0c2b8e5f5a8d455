// Package psx provides PlayStation-specific structures and functionality.
// This file contains CD-ROM related structures for PlayStation disc images.
package psx

import (
	"encoding/binary"
	"fmt"
)

// Sector size constants for PlayStation CD-ROM
const (
	CD_SECTOR_SIZE      = 2352 // Full CD sector size
	CD_DATA_SIZE        = 2048 // Data portion of Mode 2 Form 1 sector
	CD_FORM2_DATA_SIZE  = 2324 // Data portion of Mode 2 Form 2 sector
	CD_SYNC_SIZE        = 12   // Sync pattern size
	CD_HEADER_SIZE      = 4    // Header size (3 address bytes + 1 mode byte)
	CD_SUBHEADER_SIZE   = 8    // XA subheader (4 bytes, repeated)
	CD_USER_DATA_OFFSET = CD_SYNC_SIZE + CD_HEADER_SIZE + CD_SUBHEADER_SIZE
)

// XA submode flags
const (
	SubModeEOR      byte = 0x01 // End of record
	SubModeVideo    byte = 0x02
	SubModeAudio    byte = 0x04
	SubModeData     byte = 0x08
	SubModeTrigger  byte = 0x10
	SubModeForm2    byte = 0x20
	SubModeRealTime byte = 0x40
	SubModeEOF      byte = 0x80
)

// SubHeader is the CD-XA subheader of a Mode 2 sector
type SubHeader struct {
	File       byte
	Channel    byte
	SubMode    byte
	CodingInfo byte
}

// Has reports whether all bits of flag are set in the submode
func (s SubHeader) Has(flag byte) bool {
	return s.SubMode&flag == flag
}

// RawSector is one sector as handed over by the disc reader.
// Data is the user data area: 2048 bytes, or 2324 for Form 2 sectors.
type RawSector struct {
	Index     int        // Absolute sector index from the start of the image
	SubHeader *SubHeader // nil for 2048-byte images
	Data      []byte
}

// NewRawSector wraps user data with no subheader
func NewRawSector(index int, data []byte) *RawSector {
	return &RawSector{Index: index, Data: data}
}

// ParseRawSector splits a full 2352-byte sector into subheader and user data
func ParseRawSector(index int, raw []byte) (*RawSector, error) {
	if len(raw) < CD_SECTOR_SIZE {
		return nil, fmt.Errorf("sector %d: expected %d bytes, got %d", index, CD_SECTOR_SIZE, len(raw))
	}

	mode := raw[CD_SYNC_SIZE+3]
	if mode != 2 {
		// Mode 1: 2048 bytes right after the header, no subheader
		return &RawSector{Index: index, Data: raw[CD_SYNC_SIZE+CD_HEADER_SIZE : CD_SYNC_SIZE+CD_HEADER_SIZE+CD_DATA_SIZE]}, nil
	}

	sh := raw[CD_SYNC_SIZE+CD_HEADER_SIZE:]
	sub := &SubHeader{File: sh[0], Channel: sh[1], SubMode: sh[2], CodingInfo: sh[3]}

	size := CD_DATA_SIZE
	if sub.Has(SubModeForm2) {
		size = CD_FORM2_DATA_SIZE
	}

	return &RawSector{
		Index:     index,
		SubHeader: sub,
		Data:      raw[CD_USER_DATA_OFFSET : CD_USER_DATA_OFFSET+size],
	}, nil
}

// ISO9660 volume descriptor types
const (
	ISODescriptorBoot          byte = 0x00
	ISODescriptorPrimary       byte = 0x01
	ISODescriptorSupplementary byte = 0x02
	ISODescriptorPartition     byte = 0x03
	ISODescriptorTerminator    byte = 0xFF
)

// ISO9660 descriptor structure
type ISODescriptor struct {
	Type                byte     // Volume descriptor type
	ID                  [5]byte  // Standard identifier "CD001"
	Version             byte     // Volume descriptor version
	SystemID            [32]byte // System identifier
	VolumeID            [32]byte // Volume identifier
	VolumeSpaceSizeLSB  uint32   // Volume space size - little endian
	LogicalBlockSizeLSB uint16   // Logical block size - little endian
	PathTableSizeLSB    uint32   // Path table size - little endian
	PathTable1Offs      uint32   // LBA to Type-L path table
	RootDirRecord       [34]byte // Directory entry for root directory
}

// ParseISODescriptor decodes a volume descriptor from sector user data.
// Only the signature is required; numeric fields are filled for primary
// and supplementary descriptors.
func ParseISODescriptor(data []byte) (*ISODescriptor, error) {
	if len(data) < 7 || string(data[1:6]) != "CD001" {
		return nil, fmt.Errorf("invalid ISO9660 signature")
	}

	descriptor := &ISODescriptor{}
	descriptor.Type = data[0]
	copy(descriptor.ID[:], data[1:6])
	descriptor.Version = data[6]

	if (descriptor.Type == ISODescriptorPrimary || descriptor.Type == ISODescriptorSupplementary) && len(data) >= 190 {
		copy(descriptor.SystemID[:], data[8:40])
		copy(descriptor.VolumeID[:], data[40:72])
		descriptor.VolumeSpaceSizeLSB = binary.LittleEndian.Uint32(data[80:84])
		descriptor.LogicalBlockSizeLSB = binary.LittleEndian.Uint16(data[128:130])
		descriptor.PathTableSizeLSB = binary.LittleEndian.Uint32(data[132:136])
		descriptor.PathTable1Offs = binary.LittleEndian.Uint32(data[140:144])
		copy(descriptor.RootDirRecord[:], data[156:190])
	}

	return descriptor, nil
}
