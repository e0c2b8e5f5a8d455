// Package psx provides tests for PSX CD-ROM sector reading.
package psx

import (
	"bytes"
	"testing"
)

// buildMode2Sector builds a full 2352-byte Mode 2 sector
func buildMode2Sector(sub SubHeader, data []byte) []byte {
	raw := make([]byte, CD_SECTOR_SIZE)
	copy(raw[1:11], bytes.Repeat([]byte{0xFF}, 10))
	raw[CD_SYNC_SIZE+3] = 2
	sh := []byte{sub.File, sub.Channel, sub.SubMode, sub.CodingInfo}
	copy(raw[16:20], sh)
	copy(raw[20:24], sh)
	copy(raw[CD_USER_DATA_OFFSET:], data)
	return raw
}

func TestParseRawSector_Form1(t *testing.T) {
	data := bytes.Repeat([]byte{0xAB}, CD_DATA_SIZE)
	raw := buildMode2Sector(SubHeader{Channel: 1, SubMode: SubModeData | SubModeRealTime}, data)

	sector, err := ParseRawSector(100, raw)
	if err != nil {
		t.Fatalf("ParseRawSector() failed: %v", err)
	}
	if sector.Index != 100 {
		t.Errorf("Index = %d, want 100", sector.Index)
	}
	if sector.SubHeader == nil || sector.SubHeader.Channel != 1 {
		t.Fatalf("SubHeader = %+v, want channel 1", sector.SubHeader)
	}
	if len(sector.Data) != CD_DATA_SIZE {
		t.Errorf("len(Data) = %d, want %d", len(sector.Data), CD_DATA_SIZE)
	}
	if !sector.SubHeader.Has(SubModeData) || sector.SubHeader.Has(SubModeAudio) {
		t.Errorf("SubMode flags wrong: 0x%02X", sector.SubHeader.SubMode)
	}
}

func TestParseRawSector_Form2(t *testing.T) {
	raw := buildMode2Sector(SubHeader{SubMode: SubModeAudio | SubModeForm2}, nil)

	sector, err := ParseRawSector(5, raw)
	if err != nil {
		t.Fatalf("ParseRawSector() failed: %v", err)
	}
	if len(sector.Data) != CD_FORM2_DATA_SIZE {
		t.Errorf("len(Data) = %d, want %d", len(sector.Data), CD_FORM2_DATA_SIZE)
	}
}

func TestParseRawSector_Short(t *testing.T) {
	if _, err := ParseRawSector(0, make([]byte, 100)); err == nil {
		t.Error("ParseRawSector() should fail with a short sector")
	}
}

func TestDetectSectorSize(t *testing.T) {
	tests := []struct {
		name     string
		size     int64
		expected int
	}{
		{"raw image", CD_SECTOR_SIZE * 10, CD_SECTOR_SIZE},
		{"iso image", CD_DATA_SIZE * 3, CD_DATA_SIZE},
		{"both divide", CD_SECTOR_SIZE * CD_DATA_SIZE, CD_SECTOR_SIZE},
		{"neither", 1000, 0},
		{"empty", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectSectorSize(tt.size); got != tt.expected {
				t.Errorf("DetectSectorSize(%d) = %d, want %d", tt.size, got, tt.expected)
			}
		})
	}
}

func TestCDReader_ReadSector(t *testing.T) {
	var image bytes.Buffer
	for i := 0; i < 20; i++ {
		data := make([]byte, CD_DATA_SIZE)
		data[0] = byte(i)
		if i == 16 {
			copy(data, []byte{ISODescriptorPrimary, 'C', 'D', '0', '0', '1', 1})
			copy(data[40:], "STRTOOLS")
			data[128] = 0x00
			data[129] = 0x08
		}
		image.Write(buildMode2Sector(SubHeader{SubMode: SubModeData}, data))
	}

	reader, err := NewCDReaderFrom(bytes.NewReader(image.Bytes()), int64(image.Len()), 0)
	if err != nil {
		t.Fatalf("NewCDReaderFrom() failed: %v", err)
	}
	defer reader.Close()

	if reader.SectorSize() != CD_SECTOR_SIZE {
		t.Errorf("SectorSize() = %d, want %d", reader.SectorSize(), CD_SECTOR_SIZE)
	}
	if reader.TotalSectors() != 20 {
		t.Errorf("TotalSectors() = %d, want 20", reader.TotalSectors())
	}

	sector, err := reader.ReadSector(7)
	if err != nil {
		t.Fatalf("ReadSector(7) failed: %v", err)
	}
	if sector.Index != 7 || sector.Data[0] != 7 {
		t.Errorf("ReadSector(7) = index %d first byte %d", sector.Index, sector.Data[0])
	}

	if _, err := reader.ReadSector(20); err == nil {
		t.Error("ReadSector(20) should fail past the end of the image")
	}

	descriptor, err := reader.ReadISODescriptor()
	if err != nil {
		t.Fatalf("ReadISODescriptor() failed: %v", err)
	}
	if descriptor.Type != ISODescriptorPrimary {
		t.Errorf("Type = %d, want %d", descriptor.Type, ISODescriptorPrimary)
	}
	if descriptor.LogicalBlockSizeLSB != 2048 {
		t.Errorf("LogicalBlockSizeLSB = %d, want 2048", descriptor.LogicalBlockSizeLSB)
	}
	if string(descriptor.VolumeID[:8]) != "STRTOOLS" {
		t.Errorf("VolumeID = %q", string(descriptor.VolumeID[:8]))
	}
}

func TestCDReader_CookedImage(t *testing.T) {
	image := make([]byte, CD_DATA_SIZE*2)
	image[CD_DATA_SIZE] = 0x42

	reader, err := NewCDReaderFrom(bytes.NewReader(image), int64(len(image)), CD_DATA_SIZE)
	if err != nil {
		t.Fatalf("NewCDReaderFrom() failed: %v", err)
	}

	sector, err := reader.ReadSector(1)
	if err != nil {
		t.Fatalf("ReadSector(1) failed: %v", err)
	}
	if sector.SubHeader != nil {
		t.Error("cooked sectors should have no subheader")
	}
	if sector.Data[0] != 0x42 || len(sector.Data) != CD_DATA_SIZE {
		t.Errorf("unexpected sector data: first=0x%02X len=%d", sector.Data[0], len(sector.Data))
	}
}

func TestParseISODescriptor_Invalid(t *testing.T) {
	if _, err := ParseISODescriptor([]byte{1, 'C', 'D', '0', '0', '2', 1}); err == nil {
		t.Error("ParseISODescriptor() should reject a bad signature")
	}
}
