package pkg

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/hansbonini/strtools/pkg/common"
	"github.com/hansbonini/strtools/pkg/config"
	"github.com/hansbonini/strtools/pkg/demux"
	"github.com/hansbonini/strtools/pkg/psx"
	"github.com/hansbonini/strtools/pkg/sector"
	"github.com/hansbonini/strtools/pkg/vlc"
	"github.com/q191201771/naza/pkg/assert"
)

// dcOnlyBlocks holds six blocks of "DC 0, end of block" for one 16x16
// macroblock, as little-endian words
var dcOnlyBlocks = []uint16{0x0020, 0x0200, 0x2002, 0x0020, 0x0200}

// frameBitstream builds a version 2 bitstream for a 16x16 frame
func frameBitstream(qscale, version uint16) []byte {
	words := append([]uint16{6, sector.HeaderSentinel, qscale, version}, dcOnlyBlocks...)
	words = append(words, 0, 0, 0)
	data := make([]byte, 2*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint16(data[2*i:], w)
	}
	return data
}

// frameSector builds a single-chunk STR sector carrying bs
func frameSector(frame uint32, bs []byte) []byte {
	d := make([]byte, psx.CD_DATA_SIZE)
	binary.LittleEndian.PutUint32(d[0:], sector.MagicSTR)
	binary.LittleEndian.PutUint16(d[4:], 0)
	binary.LittleEndian.PutUint16(d[6:], 1)
	binary.LittleEndian.PutUint32(d[8:], frame)
	binary.LittleEndian.PutUint32(d[12:], uint32(len(bs)))
	binary.LittleEndian.PutUint16(d[16:], 16)
	binary.LittleEndian.PutUint16(d[18:], 16)
	binary.LittleEndian.PutUint16(d[20:], 6)
	binary.LittleEndian.PutUint16(d[22:], sector.HeaderSentinel)
	binary.LittleEndian.PutUint16(d[24:], 1)
	binary.LittleEndian.PutUint16(d[26:], 2)
	copy(d[sector.STRHeaderSize:], bs)
	return d
}

// testImage returns five 2048-byte sectors: an empty sector, a good frame,
// a frame with a zero quantization scale, a frame with an unknown bitstream
// version and another empty sector
func testImage() []byte {
	sectors := [][]byte{
		make([]byte, psx.CD_DATA_SIZE),
		frameSector(1, frameBitstream(1, 2)),
		frameSector(2, frameBitstream(0, 2)),
		frameSector(3, frameBitstream(1, 5)),
		make([]byte, psx.CD_DATA_SIZE),
	}
	return bytes.Join(sectors, nil)
}

func testReader(t *testing.T) *psx.CDReader {
	t.Helper()
	img := testImage()
	reader, err := psx.NewCDReaderFrom(bytes.NewReader(img), int64(len(img)), psx.CD_DATA_SIZE)
	if err != nil {
		t.Fatalf("NewCDReaderFrom() failed: %v", err)
	}
	return reader
}

func TestDiscFileDecoder_Frames(t *testing.T) {
	decoder, err := NewDiscDecoder(nil)
	if err != nil {
		t.Fatalf("NewDiscDecoder() failed: %v", err)
	}

	index, err := decoder.Frames(context.Background(), testReader(t))
	if err != nil {
		t.Fatalf("Frames() failed: %v", err)
	}

	assert.Equal(t, IndexSummary{Sectors: 5, Identified: 3, Frames: 3, Decoded: 1, Failed: 2}, index.Summary)
	assert.Equal(t, psx.CD_DATA_SIZE, index.SectorSize)
	assert.Equal(t, "", index.Volume)
	if len(index.Frames) != 3 {
		t.Fatalf("len(Frames) = %d, want 3", len(index.Frames))
	}

	good := index.Frames[0]
	assert.Equal(t, "str-video#0", good.Stream)
	assert.Equal(t, "1", good.Number)
	assert.Equal(t, StatusDecoded, good.Status)
	assert.Equal(t, 1, good.Macroblocks)
	assert.Equal(t, 1, good.Decoded)
	assert.Equal(t, 2, good.Version)
	assert.Equal(t, 1, good.QuantScale)
	assert.Equal(t, 24, good.Size)
	assert.Equal(t, 1, good.StartSector)

	if index.Frames[1].Status != StatusCorrupt || index.Frames[1].Error == "" {
		t.Errorf("frame 2 = %+v, want corrupt with an error", index.Frames[1])
	}
	if index.Frames[2].Status != StatusUnsupported || index.Frames[2].Error == "" {
		t.Errorf("frame 3 = %+v, want unsupported with an error", index.Frames[2])
	}

	assert.Equal(t, []StreamRecord{{Stream: "str-video#0", Sector: 4}}, index.Streams)
}

func TestDiscFileDecoder_FramesWithoutDecoding(t *testing.T) {
	cfg := config.Default()
	cfg.Decode = false
	decoder, err := NewDiscDecoder(cfg)
	if err != nil {
		t.Fatalf("NewDiscDecoder() failed: %v", err)
	}

	index, err := decoder.Frames(context.Background(), testReader(t))
	if err != nil {
		t.Fatalf("Frames() failed: %v", err)
	}
	for _, f := range index.Frames {
		if f.Status != StatusDemuxed {
			t.Errorf("frame %s status = %s, want %s", f.Number, f.Status, StatusDemuxed)
		}
	}
	assert.Equal(t, 0, index.Summary.Failed)
}

func TestDiscFileDecoder_FramesVolumeLabel(t *testing.T) {
	img := testImage()
	for len(img) < 16*psx.CD_DATA_SIZE {
		img = append(img, make([]byte, psx.CD_DATA_SIZE)...)
	}
	descriptor := make([]byte, psx.CD_DATA_SIZE)
	copy(descriptor, []byte{psx.ISODescriptorPrimary, 'C', 'D', '0', '0', '1', 1})
	copy(descriptor[40:], "MOVIES  ")
	img = append(img, descriptor...)

	reader, err := psx.NewCDReaderFrom(bytes.NewReader(img), int64(len(img)), psx.CD_DATA_SIZE)
	if err != nil {
		t.Fatalf("NewCDReaderFrom() failed: %v", err)
	}
	decoder, err := NewDiscDecoder(nil)
	if err != nil {
		t.Fatalf("NewDiscDecoder() failed: %v", err)
	}

	index, err := decoder.Frames(context.Background(), reader)
	if err != nil {
		t.Fatalf("Frames() failed: %v", err)
	}
	assert.Equal(t, "MOVIES", index.Volume)
	assert.Equal(t, 17, index.Summary.Sectors)
	assert.Equal(t, 3, index.Summary.Frames)
}

func TestDiscFileDecoder_Cancelled(t *testing.T) {
	decoder, err := NewDiscDecoder(nil)
	if err != nil {
		t.Fatalf("NewDiscDecoder() failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	index, err := decoder.Frames(ctx, testReader(t))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Frames() error = %v, want context.Canceled", err)
	}
	assert.Equal(t, 0, index.Summary.Sectors)
	assert.Equal(t, 0, len(index.Frames))
}

func TestDiscFileDecoder_Sectors(t *testing.T) {
	decoder, err := NewDiscDecoder(nil)
	if err != nil {
		t.Fatalf("NewDiscDecoder() failed: %v", err)
	}

	records, err := decoder.Sectors(context.Background(), testReader(t))
	if err != nil {
		t.Fatalf("Sectors() failed: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("len(records) = %d, want 5", len(records))
	}
	assert.Equal(t, SectorRecord{Sector: 0, MSF: "00:02:00", Kind: "unidentified"}, records[0])
	assert.Equal(t, "str-video", records[1].Kind)
	assert.Equal(t, 100, records[1].Confidence)
	assert.Equal(t, "frame 1 chunk 1/1 16x16 v2", records[1].Detail)
}

func TestDiscFileDecoder_Range(t *testing.T) {
	tests := []struct {
		name    string
		start   int
		end     int
		want    []int
		wantErr bool
	}{
		{"middle", 1, 3, []int{1, 2}, false},
		{"end past image", 3, 50, []int{3, 4}, false},
		{"start past image", 5, 0, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Image.StartSector = tt.start
			cfg.Image.EndSector = tt.end
			decoder, err := NewDiscDecoder(cfg)
			if err != nil {
				t.Fatalf("NewDiscDecoder() failed: %v", err)
			}

			records, err := decoder.Sectors(context.Background(), testReader(t))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Sectors() error = %v, wantErr %v", err, tt.wantErr)
			}
			var got []int
			for _, r := range records {
				got = append(got, r.Sector)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewDiscDecoder_UnknownFormat(t *testing.T) {
	cfg := config.Default()
	cfg.Formats = []string{"not-a-format"}
	if _, err := NewDiscDecoder(cfg); err == nil {
		t.Error("NewDiscDecoder() should fail for an unknown format")
	}
}

func TestIndexBuilder(t *testing.T) {
	index := &FrameIndex{}
	b := NewIndexBuilder(index, true)

	b.TableComplete(&demux.TablePacket{Stream: "ea-data#0", StartSector: 2, EndSector: 2, Table: vlc.Standard()})
	b.AudioComplete(&demux.AudioPacket{
		Stream:     "xa-audio#1",
		Channels:   2,
		SampleRate: 37800,
		Samples:    2016,
		Timing:     demux.Fraction{Num: 2016, Den: 37800},
		Data:       make([]byte, 2304),
	})
	b.FrameComplete(&demux.DemuxedFrame{Stream: "xa-audio#1", Kind: sector.KindXAAudio, Width: 16, Height: 16})
	b.EndOfStream("ea-data#0", 9, &common.StreamError{Sector: 9, Stream: "ea-data#0", Err: common.ErrCorruptStream})
	b.EndOfStream("xa-audio#1", 10, nil)

	assert.Equal(t, []TableRecord{{Stream: "ea-data#0", StartSector: 2, EndSector: 2, Entries: vlc.Standard().Len()}}, index.Tables)
	assert.Equal(t, "2016/37800", index.Audio[0].Timing)
	assert.Equal(t, 2304, index.Audio[0].Size)
	assert.Equal(t, StatusUnsupported, index.Frames[0].Status)
	assert.Equal(t, IndexSummary{Frames: 1, Failed: 1, Audio: 1, Corruptions: 1}, index.Summary)
	if index.Streams[0].Error == "" || index.Streams[1].Error != "" {
		t.Errorf("Streams = %+v, want only the first corrupt", index.Streams)
	}
}

func TestDescribeSector(t *testing.T) {
	s := psx.NewRawSector(3, nil)
	tests := []struct {
		name   string
		header sector.Header
		want   string
	}{
		{"ff8 audio", &sector.AudioChunk{Chunk: 1, Chunks: 10, Frame: 4}, "frame 4 chunk 2/10"},
		{"xa", &sector.XAAudio{File: 1, SampleRate: 18900, BitsPerSample: 4}, "file 1 18900 Hz 4-bit mono"},
		{"ea start", &sector.EAChunk{Start: true, Tag: "VLC0"}, "packet VLC0"},
		{"ea continuation", &sector.EAChunk{}, "continuation"},
		{"null", &sector.NullChunk{}, "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := describeSector(&sector.ClassifiedSector{Sector: s, Header: tt.header})
			if got.Detail != tt.want {
				t.Errorf("describeSector() = %q, want %q", got.Detail, tt.want)
			}
		})
	}
}
