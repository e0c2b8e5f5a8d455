package demux

import (
	"fmt"

	"github.com/hansbonini/strtools/pkg/common"
	"github.com/hansbonini/strtools/pkg/sector"
	"github.com/hansbonini/strtools/pkg/vlc"
)

// State is the position of a PacketReassembler in the packet it is reading
type State int

const (
	StateIdle       State = iota // no byte of the next packet buffered
	StateHeaderTag               // waiting for the 4-byte tag
	StateHeaderBody              // tag known, waiting for the size field
	StatePayload                 // size known, waiting for the payload
	StateEnded                   // sentinel seen or stream abandoned
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateHeaderTag:
		return "header-tag"
	case StateHeaderBody:
		return "header-body"
	case StatePayload:
		return "payload"
	case StateEnded:
		return "ended"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// EAAudioSampleRate is the rate used to time EA audio packets
const EAAudioSampleRate = 22050

// segment records which sector a run of buffered bytes came from and how
// many bytes of that sector precede it
type segment struct {
	sector int
	offset int
	length int
}

// PacketReassembler rebuilds EA packets from sector payloads. Bytes may
// arrive in pieces of any size; every Feed processes as many packets as the
// buffered bytes allow. Zero bytes between a packet and the end of its
// sector are padding; a zero tag at the start of a sector is the sentinel.
type PacketReassembler struct {
	name     string
	listener Listener
	state    State

	buf        []byte
	segments   []segment
	feedSector int
	feedOffset int

	tag         string
	size        int
	startSector int

	movie    int
	table    *vlc.Table
	numberer *FrameNumberer
}

// NewPacketReassembler creates a reassembler in the idle state
func NewPacketReassembler(name string, listener Listener) *PacketReassembler {
	return &PacketReassembler{
		name:       name,
		listener:   listener,
		numberer:   NewFrameNumberer(NumberByIndex),
		feedSector: -1,
	}
}

// Name identifies the stream
func (p *PacketReassembler) Name() string {
	return p.name
}

// State returns the current state
func (p *PacketReassembler) State() State {
	return p.state
}

// Buffered returns the number of bytes waiting for a packet
func (p *PacketReassembler) Buffered() int {
	return len(p.buf)
}

// Feed appends bytes read from sectorIndex and emits every packet they complete
func (p *PacketReassembler) Feed(sectorIndex int, data []byte) {
	if p.state == StateEnded || len(data) == 0 {
		return
	}
	if sectorIndex != p.feedSector {
		p.feedSector = sectorIndex
		p.feedOffset = 0
	}
	p.buf = append(p.buf, data...)
	if n := len(p.segments); n > 0 && p.segments[n-1].sector == sectorIndex {
		p.segments[n-1].length += len(data)
	} else {
		p.segments = append(p.segments, segment{sector: sectorIndex, offset: p.feedOffset, length: len(data)})
	}
	p.feedOffset += len(data)

	for p.step(sectorIndex) {
	}
}

// Close ends the stream at sectorIndex. A partly buffered packet is corrupt.
func (p *PacketReassembler) Close(sectorIndex int) {
	if p.state == StateEnded {
		return
	}
	if len(p.buf) > 0 {
		p.fail(sectorIndex, common.CorruptStream("%s: %d bytes of packet %q", common.ErrIncompleteFrame, len(p.buf), p.tag))
		return
	}
	p.end(sectorIndex, nil)
}

// step performs one transition; it returns false when more bytes are needed
func (p *PacketReassembler) step(sectorIndex int) bool {
	switch p.state {
	case StateIdle:
		if len(p.buf) == 0 {
			return false
		}
		if p.segments[0].offset > 0 && p.buf[0] == 0 {
			p.consume(p.padding())
			return len(p.buf) > 0
		}
		p.state = StateHeaderTag
		return true

	case StateHeaderTag:
		if len(p.buf) < 4 {
			return false
		}
		if sector.IsEASentinel(p.buf[:4]) {
			p.end(sectorIndex, nil)
			return false
		}
		tag := string(p.buf[:4])
		if _, _, ok := sector.EAPacketBounds(tag); !ok {
			p.fail(sectorIndex, common.CorruptStream("%s %q", common.ErrUnknownPacketTag, tag))
			return false
		}
		if tag == sector.EATagTable && p.table != nil {
			// a second table starts a new movie
			p.listener.EndOfStream(p.name, sectorIndex, nil)
			p.movie++
			p.table = nil
			p.numberer = NewFrameNumberer(NumberByIndex)
			common.LogInfo(common.InfoMovieStarted, p.segments[0].sector)
		}
		p.tag = tag
		p.startSector = p.segments[0].sector
		p.state = StateHeaderBody
		return true

	case StateHeaderBody:
		if len(p.buf) < sector.EAHeaderSize {
			return false
		}
		min, max, _ := sector.EAPacketBounds(p.tag)
		size := int(common.Uint32BE(p.buf, 4))
		if size < min || size > max {
			p.fail(sectorIndex, common.CorruptStream("%s: %q size %d outside %d..%d", common.ErrPacketSizeOutOfBounds, p.tag, size, min, max))
			return false
		}
		common.LogDebug(common.DebugPacketHeader, p.tag, size, p.startSector)
		p.size = size
		p.state = StatePayload
		return true

	case StatePayload:
		if len(p.buf) < p.size {
			return false
		}
		endSector := p.sectorAt(p.size - 1)
		consumed, err := p.emit(p.buf[:p.size], endSector)
		if err == nil && consumed != p.size {
			err = common.CorruptStream("%s: %q declared %d, consumed %d", common.ErrPayloadSizeMismatch, p.tag, p.size, consumed)
		}
		if err != nil {
			p.fail(sectorIndex, err)
			return false
		}
		p.consume(p.size)
		p.state = StateIdle
		return true
	}
	return false
}

// emit parses a complete packet and hands it to the listener. It returns
// the number of bytes the parsed packet accounts for.
func (p *PacketReassembler) emit(packet []byte, endSector int) (int, error) {
	body := packet[sector.EAHeaderSize:]

	switch p.tag {
	case sector.EATagTable:
		words := make([]uint16, len(body)/2)
		for i := range words {
			words[i] = common.Uint16LE(body, 2*i)
		}
		table, err := vlc.BuildRuntimeTable(fmt.Sprintf("%s/movie%d", p.name, p.movie), words)
		if err != nil {
			return 0, err
		}
		p.table = table
		common.LogInfo(common.InfoTableLoaded, p.startSector)
		p.listener.TableComplete(&TablePacket{
			Stream:      p.name,
			Movie:       p.movie,
			StartSector: p.startSector,
			EndSector:   endSector,
			Table:       table,
		})
		return sector.EAHeaderSize + 2*len(words), nil

	case sector.EATagFrame:
		if p.table == nil {
			return 0, common.CorruptStream(common.ErrTableMissing)
		}
		width := int(common.Uint16LE(body, 0))
		height := int(common.Uint16LE(body, 2))
		if width == 0 || height == 0 {
			return 0, common.CorruptStream("%s: %dx%d", common.ErrBadFrameHeader, width, height)
		}
		bitstream := make([]byte, len(body)-4)
		copy(bitstream, body[4:])
		f := &DemuxedFrame{
			Stream:      p.name,
			Kind:        sector.KindEAData,
			Movie:       p.movie,
			Number:      p.numberer.Next(-1, p.startSector, endSector),
			HeaderFrame: -1,
			Width:       width,
			Height:      height,
			StartSector: p.startSector,
			EndSector:   endSector,
			Table:       p.table,
			Data:        bitstream,
		}
		common.LogDebug(common.DebugFrameEmitted, f.Number, width, height, f.StartSector, f.EndSector, len(bitstream))
		p.listener.FrameComplete(f)
		return sector.EAHeaderSize + 4 + len(bitstream), nil

	default:
		samples := int(common.Uint32LE(body, 0))
		data := make([]byte, len(body)-4)
		copy(data, body[4:])
		a := &AudioPacket{
			Stream:      p.name,
			Kind:        sector.KindEAData,
			StartSector: p.startSector,
			EndSector:   endSector,
			Channels:    1,
			SampleRate:  EAAudioSampleRate,
			Samples:     samples,
			Timing:      Fraction{Num: samples, Den: EAAudioSampleRate},
			Data:        data,
		}
		if p.tag == sector.EATagAudio1 {
			a.Channels = 2
		}
		common.LogDebug(common.DebugAudioEmitted, p.name, a.StartSector, a.EndSector, samples)
		p.listener.AudioComplete(a)
		return sector.EAHeaderSize + 4 + len(data), nil
	}
}

// sectorAt returns the sector the buffered byte at pos came from
func (p *PacketReassembler) sectorAt(pos int) int {
	for _, s := range p.segments {
		if pos < s.length {
			return s.sector
		}
		pos -= s.length
	}
	return p.segments[len(p.segments)-1].sector
}

// padding counts the zero bytes at the front of the buffer that belong to
// the first buffered sector
func (p *PacketReassembler) padding() int {
	n := 0
	for n < p.segments[0].length && p.buf[n] == 0 {
		n++
	}
	return n
}

// consume drops n bytes from the front of the buffer
func (p *PacketReassembler) consume(n int) {
	p.buf = p.buf[n:]
	for n > 0 && len(p.segments) > 0 {
		if p.segments[0].length > n {
			p.segments[0].length -= n
			p.segments[0].offset += n
			break
		}
		n -= p.segments[0].length
		p.segments = p.segments[1:]
	}
	if len(p.buf) == 0 {
		p.buf = nil
		p.segments = nil
	}
	p.tag = ""
	p.size = 0
}

func (p *PacketReassembler) end(sectorIndex int, err error) {
	p.state = StateEnded
	p.buf = nil
	p.segments = nil
	common.LogInfo(common.InfoStreamEnded, p.name, sectorIndex)
	p.listener.EndOfStream(p.name, sectorIndex, err)
}

func (p *PacketReassembler) fail(sectorIndex int, err error) {
	serr := &common.StreamError{Sector: sectorIndex, Stream: p.name, Err: err}
	common.LogWarn(common.WarnStreamCorrupted, p.name, sectorIndex, err)
	p.end(sectorIndex, serr)
}
