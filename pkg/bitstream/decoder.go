package bitstream

import (
	"github.com/hansbonini/strtools/pkg/bits"
	"github.com/hansbonini/strtools/pkg/common"
	"github.com/hansbonini/strtools/pkg/demux"
	"github.com/hansbonini/strtools/pkg/mdec"
	"github.com/hansbonini/strtools/pkg/vlc"
)

// v3 DC limits: the accumulated predictor must stay a 10-bit signed value
const (
	dcMin       = -512
	dcMax       = 511
	dcDiffScale = 4
)

// Input is one frame to decode
type Input struct {
	Name    string
	Variant Variant
	Width   int
	Height  int
	Data    []byte
	Table   *vlc.Table // runtime table, EA only
}

// FromFrame builds the input for a demuxed frame
func FromFrame(f *demux.DemuxedFrame) (Input, bool) {
	v, ok := VariantFor(f.Kind)
	if !ok {
		return Input{}, false
	}
	return Input{
		Name:    f.Stream + "/" + f.Number.String(),
		Variant: v,
		Width:   f.Width,
		Height:  f.Height,
		Data:    f.Data,
		Table:   f.Table,
	}, true
}

// Picture is the decoded frame. Macroblocks are in raster order and belong
// to the Context that decoded them.
type Picture struct {
	Header      Header
	Width       int
	Height      int
	MbWidth     int
	MbHeight    int
	Macroblocks []mdec.Macroblock
	Decoded     int // leading macroblocks fully decoded
}

// Complete reports whether every macroblock was decoded
func (p *Picture) Complete() bool {
	return p.Decoded == len(p.Macroblocks)
}

// Context holds the macroblock storage reused from one decode to the next
type Context struct {
	macroblocks []mdec.Macroblock
}

// NewContext creates an empty decode context
func NewContext() *Context {
	return &Context{}
}

func (c *Context) acquire(n int) []mdec.Macroblock {
	if cap(c.macroblocks) < n {
		c.macroblocks = make([]mdec.Macroblock, n)
	}
	mbs := c.macroblocks[:n]
	for i := range mbs {
		mbs[i].Reset()
	}
	return mbs
}

// Decode decodes one frame. On a corrupt or truncated bitstream the
// returned picture holds the macroblocks decoded before the failure and the
// error is a *common.BitstreamError.
func Decode(ctx *Context, in Input) (*Picture, error) {
	if ctx == nil {
		ctx = NewContext()
	}
	if in.Width < 1 || in.Height < 1 {
		return nil, common.CorruptBitstream("%s: %dx%d", common.ErrBadFrameHeader, in.Width, in.Height)
	}

	table := vlc.Standard()
	if in.Variant == VariantEA {
		if in.Table == nil {
			return nil, common.CorruptBitstream(common.ErrTableMissing)
		}
		table = in.Table
	}

	r, err := bits.NewReader(in.Data, 0, len(in.Data), in.Variant.ByteOrder())
	if err != nil {
		return nil, err
	}
	h, err := ReadHeader(r, in.Variant)
	if err != nil {
		return nil, err
	}

	mbw, mbh := mdec.MacroblockDims(in.Width, in.Height)
	p := &Picture{
		Header:      h,
		Width:       in.Width,
		Height:      in.Height,
		MbWidth:     mbw,
		MbHeight:    mbh,
		Macroblocks: ctx.acquire(mbw * mbh),
	}

	d := &blockDecoder{
		r:       r,
		table:   table,
		variant: in.Variant,
		header:  h,
		v3:      h.Version == 3 && in.Variant != VariantEA,
	}
	for i := range p.Macroblocks {
		mb := &p.Macroblocks[i]
		mb.X, mb.Y = i%mbw, i/mbw
		for b := range mb.Blocks {
			if err := d.decode(&mb.Blocks[b], b); err != nil {
				return p, &common.BitstreamError{Frame: in.Name, Macroblock: i, Block: b, Err: err}
			}
		}
		p.Decoded++
	}
	common.LogDebug(common.DebugFrameDecoded, in.Name, p.Decoded)
	return p, nil
}

// blockDecoder reads the blocks of one frame in order
type blockDecoder struct {
	r       *bits.Reader
	table   *vlc.Table
	variant Variant
	header  Header
	v3      bool
	dc      [3]int // Cr, Cb, Y predictors
}

func (d *blockDecoder) decode(b *mdec.Block, index int) error {
	b.Reset()
	qscale := d.header.QuantScale
	if mdec.IsChroma(index) {
		qscale = d.header.ChromaScale
	}

	dc, err := d.readDC(index)
	if err != nil {
		return err
	}
	b[0] = mdec.Dequantize(dc, 0, qscale)

	pos := 0
	for {
		e, err := d.table.Decode(d.r)
		if err != nil {
			return err
		}
		code := e.Code
		if code.EOB {
			break
		}
		if code.Escape {
			if code, err = d.readEscape(); err != nil {
				return err
			}
		}
		pos += code.Run + 1
		if pos > 63 {
			return common.CorruptBitstream("%s: position %d", common.ErrZigZagOverflow, pos)
		}
		b[mdec.ReverseZigZag[pos]] = mdec.Dequantize(code.Level, pos, qscale)
	}

	mdec.Transform(b)
	return nil
}

func (d *blockDecoder) readDC(index int) (int, error) {
	if !d.v3 {
		v, err := d.r.ReadSigned(10)
		return int(v), err
	}

	class, table := index, vlc.ChrominanceDCSize
	if !mdec.IsChroma(index) {
		class, table = 2, vlc.LuminanceDCSize
	}
	diff, err := vlc.ReadDCDifferential(d.r, table)
	if err != nil {
		return 0, err
	}
	dc := d.dc[class] + diff*dcDiffScale
	if dc < dcMin || dc > dcMax {
		return 0, common.CorruptBitstream("%s: %d", common.ErrDCOutOfRange, dc)
	}
	d.dc[class] = dc
	return dc, nil
}

// readEscape reads the explicit run and level after an escape code
func (d *blockDecoder) readEscape() (mdec.Code, error) {
	run, err := d.r.ReadUnsigned(6)
	if err != nil {
		return mdec.Code{}, err
	}

	var level int
	if d.variant == VariantEA {
		level, err = d.readMPEGLevel()
	} else {
		var v int32
		v, err = d.r.ReadSigned(10)
		level = int(v)
	}
	if err != nil {
		return mdec.Code{}, err
	}

	if level == 0 && !d.variant.AllowsZeroLevelEscape() {
		return mdec.Code{}, common.CorruptBitstream("%s: run %d", common.ErrZeroLevelEscape, run)
	}
	return mdec.Code{Run: int(run), Level: level, Escape: true}, nil
}

// readMPEGLevel reads an MPEG-1 escape level: 8 bits, or 16 when the first
// byte is 0x00 or 0x80
func (d *blockDecoder) readMPEGLevel() (int, error) {
	first, err := d.r.ReadUnsigned(8)
	if err != nil {
		return 0, err
	}
	switch {
	case first == 0x00:
		v, err := d.r.ReadUnsigned(8)
		return int(v), err
	case first == 0x80:
		v, err := d.r.ReadUnsigned(8)
		return int(v) - 256, err
	case first > 0x80:
		return int(first) - 256, nil
	}
	return int(first), nil
}
