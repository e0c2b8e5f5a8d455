package demux

import (
	"fmt"

	"github.com/hansbonini/strtools/pkg/sector"
)

// Numbering selects how frame numbers are derived
type Numbering int

const (
	// NumberByHeader uses the frame number written in the chunk header
	NumberByHeader Numbering = iota
	// NumberBySector derives the number from the position in the stream
	NumberBySector
	// NumberByIndex counts frames
	NumberByIndex
)

func (n Numbering) String() string {
	switch n {
	case NumberByHeader:
		return "header"
	case NumberBySector:
		return "sector"
	case NumberByIndex:
		return "index"
	}
	return fmt.Sprintf("numbering(%d)", int(n))
}

// FrameNumber is a monotonic frame index. Duplicate is non zero when the
// source repeated or went back on a number.
type FrameNumber struct {
	Number    int
	Duplicate int
}

func (f FrameNumber) String() string {
	if f.Duplicate == 0 {
		return fmt.Sprintf("%d", f.Number)
	}
	return fmt.Sprintf("%d.%d", f.Number, f.Duplicate)
}

// Less orders frame numbers
func (f FrameNumber) Less(o FrameNumber) bool {
	if f.Number != o.Number {
		return f.Number < o.Number
	}
	return f.Duplicate < o.Duplicate
}

// FrameNumberer assigns numbers to the frames of one stream
type FrameNumberer struct {
	scheme      Numbering
	seen        bool
	last        FrameNumber
	count       int
	firstSector int
}

// NewFrameNumberer creates a numberer for one stream
func NewFrameNumberer(scheme Numbering) *FrameNumberer {
	return &FrameNumberer{scheme: scheme}
}

// Scheme returns the numbering scheme
func (n *FrameNumberer) Scheme() Numbering {
	return n.scheme
}

// Next numbers a frame from its header number and sector range
func (n *FrameNumberer) Next(headerFrame, startSector, endSector int) FrameNumber {
	var candidate int
	switch n.scheme {
	case NumberByHeader:
		candidate = headerFrame
	case NumberBySector:
		if !n.seen {
			n.firstSector = startSector
		}
		span := endSector - startSector + 1
		if span < 1 {
			span = 1
		}
		candidate = (startSector - n.firstSector) / span
	default:
		candidate = n.count
	}
	n.count++

	if n.seen && candidate <= n.last.Number {
		n.last.Duplicate++
		return n.last
	}
	n.seen = true
	n.last = FrameNumber{Number: candidate}
	return n.last
}

// NumberingFor returns the scheme a sector kind uses
func NumberingFor(kind sector.Kind) Numbering {
	switch kind {
	case sector.KindChronoCrossVideo:
		return NumberBySector
	case sector.KindEAData:
		return NumberByIndex
	}
	return NumberByHeader
}
