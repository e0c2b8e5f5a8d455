package sector

import (
	"github.com/hansbonini/strtools/pkg/common"
	"github.com/hansbonini/strtools/pkg/psx"
)

type entry struct {
	kind  Kind
	parse validator
}

// precedence is the fixed validator order. More constrained layouts come
// first: the Chrono Cross null sector before its video sector, Lain (version
// 0, 6..10 chunks) and FF7 (version 1) before the generic STR v2/v3 layout,
// and the stateful EA continuation last.
var precedence = []entry{
	{KindISOVolume, parseISOVolume},
	{KindXAAudio, parseXAAudio},
	{KindFF8Audio, parseFF8Audio},
	{KindFF8Video, parseFF8Video},
	{KindChronoCrossNull, parseChronoCrossNull},
	{KindChronoCrossVideo, parseChronoCrossVideo},
	{KindLainVideo, parseLainVideo},
	{KindFF7Video, parseFF7Video},
	{KindSTRVideo, parseSTRVideo},
	{KindEAData, parseEAData},
}

// Precedence returns the kinds in the order they are tried
func Precedence() []Kind {
	kinds := make([]Kind, len(precedence))
	for i, e := range precedence {
		kinds[i] = e.kind
	}
	return kinds
}

// Classifier runs the enabled validators in precedence order
type Classifier struct {
	entries []entry
}

// NewClassifier enables the given kinds, or every kind when none is given
func NewClassifier(enabled ...Kind) *Classifier {
	if len(enabled) == 0 {
		return &Classifier{entries: precedence}
	}
	want := make(map[Kind]bool, len(enabled))
	for _, k := range enabled {
		want[k] = true
	}
	c := &Classifier{}
	for _, e := range precedence {
		if want[e.kind] {
			c.entries = append(c.entries, e)
		}
	}
	return c
}

// Classify returns the first matching layout. A sector nothing matches is
// unidentified with confidence 0.
func (c *Classifier) Classify(s *psx.RawSector, ctx StreamContext) ClassifiedSector {
	for _, e := range c.entries {
		h, confidence, ok := e.parse(s, ctx)
		if !ok {
			continue
		}
		common.LogDebug(common.DebugSectorClassified, s.Index, e.kind, confidence)
		return ClassifiedSector{Sector: s, Kind: e.kind, Confidence: confidence, Header: h}
	}
	return ClassifiedSector{Sector: s, Kind: KindUnidentified}
}
