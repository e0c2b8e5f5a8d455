// Package vlc implements the variable-length code tables that map bit
// patterns to MDEC run/level codes.
package vlc

import (
	"fmt"

	"github.com/hansbonini/strtools/pkg/bits"
	"github.com/hansbonini/strtools/pkg/common"
	"github.com/hansbonini/strtools/pkg/mdec"
)

// MaxCodeLength is the longest code in any table, sign bit included
const MaxCodeLength = 17

// Entry is one bit pattern and what it decodes to
type Entry struct {
	Length int    // pattern length in bits
	Bits   uint32 // pattern, right aligned
	Code   mdec.Code
}

func (e Entry) String() string {
	return fmt.Sprintf("%0*b -> %v", e.Length, e.Bits, e.Code)
}

type codeKey struct {
	run, level int
	escape     bool
	eob        bool
}

func keyOf(c mdec.Code) codeKey {
	return codeKey{run: c.Run, level: c.Level, escape: c.Escape, eob: c.EOB}
}

// Table decodes AC coefficients by longest prefix on a MaxCodeLength window
type Table struct {
	name    string
	entries []Entry
	lookup  prefixLookup
	reverse map[codeKey]int
}

// NewTable validates that entries form a prefix code and indexes them
func NewTable(name string, entries []Entry) (*Table, error) {
	lookup, err := newPrefixLookup(len(entries), func(i int) (uint32, int) {
		return entries[i].Bits, entries[i].Length
	})
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", name, err)
	}

	t := &Table{
		name:    name,
		entries: entries,
		lookup:  lookup,
		reverse: make(map[codeKey]int, len(entries)),
	}
	for i, e := range entries {
		k := keyOf(e.Code)
		if _, ok := t.reverse[k]; !ok {
			t.reverse[k] = i
		}
	}
	return t, nil
}

// Name identifies the table in logs
func (t *Table) Name() string {
	return t.name
}

// Len returns the number of entries
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns the entries in table order
func (t *Table) Entries() []Entry {
	return t.entries
}

// Decode consumes one code from r
func (t *Table) Decode(r *bits.Reader) (Entry, error) {
	i, err := t.lookup.decode(r)
	if err != nil {
		return Entry{}, err
	}
	return t.entries[i], nil
}

// Encode finds the pattern for a code; escape and EOB are matched by flag
func (t *Table) Encode(c mdec.Code) (Entry, bool) {
	if c.EOB {
		c = mdec.EndOfBlock()
	}
	if c.Escape {
		c = mdec.Code{Escape: true}
	}
	i, ok := t.reverse[keyOf(c)]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

// prefixLookup maps every MaxCodeLength-bit window to the entry whose
// pattern prefixes it. Slots hold entry index + 1, 0 means no match.
type prefixLookup struct {
	slots   []uint16
	lengths []int
}

func newPrefixLookup(n int, pattern func(i int) (uint32, int)) (prefixLookup, error) {
	l := prefixLookup{
		slots:   make([]uint16, 1<<MaxCodeLength),
		lengths: make([]int, n),
	}
	for i := 0; i < n; i++ {
		value, length := pattern(i)
		if length < 1 || length > MaxCodeLength {
			return prefixLookup{}, fmt.Errorf("entry %d: length %d outside 1..%d", i, length, MaxCodeLength)
		}
		if value >= 1<<uint(length) {
			return prefixLookup{}, fmt.Errorf("entry %d: pattern %b longer than %d bits", i, value, length)
		}
		l.lengths[i] = length

		shift := uint(MaxCodeLength - length)
		first := value << shift
		last := (value + 1) << shift
		for slot := first; slot < last; slot++ {
			if l.slots[slot] != 0 {
				return prefixLookup{}, fmt.Errorf("entry %d: pattern %0*b collides with entry %d", i, length, value, l.slots[slot]-1)
			}
			l.slots[slot] = uint16(i + 1)
		}
	}
	return l, nil
}

func (l prefixLookup) decode(r *bits.Reader) (int, error) {
	available := r.Remaining()
	if available > MaxCodeLength {
		available = MaxCodeLength
	}

	window, err := r.PeekUnsigned(available)
	if err != nil {
		return 0, err
	}
	window <<= uint(MaxCodeLength - available)

	slot := l.slots[window]
	if slot == 0 {
		if available < MaxCodeLength && l.anyMatch(window, MaxCodeLength-available) {
			return 0, bits.ErrEndOfData
		}
		return 0, common.CorruptBitstream(common.ErrUnmatchedVLC+": %0*b", available, window>>uint(MaxCodeLength-available))
	}

	i := int(slot - 1)
	if l.lengths[i] > available {
		return 0, bits.ErrEndOfData
	}
	if err := r.Skip(l.lengths[i]); err != nil {
		return 0, err
	}
	return i, nil
}

// anyMatch reports whether some value of the missing low bits of window
// completes a code
func (l prefixLookup) anyMatch(window uint32, missing int) bool {
	for slot := window; slot < window+1<<uint(missing); slot++ {
		if l.slots[slot] != 0 {
			return true
		}
	}
	return false
}
