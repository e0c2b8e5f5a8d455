package vlc

import (
	"fmt"

	"github.com/hansbonini/strtools/pkg/bits"
)

// SizeTable decodes the bit length of a DC differential
type SizeTable struct {
	name   string
	sizes  []int
	bits   []uint32
	length []int
	lookup prefixLookup
}

func newSizeTable(name string, patterns []string) *SizeTable {
	t := &SizeTable{name: name}
	for size, p := range patterns {
		value, length := parsePattern(p)
		t.sizes = append(t.sizes, size)
		t.bits = append(t.bits, value)
		t.length = append(t.length, length)
	}
	lookup, err := newPrefixLookup(len(patterns), func(i int) (uint32, int) {
		return t.bits[i], t.length[i]
	})
	if err != nil {
		panic(fmt.Sprintf("DC size table %s: %v", name, err))
	}
	t.lookup = lookup
	return t
}

// Name identifies the table in logs
func (t *SizeTable) Name() string {
	return t.name
}

// Decode reads a size code
func (t *SizeTable) Decode(r *bits.Reader) (int, error) {
	i, err := t.lookup.decode(r)
	if err != nil {
		return 0, err
	}
	return t.sizes[i], nil
}

// Pattern returns the code for a size
func (t *SizeTable) Pattern(size int) (uint32, int, bool) {
	if size < 0 || size >= len(t.sizes) {
		return 0, 0, false
	}
	return t.bits[size], t.length[size], true
}

// LuminanceDCSize and ChrominanceDCSize are the MPEG-1 dct_dc_size tables,
// indexed by size
var (
	LuminanceDCSize = newSizeTable("dc-luma", []string{
		"100", "00", "01", "101", "110", "1110", "11110", "111110", "1111110",
	})
	ChrominanceDCSize = newSizeTable("dc-chroma", []string{
		"00", "01", "10", "110", "1110", "11110", "111110", "1111110", "11111110",
	})
)

// ReadDCDifferential reads a size code then the differential bits
func ReadDCDifferential(r *bits.Reader, table *SizeTable) (int, error) {
	size, err := table.Decode(r)
	if err != nil || size == 0 {
		return 0, err
	}
	value, err := r.ReadUnsigned(size)
	if err != nil {
		return 0, err
	}
	if value&(1<<uint(size-1)) != 0 {
		return int(value), nil
	}
	return int(value) - (1 << uint(size)) + 1, nil
}

// WriteDCDifferential is the inverse of ReadDCDifferential
func WriteDCDifferential(w *bits.Writer, table *SizeTable, diff int) error {
	magnitude := diff
	if magnitude < 0 {
		magnitude = -magnitude
	}
	size := 0
	for magnitude > 0 {
		size++
		magnitude >>= 1
	}

	pattern, length, ok := table.Pattern(size)
	if !ok {
		return fmt.Errorf("DC differential %d needs %d bits", diff, size)
	}
	w.WriteUnsigned(pattern, length)
	if size == 0 {
		return nil
	}
	value := diff
	if diff < 0 {
		value = diff + (1 << uint(size)) - 1
	}
	w.WriteUnsigned(uint32(value), size)
	return nil
}
