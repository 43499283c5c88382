package frameindex

import (
	"cmp"
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	ErrNotFound       = errors.New("frame not found")
	ErrUnsorted       = errors.New("frame table is not sorted")
	ErrStagnantSearch = errors.New("frame search did not advance")
	ErrInvalidMode    = errors.New("invalid z-stack mode")
)

// Mode is the z-stack acquisition mode.
type Mode uint8

const (
	// Sequential acquires every z position of one probe before the next probe.
	Sequential Mode = iota + 1
	// Interleaved acquires every probe at one z position before moving z.
	Interleaved
)

// ParseMode parses the ZStackMode manifest value.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sequential":
		return Sequential, nil
	case "interleaved":
		return Interleaved, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

func (m Mode) String() string {
	switch m {
	case Sequential:
		return "sequential"
	case Interleaved:
		return "interleaved"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// Order returns the axes compared between Cycle and Frame, most significant
// first.
func (m Mode) Order() Order {
	if m == Interleaved {
		return Order{AxisZPos, AxisProbe}
	}
	return Order{AxisProbe, AxisZPos}
}

// Axis names a coordinate field whose significance depends on the mode.
type Axis uint8

// Mode-dependent axes.
const (
	AxisProbe Axis = iota
	AxisZPos
)

// Order is the tie-break order applied after Timepoint and Cycle.
type Order [2]Axis

// Coord is a logical frame coordinate.
type Coord struct {
	Timepoint int
	Cycle     int
	ZPos      int
	Probe     int
	Frame     int
}

func (c Coord) axis(a Axis) int {
	if a == AxisZPos {
		return c.ZPos
	}
	return c.Probe
}

func (c Coord) String() string {
	return fmt.Sprintf("(timepoint=%d cycle=%d z=%d probe=%d frame=%d)",
		c.Timepoint, c.Cycle, c.ZPos, c.Probe, c.Frame)
}

// Record is one row of the frame-info table.
type Record struct {
	Coord
	GlobalIndex int
}

// Compare orders a and b by Timepoint, Cycle, o[0], o[1], Frame.
// It returns -1, 0 or +1.
func Compare(a, b Coord, o Order) int {
	if c := cmp.Compare(a.Timepoint, b.Timepoint); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Cycle, b.Cycle); c != 0 {
		return c
	}
	if c := cmp.Compare(a.axis(o[0]), b.axis(o[0])); c != 0 {
		return c
	}
	if c := cmp.Compare(a.axis(o[1]), b.axis(o[1])); c != 0 {
		return c
	}
	return cmp.Compare(a.Frame, b.Frame)
}

// StackKey identifies one z-stack.
type StackKey struct {
	Timepoint int
	Cycle     int
	Probe     int
	Frame     int
}

// Index is an immutable, sorted frame table.
type Index struct {
	records []Record
	mode    Mode
	order   Order
}

// New builds an index over records, which must already be sorted for mode.
// The records are copied.
func New(records []Record, mode Mode) (*Index, error) {
	if mode != Sequential && mode != Interleaved {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMode, mode)
	}
	order := mode.Order()
	for i := 1; i < len(records); i++ {
		if Compare(records[i-1].Coord, records[i].Coord, order) > 0 {
			return nil, fmt.Errorf("%w: record %d %s sorts after record %d %s in %s mode",
				ErrUnsorted, i-1, records[i-1].Coord, i, records[i].Coord, mode)
		}
	}

	rs := make([]Record, len(records))
	copy(rs, records)
	return &Index{records: rs, mode: mode, order: order}, nil
}

// Len returns the number of records.
func (ix *Index) Len() int {
	return len(ix.records)
}

// Mode returns the z-stack mode the index is ordered by.
func (ix *Index) Mode() Mode {
	return ix.mode
}

// Records returns a copy of the records in table order.
func (ix *Index) Records() []Record {
	rs := make([]Record, len(ix.records))
	copy(rs, ix.records)
	return rs
}

// Resolve returns the global index of the record matching c exactly.
func (ix *Index) Resolve(c Coord) (int, error) {
	n := len(ix.records)
	if n == 0 {
		return 0, fmt.Errorf("%w: %s in empty table", ErrNotFound, c)
	}

	low, high := 0, n-1
	cl := Compare(ix.records[low].Coord, c, ix.order)
	if cl == 0 {
		return ix.records[low].GlobalIndex, nil
	}
	ch := Compare(ix.records[high].Coord, c, ix.order)
	if ch == 0 {
		return ix.records[high].GlobalIndex, nil
	}
	if cl > 0 || ch < 0 {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, c)
	}

	// records[low] < c < records[high]
	prev := -1
	for high-low > 1 {
		mid := low + (high-low)/2
		if mid == prev || mid <= low || mid >= high {
			return 0, fmt.Errorf("%w: bounds [%d, %d] midpoint %d resolving %s",
				ErrStagnantSearch, low, high, mid, c)
		}
		prev = mid

		switch r := Compare(ix.records[mid].Coord, c, ix.order); {
		case r > 0:
			high = mid
		case r < 0:
			low = mid
		default:
			return ix.records[mid].GlobalIndex, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrNotFound, c)
}

// ResolveStack resolves z = 0..numZ-1 for one (timepoint, cycle, probe,
// frame) and returns the global indices in ascending z order. Any missing
// slice fails the whole stack.
func (ix *Index) ResolveStack(key StackKey, numZ int) ([]int, error) {
	if numZ <= 0 {
		return nil, fmt.Errorf("invalid z-stack depth %d", numZ)
	}
	out := make([]int, numZ)
	for z := 0; z < numZ; z++ {
		g, err := ix.Resolve(Coord{
			Timepoint: key.Timepoint,
			Cycle:     key.Cycle,
			ZPos:      z,
			Probe:     key.Probe,
			Frame:     key.Frame,
		})
		if err != nil {
			return nil, fmt.Errorf("resolving z-stack slice %d of %d: %w", z, numZ, err)
		}
		out[z] = g
	}
	return out, nil
}

// Stacks returns the distinct stack keys in table order.
func (ix *Index) Stacks() []StackKey {
	seen := make(map[StackKey]struct{})
	var keys []StackKey
	for _, r := range ix.records {
		k := StackKey{Timepoint: r.Timepoint, Cycle: r.Cycle, Probe: r.Probe, Frame: r.Frame}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}
