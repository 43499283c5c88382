package frameindex

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTable creates a sorted table for every combination of the given axis
// sizes, assigning global indices from base in table order.
func buildTable(mode Mode, timepoints, cycles, probes, zs, frames, base int) []Record {
	var recs []Record
	g := base
	for t := 0; t < timepoints; t++ {
		for c := 0; c < cycles; c++ {
			outer, inner := probes, zs
			if mode == Interleaved {
				outer, inner = zs, probes
			}
			for o := 0; o < outer; o++ {
				for i := 0; i < inner; i++ {
					for f := 0; f < frames; f++ {
						coord := Coord{Timepoint: t, Cycle: c, Probe: o, ZPos: i, Frame: f}
						if mode == Interleaved {
							coord.Probe, coord.ZPos = i, o
						}
						recs = append(recs, Record{Coord: coord, GlobalIndex: g})
						g++
					}
				}
			}
		}
	}
	return recs
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input    string
		expected Mode
	}{
		{"sequential", Sequential},
		{"interleaved", Interleaved},
		{" Sequential ", Sequential},
		{"INTERLEAVED", Interleaved},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := ParseMode("diagonal")
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestModeOrder(t *testing.T) {
	assert.Equal(t, Order{AxisProbe, AxisZPos}, Sequential.Order())
	assert.Equal(t, Order{AxisZPos, AxisProbe}, Interleaved.Order())
	assert.Equal(t, "sequential", Sequential.String())
	assert.Equal(t, "interleaved", Interleaved.String())
}

func TestCompare(t *testing.T) {
	a := Coord{Timepoint: 0, Cycle: 0, Probe: 0, ZPos: 1, Frame: 0}
	b := Coord{Timepoint: 0, Cycle: 0, Probe: 1, ZPos: 0, Frame: 0}

	// Sequential: probe dominates z
	assert.Equal(t, -1, Compare(a, b, Sequential.Order()))
	assert.Equal(t, 1, Compare(b, a, Sequential.Order()))

	// Interleaved: z dominates probe
	assert.Equal(t, 1, Compare(a, b, Interleaved.Order()))
	assert.Equal(t, -1, Compare(b, a, Interleaved.Order()))

	assert.Equal(t, 0, Compare(a, a, Sequential.Order()))

	tests := []struct {
		name string
		a, b Coord
		want int
	}{
		{"timepoint first", Coord{Timepoint: 1}, Coord{Cycle: 5, Probe: 5, ZPos: 5, Frame: 5}, 1},
		{"cycle before axes", Coord{Cycle: 0, Probe: 9}, Coord{Cycle: 1}, -1},
		{"frame last", Coord{Frame: 2}, Coord{Frame: 1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, mode := range []Mode{Sequential, Interleaved} {
				assert.Equal(t, tt.want, Compare(tt.a, tt.b, mode.Order()), "mode %s", mode)
			}
		})
	}
}

func TestResolveProbeMajorScenario(t *testing.T) {
	recs := []Record{
		{Coord: Coord{Probe: 0, ZPos: 0}, GlobalIndex: 10},
		{Coord: Coord{Probe: 0, ZPos: 1}, GlobalIndex: 11},
		{Coord: Coord{Probe: 1, ZPos: 0}, GlobalIndex: 12},
		{Coord: Coord{Probe: 1, ZPos: 1}, GlobalIndex: 13},
	}
	ix, err := New(recs, Sequential)
	require.NoError(t, err)

	g, err := ix.Resolve(Coord{Timepoint: 0, Cycle: 0, ZPos: 1, Probe: 1, Frame: 0})
	require.NoError(t, err)
	assert.Equal(t, 13, g)

	g, err = ix.Resolve(Coord{ZPos: 0, Probe: 1})
	require.NoError(t, err)
	assert.Equal(t, 12, g)
}

func TestResolveEveryRecord(t *testing.T) {
	for _, mode := range []Mode{Sequential, Interleaved} {
		t.Run(mode.String(), func(t *testing.T) {
			recs := buildTable(mode, 2, 3, 2, 4, 2, 100)
			ix, err := New(recs, mode)
			require.NoError(t, err)

			// boundary records take the direct path, the rest the search
			for _, r := range recs {
				g, err := ix.Resolve(r.Coord)
				require.NoError(t, err, "resolving %s", r.Coord)
				assert.Equal(t, r.GlobalIndex, g, "resolving %s", r.Coord)
			}
		})
	}
}

func TestResolveNonContiguousGlobalIndex(t *testing.T) {
	recs := buildTable(Sequential, 1, 1, 3, 3, 1, 0)
	for i := range recs {
		recs[i].GlobalIndex = 1000 - 7*i
	}
	ix, err := New(recs, Sequential)
	require.NoError(t, err)

	for _, r := range recs {
		g, err := ix.Resolve(r.Coord)
		require.NoError(t, err)
		assert.Equal(t, r.GlobalIndex, g)
	}
}

func TestResolveTerminatesOnMissing(t *testing.T) {
	for _, mode := range []Mode{Sequential, Interleaved} {
		for n := 0; n <= 9; n++ {
			t.Run(fmt.Sprintf("%s/len=%d", mode, n), func(t *testing.T) {
				// even frame numbers only, so odd frames are gaps
				recs := make([]Record, n)
				for i := range recs {
					recs[i] = Record{Coord: Coord{Frame: 2 * i}, GlobalIndex: i}
				}
				ix, err := New(recs, mode)
				require.NoError(t, err)

				missing := []Coord{
					{Frame: -1},
					{Frame: 2 * n},
					{Timepoint: 1},
					{Cycle: -1},
				}
				for i := 0; i < n; i++ {
					missing = append(missing, Coord{Frame: 2*i + 1})
				}
				for _, c := range missing {
					_, err := ix.Resolve(c)
					assert.ErrorIs(t, err, ErrNotFound, "resolving %s", c)
					assert.False(t, errors.Is(err, ErrStagnantSearch))
				}
			})
		}
	}
}

func TestResolveSingleRecord(t *testing.T) {
	ix, err := New([]Record{{Coord: Coord{Cycle: 2}, GlobalIndex: 5}}, Sequential)
	require.NoError(t, err)

	g, err := ix.Resolve(Coord{Cycle: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, g)

	_, err = ix.Resolve(Coord{Cycle: 3})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewRejectsUnsorted(t *testing.T) {
	// sorted for sequential but not for interleaved
	recs := buildTable(Sequential, 1, 1, 2, 2, 1, 0)

	_, err := New(recs, Sequential)
	require.NoError(t, err)

	_, err = New(recs, Interleaved)
	assert.ErrorIs(t, err, ErrUnsorted)

	_, err = New(recs, Mode(0))
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestNewCopiesRecords(t *testing.T) {
	recs := buildTable(Sequential, 1, 1, 1, 2, 1, 0)
	ix, err := New(recs, Sequential)
	require.NoError(t, err)

	recs[0].GlobalIndex = 99
	g, err := ix.Resolve(recs[0].Coord)
	require.NoError(t, err)
	assert.Equal(t, 0, g)

	out := ix.Records()
	out[1].GlobalIndex = 99
	assert.Equal(t, 1, ix.Records()[1].GlobalIndex)
	assert.Equal(t, 2, ix.Len())
	assert.Equal(t, Sequential, ix.Mode())
}

func TestResolveStack(t *testing.T) {
	for _, mode := range []Mode{Sequential, Interleaved} {
		t.Run(mode.String(), func(t *testing.T) {
			recs := buildTable(mode, 1, 2, 3, 4, 1, 0)
			ix, err := New(recs, mode)
			require.NoError(t, err)

			key := StackKey{Timepoint: 0, Cycle: 1, Probe: 2, Frame: 0}
			got, err := ix.ResolveStack(key, 4)
			require.NoError(t, err)
			require.Len(t, got, 4)

			for z, g := range got {
				want, err := ix.Resolve(Coord{Cycle: 1, Probe: 2, ZPos: z})
				require.NoError(t, err)
				assert.Equal(t, want, g, "z=%d", z)
			}
		})
	}
}

func TestResolveStackFailsWhole(t *testing.T) {
	recs := buildTable(Sequential, 1, 1, 1, 3, 1, 0)
	ix, err := New(recs, Sequential)
	require.NoError(t, err)

	got, err := ix.ResolveStack(StackKey{}, 4)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "slice 3")

	_, err = ix.ResolveStack(StackKey{}, 0)
	assert.Error(t, err)
}

func TestStacks(t *testing.T) {
	recs := buildTable(Interleaved, 1, 2, 2, 3, 1, 0)
	ix, err := New(recs, Interleaved)
	require.NoError(t, err)

	stacks := ix.Stacks()
	assert.Equal(t, []StackKey{
		{Cycle: 0, Probe: 0},
		{Cycle: 0, Probe: 1},
		{Cycle: 1, Probe: 0},
		{Cycle: 1, Probe: 1},
	}, stacks)
}
