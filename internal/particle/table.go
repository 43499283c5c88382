package particle

import (
	"bytes"

	"github.com/robert-malhotra/go-srx/internal/dtype"
)

// Column is a decoded particle column.
type Column struct {
	Name  []byte // raw header bytes, not necessarily valid UTF-8
	Width int    // element width in bytes
	Type  dtype.Type

	// Data is []bool, []int32 or []int64/[]float64 depending on Type.
	Data any
}

// Len returns the number of elements in the column.
func (c *Column) Len() int {
	switch d := c.Data.(type) {
	case []bool:
		return len(d)
	case []int32:
		return len(d)
	case []int64:
		return len(d)
	case []float64:
		return len(d)
	default:
		return 0
	}
}

// Bools returns the data of a Bool8 column, or nil.
func (c *Column) Bools() []bool {
	v, _ := c.Data.([]bool)
	return v
}

// Int32s returns the data of an Int32 column, or nil.
func (c *Column) Int32s() []int32 {
	v, _ := c.Data.([]int32)
	return v
}

// Int64s returns the data of an Int64Timestamp column, or nil.
func (c *Column) Int64s() []int64 {
	v, _ := c.Data.([]int64)
	return v
}

// Float64s returns the data of a Float64 column, or nil.
func (c *Column) Float64s() []float64 {
	v, _ := c.Data.([]float64)
	return v
}

// Value returns element i as bool, int32, int64 or float64.
func (c *Column) Value(i int) any {
	switch d := c.Data.(type) {
	case []bool:
		return d[i]
	case []int32:
		return d[i]
	case []int64:
		return d[i]
	case []float64:
		return d[i]
	default:
		return nil
	}
}

// Table is a decoded particle table. Every column holds NumPoints elements.
type Table struct {
	Columns   []Column
	NumPoints int
}

// Column returns the first column with the given name, or nil.
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if bytes.Equal(t.Columns[i].Name, []byte(name)) {
			return &t.Columns[i]
		}
	}
	return nil
}

// Names returns the column names in declared order.
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = string(c.Name)
	}
	return names
}

// RowWidth returns the encoded size of one row in bytes.
func (t *Table) RowWidth() int {
	w := 0
	for _, c := range t.Columns {
		w += c.Width
	}
	return w
}

func makeData(typ dtype.Type, n int) any {
	switch typ {
	case dtype.Bool8:
		return make([]bool, n)
	case dtype.Int32:
		return make([]int32, n)
	case dtype.Int64Timestamp:
		return make([]int64, n)
	default:
		return make([]float64, n)
	}
}
