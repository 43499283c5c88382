package particle

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/robert-malhotra/go-srx/internal/dtype"
)

// Mask returns the set of rows where the named Bool8 column is true.
func (t *Table) Mask(name string) (*roaring.Bitmap, error) {
	c := t.Column(name)
	if c == nil {
		return nil, fmt.Errorf("column %q not found", name)
	}
	if c.Type != dtype.Bool8 {
		return nil, fmt.Errorf("column %q is %s, not %s", name, c.Type, dtype.Bool8)
	}

	bm := roaring.New()
	for i, v := range c.Bools() {
		if v {
			bm.Add(uint32(i))
		}
	}
	return bm, nil
}

// Select returns a new table holding only the rows in rows, in ascending
// row order. Rows past NumPoints are ignored.
func (t *Table) Select(rows *roaring.Bitmap) *Table {
	keep := make([]int, 0, rows.GetCardinality())
	it := rows.Iterator()
	for it.HasNext() {
		i := int(it.Next())
		if i >= t.NumPoints {
			break
		}
		keep = append(keep, i)
	}

	out := &Table{Columns: make([]Column, len(t.Columns)), NumPoints: len(keep)}
	for ci, c := range t.Columns {
		nc := Column{Name: c.Name, Width: c.Width, Type: c.Type}
		switch d := c.Data.(type) {
		case []bool:
			nc.Data = gather(d, keep)
		case []int32:
			nc.Data = gather(d, keep)
		case []int64:
			nc.Data = gather(d, keep)
		case []float64:
			nc.Data = gather(d, keep)
		}
		out.Columns[ci] = nc
	}
	return out
}

func gather[T any](src []T, rows []int) []T {
	dst := make([]T, len(rows))
	for i, r := range rows {
		dst[i] = src[r]
	}
	return dst
}
