package particle

import (
	srxbin "github.com/robert-malhotra/go-srx/internal/binary"
)

// colSpec describes one column header for test fixtures.
type colSpec struct {
	name  string
	width int32
}

// writeHeader encodes a particle header.
func writeHeader(w *srxbin.Writer, cols ...colSpec) {
	w.WriteInt32(int32(len(cols)))
	for _, c := range cols {
		w.WriteInt32(int32(len(c.name)))
		w.WriteBytes([]byte(c.name))
		w.WriteInt32(c.width)
	}
}

// encodeTable re-encodes a decoded table into the particle wire format.
func encodeTable(t *Table) []byte {
	w := srxbin.NewWriter(nil)
	w.WriteInt32(int32(len(t.Columns)))
	for _, c := range t.Columns {
		w.WriteInt32(int32(len(c.Name)))
		w.WriteBytes(c.Name)
		w.WriteInt32(int32(c.Width))
	}
	for row := 0; row < t.NumPoints; row++ {
		for _, c := range t.Columns {
			switch d := c.Data.(type) {
			case []bool:
				w.WriteBool(d[row])
			case []int32:
				w.WriteInt32(d[row])
			case []int64:
				w.WriteInt64(d[row])
			case []float64:
				w.WriteFloat64(d[row])
			}
		}
	}
	return w.Bytes()
}
