package export

import (
	"fmt"
	"io"
	"math"

	"github.com/go-faster/jx"
	"github.com/robert-malhotra/go-srx/internal/particle"
)

// WriteJSONLines writes one JSON object per particle, keyed by column name.
// Non-finite floats are written as null.
func WriteJSONLines(w io.Writer, t *particle.Table) error {
	names := t.Names()
	var e jx.Encoder
	for row := 0; row < t.NumPoints; row++ {
		e.Reset()
		e.ObjStart()
		for i := range t.Columns {
			e.FieldStart(names[i])
			switch d := t.Columns[i].Data.(type) {
			case []bool:
				e.Bool(d[row])
			case []int32:
				e.Int32(d[row])
			case []int64:
				e.Int64(d[row])
			case []float64:
				if v := d[row]; math.IsNaN(v) || math.IsInf(v, 0) {
					e.Null()
				} else {
					e.Float64(v)
				}
			default:
				return fmt.Errorf("column %q: unsupported data %T", names[i], t.Columns[i].Data)
			}
		}
		e.ObjEnd()
		if _, err := w.Write(append(e.Bytes(), '\n')); err != nil {
			return fmt.Errorf("writing row %d: %w", row, err)
		}
	}
	return nil
}
