package particle

import (
	"encoding/binary"
	"fmt"

	srxbin "github.com/robert-malhotra/go-srx/internal/binary"
	"github.com/robert-malhotra/go-srx/internal/dtype"
)

// minColumnHeader is the size of a column header with an empty name.
const minColumnHeader = 8

// Decode parses a complete particle buffer. The returned table does not
// reference buf.
func Decode(buf []byte) (*Table, error) {
	if len(buf) == 0 {
		return nil, &FormatError{Kind: KindEmpty}
	}

	r := srxbin.NewReader(buf, binary.LittleEndian)
	cols, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	rowWidth := 0
	for _, c := range cols {
		rowWidth += c.Width
	}

	remaining := r.Remaining()
	if rowWidth == 0 {
		if remaining > 0 {
			return nil, &FormatError{
				Kind:   KindInvalidHeader,
				Offset: r.Pos(),
				Err:    fmt.Errorf("no columns declared but %d data bytes follow", remaining),
			}
		}
		return &Table{Columns: cols}, nil
	}
	if remaining%rowWidth != 0 {
		full := remaining / rowWidth
		return nil, &FormatError{
			Kind:   KindTruncatedRow,
			Offset: r.Pos() + full*rowWidth,
			Err:    fmt.Errorf("%d trailing bytes do not form a %d-byte row", remaining%rowWidth, rowWidth),
		}
	}

	numPoints := remaining / rowWidth
	for i := range cols {
		cols[i].Data = makeData(cols[i].Type, numPoints)
	}

	for row := 0; row < numPoints; row++ {
		for i := range cols {
			if err := readElement(r, &cols[i], row); err != nil {
				return nil, &FormatError{Kind: KindTruncatedRow, Column: string(cols[i].Name), Offset: r.Pos(), Err: err}
			}
		}
	}

	return &Table{Columns: cols, NumPoints: numPoints}, nil
}

// readHeader parses the column count and every column descriptor, inferring
// each column's type as soon as its width is known.
func readHeader(r *srxbin.Reader) ([]Column, error) {
	numCols, err := r.ReadInt32()
	if err != nil {
		return nil, &FormatError{Kind: KindTruncatedHeader, Offset: r.Pos(), Err: err}
	}
	if numCols < 0 {
		return nil, &FormatError{
			Kind:   KindInvalidHeader,
			Offset: 0,
			Err:    fmt.Errorf("negative column count %d", numCols),
		}
	}
	if int(numCols) > r.Remaining()/minColumnHeader {
		return nil, &FormatError{
			Kind:   KindTruncatedHeader,
			Offset: r.Pos(),
			Err:    fmt.Errorf("%d columns declared but only %d bytes follow", numCols, r.Remaining()),
		}
	}

	cols := make([]Column, 0, numCols)
	for i := 0; i < int(numCols); i++ {
		col, err := readColumn(r, i)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return cols, nil
}

func readColumn(r *srxbin.Reader, index int) (Column, error) {
	start := r.Pos()
	nameLen, err := r.ReadInt32()
	if err != nil {
		return Column{}, &FormatError{Kind: KindTruncatedHeader, Offset: start, Err: fmt.Errorf("column %d name length: %w", index, err)}
	}
	if nameLen < 0 {
		return Column{}, &FormatError{Kind: KindInvalidHeader, Offset: start, Err: fmt.Errorf("column %d has negative name length %d", index, nameLen)}
	}

	raw, err := r.ReadBytes(int(nameLen))
	if err != nil {
		return Column{}, &FormatError{Kind: KindTruncatedHeader, Offset: r.Pos(), Err: fmt.Errorf("column %d name: %w", index, err)}
	}
	name := make([]byte, len(raw))
	copy(name, raw)

	widthPos := r.Pos()
	width, err := r.ReadInt32()
	if err != nil {
		return Column{}, &FormatError{Kind: KindTruncatedHeader, Column: string(name), Offset: widthPos, Err: err}
	}

	typ, err := dtype.Infer(int(width), name)
	if err != nil {
		return Column{}, &FormatError{Kind: KindUnknownWidth, Column: string(name), Offset: widthPos, Err: err}
	}

	return Column{Name: name, Width: int(width), Type: typ}, nil
}

// readElement decodes the next element of c into row.
func readElement(r *srxbin.Reader, c *Column, row int) error {
	var err error
	switch d := c.Data.(type) {
	case []bool:
		d[row], err = r.ReadBool()
	case []int32:
		d[row], err = r.ReadInt32()
	case []int64:
		d[row], err = r.ReadInt64()
	case []float64:
		d[row], err = r.ReadFloat64()
	default:
		err = fmt.Errorf("unsupported column type %s", c.Type)
	}
	return err
}
