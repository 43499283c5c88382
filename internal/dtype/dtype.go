package dtype

import (
	"bytes"
	"errors"
	"fmt"
)

// TimestampColumn is the only 8-byte column decoded as an integer.
const TimestampColumn = "frame-timestamp"

// ErrUnknownWidth is returned for element widths with no inferred type.
var ErrUnknownWidth = errors.New("unknown column byte width")

// Type is the inferred scalar type of a particle column.
type Type uint8

// Column types.
const (
	Bool8 Type = iota + 1
	Int32
	Int64Timestamp
	Float64
)

// Infer returns the column type for an element width and column name.
func Infer(width int, name []byte) (Type, error) {
	switch width {
	case 1:
		return Bool8, nil
	case 4:
		return Int32, nil
	case 8:
		if bytes.Equal(name, []byte(TimestampColumn)) {
			return Int64Timestamp, nil
		}
		return Float64, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownWidth, width)
	}
}

func (t Type) String() string {
	switch t {
	case Bool8:
		return "bool8"
	case Int32:
		return "int32"
	case Int64Timestamp:
		return "int64-timestamp"
	case Float64:
		return "float64"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}
