package particle

import (
	"errors"
	"fmt"
)

// ErrFormat matches every particle decoding failure.
var ErrFormat = errors.New("invalid particle file")

// Kind classifies a FormatError.
type Kind uint8

// Failure kinds, in the order a decoder can hit them.
const (
	KindEmpty Kind = iota + 1
	KindTruncatedHeader
	KindInvalidHeader
	KindUnknownWidth
	KindTruncatedRow
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty input"
	case KindTruncatedHeader:
		return "truncated header"
	case KindInvalidHeader:
		return "invalid header"
	case KindUnknownWidth:
		return "unknown column width"
	case KindTruncatedRow:
		return "truncated row"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// FormatError describes why a particle buffer could not be decoded.
type FormatError struct {
	Kind   Kind
	Column string // empty when no column is involved
	Offset int    // byte offset where the problem was detected
	Err    error  // underlying cause, may be nil
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("%v: %s at offset %d", ErrFormat, e.Kind, e.Offset)
	if e.Column != "" {
		msg += fmt.Sprintf(" (column %q)", e.Column)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both ErrFormat and the underlying cause to errors.Is/As.
func (e *FormatError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrFormat}
	}
	return []error{ErrFormat, e.Err}
}
