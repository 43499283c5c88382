// Package particle decodes SRX binary particle tables (particles.dat).
//
// A particle file is a self-describing, little-endian column table:
//
//	int32 numColumns
//	numColumns x {
//	    int32            nameLength
//	    byte[nameLength] name
//	    int32            elementByteWidth
//	}
//	rows until end of buffer, each row holding one element per column in
//	declared order, with no length prefix or delimiter
//
// Column types are inferred from the element width (see package dtype).
// Decoding is a single pass over a fully materialized buffer; compressed
// files are expanded by package filter before they reach [Decode].
//
// # Validation
//
// [Decode] rejects empty input, short or negative header fields, unknown
// element widths and a trailing partial row. Every rejection is a
// [*FormatError] that matches [ErrFormat] with errors.Is and records the
// byte offset and column involved.
//
// # Key Types
//
//   - [Table]: Decoded column-major table
//   - [Column]: Column descriptor plus its typed data slice
//   - [FormatError]: Structured decode failure
package particle
