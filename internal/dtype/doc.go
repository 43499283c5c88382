// Package dtype provides particle column type inference.
//
// Particle files do not carry explicit type tags. Each column header only
// declares the byte width of one element, and the scalar type is inferred
// from that width and, for 8-byte columns, from the column name:
//
//	Width | Name              | Type
//	------|-------------------|----------------
//	1     | any               | Bool8
//	4     | any               | Int32
//	8     | "frame-timestamp" | Int64Timestamp
//	8     | any other         | Float64
//	other | any               | error (ErrUnknownWidth)
//
// # Key Functions
//
//   - [Infer]: Maps a column width and name to a [Type]
//
// Elements are decoded by the particle package through the little-endian
// cursor in internal/binary, one getter per [Type].
package dtype
