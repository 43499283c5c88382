// Package frameindex maps logical frame coordinates to global frame indices.
//
// The SRX frame-info table lists one record per acquired frame, sorted by a
// composite key whose middle part depends on the z-stack acquisition mode:
//
//	Sequential:  Timepoint, Cycle, Probe, ZPos, Frame
//	Interleaved: Timepoint, Cycle, ZPos, Probe, Frame
//
// The mode is resolved once into an [Order] (the pair of axes between Cycle
// and Frame) and passed to [Compare] as data. [New] verifies that the records
// are sorted under that order, so [Index.Resolve] can binary search without
// re-deriving the mode on each comparison.
//
// # Search
//
// Resolve checks the first and last record directly, then keeps the query
// strictly between two bounds and probes the midpoint until the bounds are
// adjacent. Absent coordinates always terminate with [ErrNotFound]; a
// midpoint that fails to advance is reported as [ErrStagnantSearch] rather
// than looping or returning a wrong index.
//
// # Key Types
//
//   - [Mode]: Z-stack acquisition mode (Sequential or Interleaved)
//   - [Coord]: Logical (timepoint, cycle, z, probe, frame) coordinate
//   - [Record]: Coordinate plus its global index in the raw image store
//   - [Index]: Sorted, immutable lookup table
package frameindex
