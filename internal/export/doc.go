// Package export writes decoded SRX data in formats other tools read.
//
// Particle tables go to Parquet (one column per particle column, typed
// after the inferred element type) or to JSON lines (one object per
// particle). Raw frames go to 16-bit grayscale TIFF, one file per frame.
package export
