package rawimage

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrInvalidGeometry is returned for non-positive dimensions or batch sizes.
var ErrInvalidGeometry = errors.New("invalid image geometry")

// SampleSize is the size in bytes of one raw sample.
const SampleSize = 2

// Geometry describes how frames are laid out in batch files.
type Geometry struct {
	DimX           int
	DimY           int
	FramesPerBatch int
}

// FrameSize returns the number of samples in one frame.
func (g Geometry) FrameSize() int {
	return g.DimX * g.DimY
}

// FrameBytes returns the number of bytes one frame occupies in a batch.
func (g Geometry) FrameBytes() int {
	return g.FrameSize() * SampleSize
}

// Validate rejects geometries that cannot address any frame.
func (g Geometry) Validate() error {
	switch {
	case g.DimX <= 0:
		return fmt.Errorf("%w: DimX %d", ErrInvalidGeometry, g.DimX)
	case g.DimY <= 0:
		return fmt.Errorf("%w: DimY %d", ErrInvalidGeometry, g.DimY)
	case g.FramesPerBatch <= 0:
		return fmt.Errorf("%w: FramesPerBatch %d", ErrInvalidGeometry, g.FramesPerBatch)
	}
	return nil
}

// BatchName returns the file name of batch b.
func BatchName(batch int) string {
	return fmt.Sprintf("img%06d.dat", batch)
}

// IsBatchName reports whether name looks like a raw image batch file.
func IsBatchName(name string) bool {
	base := path.Base(name)
	return strings.Contains(base, "img") && strings.HasSuffix(base, ".dat")
}

// Locate maps a global frame index to its batch and position in the batch.
func Locate(global int, g Geometry) (batch, index int) {
	return global / g.FramesPerBatch, global % g.FramesPerBatch
}
