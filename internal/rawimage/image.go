package rawimage

import (
	"math"
)

// Image is one raw frame: DimX rows of DimY samples.
type Image struct {
	DimX int
	DimY int
	Pix  []uint16
}

// NewImage allocates a zeroed frame.
func NewImage(dimX, dimY int) *Image {
	return &Image{DimX: dimX, DimY: dimY, Pix: make([]uint16, dimX*dimY)}
}

// At returns the sample at row x, column y.
func (m *Image) At(x, y int) uint16 {
	return m.Pix[x*m.DimY+y]
}

// Set stores the sample at row x, column y.
func (m *Image) Set(x, y int, v uint16) {
	m.Pix[x*m.DimY+y] = v
}

// FloatImage is a normalized frame with the same shape as Image.
type FloatImage struct {
	DimX int
	DimY int
	Pix  []float32
}

// At returns the sample at row x, column y.
func (m *FloatImage) At(x, y int) float32 {
	return m.Pix[x*m.DimY+y]
}

// Stack holds the frames of one z-stack, ordered by ascending z.
type Stack []*Image

// FloatStack holds normalized frames ordered by ascending z.
type FloatStack []*FloatImage

// Normalize scales a frame to unit L2 norm. A frame whose norm is zero is
// converted to float32 without scaling.
func Normalize(img *Image) *FloatImage {
	out := &FloatImage{DimX: img.DimX, DimY: img.DimY, Pix: make([]float32, len(img.Pix))}

	var sum float64
	for _, v := range img.Pix {
		f := float64(v)
		sum += f * f
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		for i, v := range img.Pix {
			out.Pix[i] = float32(v)
		}
		return out
	}
	for i, v := range img.Pix {
		out.Pix[i] = float32(float64(v) / norm)
	}
	return out
}

// NormalizeStack normalizes every frame of s independently.
func NormalizeStack(s Stack) FloatStack {
	out := make(FloatStack, len(s))
	for i, img := range s {
		out[i] = Normalize(img)
	}
	return out
}

// Volume is every frame of an experiment reshaped to
// (probes, z, DimY, DimX).
type Volume struct {
	Probes int
	Z      int
	DimY   int
	DimX   int
	Pix    []uint16
}

// At returns the sample at the given position.
func (v *Volume) At(probe, z, y, x int) uint16 {
	return v.Pix[((probe*v.Z+z)*v.DimY+y)*v.DimX+x]
}

// Plane returns the samples of one (probe, z) plane. The slice aliases the
// volume.
func (v *Volume) Plane(probe, z int) []uint16 {
	n := v.DimY * v.DimX
	off := (probe*v.Z + z) * n
	return v.Pix[off : off+n]
}
