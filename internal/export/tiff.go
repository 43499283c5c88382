package export

import (
	"encoding/binary"
	"fmt"
	"image"
	"io"

	"github.com/robert-malhotra/go-srx/internal/rawimage"
	"golang.org/x/image/tiff"
)

// Gray16 converts a raw frame to an image whose rows are the frame's rows
// (height DimX, width DimY).
func Gray16(img *rawimage.Image) *image.Gray16 {
	out := image.NewGray16(image.Rect(0, 0, img.DimY, img.DimX))
	for i, v := range img.Pix {
		binary.BigEndian.PutUint16(out.Pix[2*i:], v)
	}
	return out
}

// WriteTIFF writes one frame as a deflate-compressed 16-bit grayscale TIFF.
func WriteTIFF(w io.Writer, img *rawimage.Image) error {
	if len(img.Pix) != img.DimX*img.DimY {
		return fmt.Errorf("frame has %d samples, want %dx%d", len(img.Pix), img.DimX, img.DimY)
	}
	if err := tiff.Encode(w, Gray16(img), &tiff.Options{Compression: tiff.Deflate}); err != nil {
		return fmt.Errorf("encoding tiff: %w", err)
	}
	return nil
}
