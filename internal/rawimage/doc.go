// Package rawimage retrieves camera frames from raw image batch files.
//
// The acquisition software writes frames in fixed-size batches. Batch b is
// stored in a file named img%06d.dat under the experiment's "Raw Images"
// directory and holds FramesPerBatch frames back to back, each frame being
// DimX*DimY unsigned 16-bit little-endian samples with no header:
//
//	batch file:  | frame 0 | frame 1 | ... | frame FramesPerBatch-1 |
//	frame:       DimX rows of DimY samples, row-major
//
// A global frame index g therefore lives in batch g/FramesPerBatch at
// position g%FramesPerBatch. The last batch of an experiment may be short;
// asking for a frame past its end is [ErrShortBatch].
//
// # Reading Frames
//
// A [Reader] reads whole batch blobs from a [blobstore.Store] and slices
// the requested frame out of them:
//
//	r, err := rawimage.NewReader(store, geom, rawimage.WithCache(cache.NewLRU(1<<30)))
//	img, err := r.ReadFrame(ctx, 150)
//
// Without a cache every call rereads the batch. Frames returned to callers
// never alias cached bytes.
//
// # Normalization
//
// [Normalize] divides every sample of a frame by the frame's L2 norm and
// returns float32 samples. An all-zero frame has no direction and is
// returned unscaled.
package rawimage
