package rawimage

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/robert-malhotra/go-srx/blobstore"
	srxbin "github.com/robert-malhotra/go-srx/internal/binary"
	"github.com/robert-malhotra/go-srx/internal/cache"
)

// DefaultDir is the directory, relative to the experiment root, that holds
// the batch files.
const DefaultDir = "Raw Images"

var (
	// ErrShortBatch is returned when a batch file ends before the requested frame.
	ErrShortBatch = errors.New("batch file too short")

	// ErrInvalidIndex is returned for negative global frame indices.
	ErrInvalidIndex = errors.New("invalid frame index")

	// ErrSampleCount is returned when the samples on disk do not fill the
	// requested volume shape exactly.
	ErrSampleCount = errors.New("sample count does not match shape")
)

// Option configures a Reader.
type Option func(*Reader)

// WithCache keeps recently read batch blobs in c.
func WithCache(c *cache.LRU) Option {
	return func(r *Reader) {
		r.cache = c
	}
}

// WithDir reads batches from dir instead of DefaultDir.
func WithDir(dir string) Option {
	return func(r *Reader) {
		r.dir = dir
	}
}

// Reader retrieves frames from batch files in a store.
type Reader struct {
	store blobstore.Store
	geom  Geometry
	dir   string
	cache *cache.LRU
}

// NewReader creates a frame reader. The geometry is validated once here.
func NewReader(store blobstore.Store, g Geometry, opts ...Option) (*Reader, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	r := &Reader{store: store, geom: g, dir: DefaultDir}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Geometry returns the frame layout the reader was created with.
func (r *Reader) Geometry() Geometry {
	return r.geom
}

// BatchPath returns the store name of batch b.
func (r *Reader) BatchPath(batch int) string {
	return path.Join(r.dir, BatchName(batch))
}

// readBatch returns the bytes of a batch, from the cache when possible.
// The result may be shared with the cache and must not be modified.
func (r *Reader) readBatch(ctx context.Context, name string) ([]byte, error) {
	if r.cache != nil {
		if data, ok := r.cache.Get(name); ok {
			return data, nil
		}
	}
	data, err := blobstore.ReadAll(ctx, r.store, name)
	if err != nil {
		return nil, err
	}
	if r.cache != nil {
		r.cache.Set(name, data)
	}
	return data, nil
}

// ReadFrame reads the frame with the given global index.
func (r *Reader) ReadFrame(ctx context.Context, global int) (*Image, error) {
	if global < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIndex, global)
	}
	batch, index := Locate(global, r.geom)
	name := r.BatchPath(batch)

	data, err := r.readBatch(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("reading batch %s: %w", name, err)
	}

	frameBytes := r.geom.FrameBytes()
	start := index * frameBytes
	if start+frameBytes > len(data) {
		return nil, fmt.Errorf("%w: %s holds %d bytes, frame %d (index %d) needs [%d, %d)",
			ErrShortBatch, name, len(data), global, index, start, start+frameBytes)
	}

	img := NewImage(r.geom.DimX, r.geom.DimY)
	if err := srxbin.NewReader(data, nil).At(start).ReadUint16s(img.Pix); err != nil {
		return nil, fmt.Errorf("decoding frame %d: %w", global, err)
	}
	return img, nil
}

// ReadStack reads the frames for globals in order. Any failure fails the
// whole stack.
func (r *Reader) ReadStack(ctx context.Context, globals []int) (Stack, error) {
	stack := make(Stack, len(globals))
	for z, g := range globals {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := r.ReadFrame(ctx, g)
		if err != nil {
			return nil, fmt.Errorf("reading z-stack slice %d: %w", z, err)
		}
		stack[z] = img
	}
	return stack, nil
}

// Batches lists the batch files in the raw image directory in name order.
func (r *Reader) Batches(ctx context.Context) ([]string, error) {
	names, err := r.store.List(ctx, r.dir+"/")
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", r.dir, err)
	}
	var batches []string
	for _, n := range names {
		if path.Dir(n) == r.dir && IsBatchName(n) {
			batches = append(batches, n)
		}
	}
	return batches, nil
}

// ReadAll concatenates every batch in name order and reshapes the samples
// to (numProbes, numZ, DimY, DimX).
func (r *Reader) ReadAll(ctx context.Context, numProbes, numZ int) (*Volume, error) {
	if numProbes <= 0 || numZ <= 0 {
		return nil, fmt.Errorf("%w: %d probes x %d z positions", ErrInvalidGeometry, numProbes, numZ)
	}
	batches, err := r.Batches(ctx)
	if err != nil {
		return nil, err
	}

	v := &Volume{Probes: numProbes, Z: numZ, DimY: r.geom.DimY, DimX: r.geom.DimX}
	want := numProbes * numZ * r.geom.FrameSize()
	v.Pix = make([]uint16, 0, want)

	for _, name := range batches {
		data, err := r.readBatch(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("reading batch %s: %w", name, err)
		}
		if len(data)%SampleSize != 0 {
			return nil, fmt.Errorf("%w: %s has odd length %d", ErrSampleCount, name, len(data))
		}
		n := len(data) / SampleSize
		if len(v.Pix)+n > want {
			return nil, fmt.Errorf("%w: more than %d samples at %s", ErrSampleCount, want, name)
		}
		off := len(v.Pix)
		v.Pix = v.Pix[:off+n]
		if err := srxbin.NewReader(data, nil).ReadUint16s(v.Pix[off:]); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", name, err)
		}
	}
	if len(v.Pix) != want {
		return nil, fmt.Errorf("%w: have %d samples, want %d", ErrSampleCount, len(v.Pix), want)
	}
	return v, nil
}
