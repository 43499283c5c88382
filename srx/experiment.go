package srx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync/atomic"

	"github.com/robert-malhotra/go-srx/blobstore"
	"github.com/robert-malhotra/go-srx/internal/cache"
	"github.com/robert-malhotra/go-srx/internal/frameindex"
	"github.com/robert-malhotra/go-srx/internal/frameinfo"
	"github.com/robert-malhotra/go-srx/internal/manifest"
	"github.com/robert-malhotra/go-srx/internal/rawimage"
)

// DataConfigName is the recording configuration's name inside the raw
// image directory.
const DataConfigName = "data.json"

// Mode is the z-stack acquisition order.
type Mode = frameindex.Mode

// Z-stack modes.
const (
	Sequential  = frameindex.Sequential
	Interleaved = frameindex.Interleaved
)

type (
	// Coord is a logical frame coordinate.
	Coord = frameindex.Coord
	// StackKey identifies one z-stack.
	StackKey = frameindex.StackKey
	// Image is one raw frame: DimX rows of DimY samples.
	Image = rawimage.Image
	// FloatImage is a normalized frame.
	FloatImage = rawimage.FloatImage
	// Stack holds the frames of a z-stack in ascending z order.
	Stack = rawimage.Stack
	// FloatStack holds normalized frames in ascending z order.
	FloatStack = rawimage.FloatStack
	// Volume is every frame reshaped to (probes, z, DimY, DimX).
	Volume = rawimage.Volume
)

// Config is the acquisition geometry loaded from data.json.
type Config struct {
	DimX           int
	DimY           int
	FramesPerBatch int
	NumZPos        int
	Mode           Mode
}

// Experiment is an open SRX experiment directory. It is safe for
// concurrent use.
type Experiment struct {
	store  blobstore.Store
	cfg    Config
	index  *frameindex.Index
	reader *rawimage.Reader
	cache  *cache.LRU
	logger *slog.Logger
	closed atomic.Bool
}

// Open opens the experiment rooted at dir on the local file system.
func Open(ctx context.Context, dir string, opts ...Option) (*Experiment, error) {
	e, err := OpenStore(ctx, blobstore.NewLocalStore(dir), opts...)
	if err != nil {
		return nil, fmt.Errorf("opening experiment %s: %w", dir, err)
	}
	return e, nil
}

// OpenStore opens the experiment whose root is the root of store. It loads
// the recording configuration and frame table once; later reads only touch
// batch files.
func OpenStore(ctx context.Context, store blobstore.Store, opts ...Option) (*Experiment, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	cfgName := path.Join(o.rawDir, DataConfigName)
	dc, err := loadDataConfig(ctx, store, cfgName)
	if err != nil {
		return nil, err
	}
	mode, err := dc.Mode()
	if err != nil {
		return nil, translateError(fmt.Errorf("%s: %w", cfgName, err))
	}

	tableName := path.Join(o.rawDir, frameinfo.FileName)
	records, err := loadFrameTable(ctx, store, tableName)
	if err != nil {
		return nil, err
	}
	index, err := frameindex.New(records, mode)
	if err != nil {
		return nil, translateError(fmt.Errorf("indexing %s: %w", tableName, err))
	}

	e := &Experiment{
		store: store,
		cfg: Config{
			DimX:           dc.Image.DimX,
			DimY:           dc.Image.DimY,
			FramesPerBatch: dc.Recording.FramesPerBatch,
			NumZPos:        dc.Recording.NumZPos,
			Mode:           mode,
		},
		index:  index,
		logger: o.logger,
	}

	readerOpts := []rawimage.Option{rawimage.WithDir(o.rawDir)}
	if o.cacheBytes > 0 {
		e.cache = cache.NewLRU(o.cacheBytes)
		readerOpts = append(readerOpts, rawimage.WithCache(e.cache))
	}
	geom := rawimage.Geometry{DimX: e.cfg.DimX, DimY: e.cfg.DimY, FramesPerBatch: e.cfg.FramesPerBatch}
	e.reader, err = rawimage.NewReader(store, geom, readerOpts...)
	if err != nil {
		return nil, translateError(fmt.Errorf("%s: %w", cfgName, err))
	}

	e.logger.Info("opened experiment",
		"mode", mode,
		"frames", index.Len(),
		"dim_x", e.cfg.DimX,
		"dim_y", e.cfg.DimY,
		"frames_per_batch", e.cfg.FramesPerBatch,
		"num_z", e.cfg.NumZPos,
	)
	return e, nil
}

func loadDataConfig(ctx context.Context, store blobstore.Store, name string) (*manifest.DataConfig, error) {
	data, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s: %w", ErrConfigMissing, name, err)
		}
		return nil, translateError(fmt.Errorf("reading %s: %w", name, err))
	}
	dc, err := manifest.ReadDataConfig(bytes.NewReader(data))
	if err != nil {
		return nil, translateError(fmt.Errorf("%s: %w", name, err))
	}
	return dc, nil
}

func loadFrameTable(ctx context.Context, store blobstore.Store, name string) ([]frameindex.Record, error) {
	data, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s: %w", ErrConfigMissing, name, err)
		}
		return nil, translateError(fmt.Errorf("reading %s: %w", name, err))
	}
	records, err := frameinfo.Read(bytes.NewReader(data))
	if err != nil {
		return nil, translateError(fmt.Errorf("%s: %w", name, err))
	}
	return records, nil
}

func (e *Experiment) check(ctx context.Context) error {
	if e.closed.Load() {
		return ErrClosed
	}
	return ctx.Err()
}

// Config returns the acquisition geometry.
func (e *Experiment) Config() Config {
	return e.cfg
}

// Store returns the store the experiment reads from.
func (e *Experiment) Store() blobstore.Store {
	return e.store
}

// NumFrames returns the number of rows in the frame table.
func (e *Experiment) NumFrames() int {
	return e.index.Len()
}

// GlobalIndex resolves a logical coordinate to its global frame index.
func (e *Experiment) GlobalIndex(ctx context.Context, c Coord) (int, error) {
	if err := e.check(ctx); err != nil {
		return 0, err
	}
	g, err := e.index.Resolve(c)
	if err != nil {
		return 0, translateError(err)
	}
	return g, nil
}

// ZStackIndices resolves every z slice of a stack. A missing slice fails
// the whole stack.
func (e *Experiment) ZStackIndices(timepoint, cycle, probe, frame int) ([]int, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}
	key := StackKey{Timepoint: timepoint, Cycle: cycle, Probe: probe, Frame: frame}
	globals, err := e.index.ResolveStack(key, e.cfg.NumZPos)
	if err != nil {
		return nil, translateError(err)
	}
	return globals, nil
}

// ReadFrame reads one frame by global index.
func (e *Experiment) ReadFrame(ctx context.Context, global int) (*Image, error) {
	if err := e.check(ctx); err != nil {
		return nil, err
	}
	img, err := e.reader.ReadFrame(ctx, global)
	if err != nil {
		return nil, translateError(err)
	}
	return img, nil
}

// ReadZStack reads the raw frames of one z-stack in ascending z order.
func (e *Experiment) ReadZStack(ctx context.Context, timepoint, cycle, probe, frame int) (Stack, error) {
	if err := e.check(ctx); err != nil {
		return nil, err
	}
	globals, err := e.ZStackIndices(timepoint, cycle, probe, frame)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("reading z-stack",
		"timepoint", timepoint, "cycle", cycle, "probe", probe, "frame", frame,
		"globals", globals)

	stack, err := e.reader.ReadStack(ctx, globals)
	if err != nil {
		return nil, translateError(err)
	}
	return stack, nil
}

// ReadZStackFloat32 reads one z-stack and normalizes every frame to unit
// L2 norm.
func (e *Experiment) ReadZStackFloat32(ctx context.Context, timepoint, cycle, probe, frame int) (FloatStack, error) {
	stack, err := e.ReadZStack(ctx, timepoint, cycle, probe, frame)
	if err != nil {
		return nil, err
	}
	return rawimage.NormalizeStack(stack), nil
}

// ReadAll reads every batch and reshapes the frames to
// (probes, NumZPos, DimY, DimX).
func (e *Experiment) ReadAll(ctx context.Context, probes int) (*Volume, error) {
	if err := e.check(ctx); err != nil {
		return nil, err
	}
	if probes <= 0 {
		return nil, fmt.Errorf("%w: probes must be positive, got %d", ErrInvalidArgument, probes)
	}
	v, err := e.reader.ReadAll(ctx, probes, e.cfg.NumZPos)
	if err != nil {
		return nil, translateError(err)
	}
	e.logger.Debug("read all frames", "probes", probes, "samples", len(v.Pix))
	return v, nil
}

// Stacks returns the distinct stacks of the frame table in table order.
func (e *Experiment) Stacks() []StackKey {
	return e.index.Stacks()
}

// CacheStats returns the batch cache counters, or zeros without a cache.
func (e *Experiment) CacheStats() (hits, misses int64) {
	if e.cache == nil {
		return 0, 0
	}
	return e.cache.Stats()
}

// Close releases the batch cache. It is safe to call more than once; every
// other method returns ErrClosed afterwards.
func (e *Experiment) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return nil
	}
	if e.cache != nil {
		e.cache.Purge()
	}
	return nil
}

// Discover returns the roots of every experiment in store, identified by a
// "Raw Images/data.json" file. The store root itself is returned as "".
func Discover(ctx context.Context, store blobstore.Store) ([]string, error) {
	names, err := store.List(ctx, "")
	if err != nil {
		return nil, translateError(fmt.Errorf("listing experiments: %w", err))
	}
	marker := path.Join(rawimage.DefaultDir, DataConfigName)
	var roots []string
	for _, n := range names {
		switch {
		case n == marker:
			roots = append(roots, "")
		case strings.HasSuffix(n, "/"+marker):
			roots = append(roots, strings.TrimSuffix(n, "/"+marker))
		}
	}
	return roots, nil
}
