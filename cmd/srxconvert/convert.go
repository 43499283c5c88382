package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/robert-malhotra/go-srx/blobstore"
	"github.com/robert-malhotra/go-srx/internal/config"
	"github.com/robert-malhotra/go-srx/internal/export"
	"github.com/robert-malhotra/go-srx/internal/filter"
	"github.com/robert-malhotra/go-srx/srx"
)

// Output subdirectories of each converted experiment.
const (
	imagesDir    = "images"
	particlesDir = "particles"
)

type converter struct {
	cfg    *config.Configuration
	store  blobstore.Store
	logger *slog.Logger
}

// Run converts every experiment found in the store, at most cfg.Workers at
// a time. The first failure cancels the remaining experiments.
func (c *converter) Run(ctx context.Context) error {
	roots, err := srx.Discover(ctx, c.store)
	if err != nil {
		return err
	}
	if len(roots) == 0 {
		return fmt.Errorf("%w: no experiments under %q", srx.ErrNotFound, c.cfg.InputDir)
	}
	c.logger.Info("discovered experiments", "count", len(roots))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Workers)
	for _, root := range roots {
		root := root
		g.Go(func() error {
			if err := c.convertExperiment(ctx, root); err != nil {
				return fmt.Errorf("experiment %q: %w", root, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (c *converter) convertExperiment(ctx context.Context, root string) error {
	name := root
	if name == "" {
		name = "."
	}
	logger := (&srx.Logger{Logger: c.logger}).WithExperiment(name).Logger

	store := c.store
	if root != "" {
		store = blobstore.Sub(c.store, root)
	}
	exp, err := srx.OpenStore(ctx, store,
		srx.WithBatchCache(c.cfg.CacheBytes),
		srx.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	defer exp.Close()

	outRoot := filepath.Join(c.cfg.OutputDir, filepath.FromSlash(root))
	if c.cfg.Images.Enabled {
		if err := c.writeStacks(ctx, exp, filepath.Join(outRoot, imagesDir)); err != nil {
			return err
		}
		hits, misses := exp.CacheStats()
		logger.Info("wrote z-stacks", "stacks", len(exp.Stacks()), "cache_hits", hits, "cache_misses", misses)
	}
	if c.cfg.Particles.Enabled {
		if err := c.writeParticles(ctx, exp, filepath.Join(outRoot, particlesDir), logger); err != nil {
			return err
		}
	}
	return nil
}

func (c *converter) writeStacks(ctx context.Context, exp *srx.Experiment, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	for _, k := range exp.Stacks() {
		stack, err := exp.ReadZStack(ctx, k.Timepoint, k.Cycle, k.Probe, k.Frame)
		if err != nil {
			return err
		}
		for z, img := range stack {
			p := filepath.Join(dir, stackFileName(k, z))
			if err := writeFile(p, func(w io.Writer) error { return export.WriteTIFF(w, img) }); err != nil {
				return err
			}
		}
	}
	return nil
}

func stackFileName(k srx.StackKey, z int) string {
	return fmt.Sprintf("t%03d_c%03d_p%03d_f%03d_z%03d.tif", k.Timepoint, k.Cycle, k.Probe, k.Frame, z)
}

func (c *converter) writeParticles(ctx context.Context, exp *srx.Experiment, dir string, logger *slog.Logger) error {
	names, err := exp.ParticleFiles(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		tbl, err := exp.ReadParticleFile(ctx, name)
		if err != nil {
			// A single unreadable table does not stop the experiment.
			if errors.Is(err, srx.ErrFormat) {
				logger.Warn("skipping particle file", "name", name, "error", err)
				continue
			}
			return err
		}
		if tbl, err = c.filterValid(tbl, name, logger); err != nil {
			return err
		}

		out := filepath.Join(dir, filepath.FromSlash(c.particleOutputName(name)))
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(out), err)
		}
		err = writeFile(out, func(w io.Writer) error {
			if c.cfg.Particles.Format == config.FormatJSONL {
				return writeJSONLines(w, tbl, c.cfg.Particles.Compression)
			}
			return export.WriteParquet(w, tbl)
		})
		if err != nil {
			return err
		}
		logger.Info("wrote particle table", "name", name, "output", out, "points", tbl.NumPoints)
	}
	return nil
}

// filterValid keeps the rows where the configured valid column is true.
// Tables without that column are exported whole.
func (c *converter) filterValid(tbl *srx.ParticleTable, name string, logger *slog.Logger) (*srx.ParticleTable, error) {
	col := c.cfg.Particles.ValidColumn
	if col == "" {
		return tbl, nil
	}
	if tbl.Column(col) == nil {
		logger.Debug("particle file has no valid column", "name", name, "column", col)
		return tbl, nil
	}
	rows, err := tbl.Mask(col)
	if err != nil {
		return nil, fmt.Errorf("%w: particle file %s: %w", srx.ErrInvalidArgument, name, err)
	}
	logger.Debug("filtered particle rows", "name", name, "column", col,
		"kept", rows.GetCardinality(), "points", tbl.NumPoints)
	return tbl.Select(rows), nil
}

// particleOutputName strips the container extensions of name and appends
// the export format's extension.
func (c *converter) particleOutputName(name string) string {
	stem := name
	if p, err := filter.ForName(name); err == nil {
		for i := 0; i < p.Len(); i++ {
			stem = strings.TrimSuffix(stem, path.Ext(stem))
		}
	}
	if c.cfg.Particles.Format == config.FormatJSONL {
		return stem + ".jsonl" + c.cfg.Particles.Compression
	}
	return stem + ".parquet"
}

func writeJSONLines(w io.Writer, tbl *srx.ParticleTable, compression string) error {
	if compression == "" {
		return export.WriteJSONLines(w, tbl)
	}
	p, err := filter.ForName("rows" + compression)
	if err != nil {
		return err
	}
	cw, err := p.NewWriter(w)
	if err != nil {
		return err
	}
	if err := export.WriteJSONLines(cw, tbl); err != nil {
		cw.Close()
		return err
	}
	return cw.Close()
}

// writeFile creates p, fills it with fill and removes it again on failure.
func writeFile(p string, fill func(io.Writer) error) (err error) {
	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("creating %s: %w", p, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing %s: %w", p, cerr)
		}
		if err != nil {
			os.Remove(p)
		}
	}()
	if err := fill(f); err != nil {
		return fmt.Errorf("writing %s: %w", p, err)
	}
	return nil
}
