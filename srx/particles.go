package srx

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/robert-malhotra/go-srx/blobstore"
	"github.com/robert-malhotra/go-srx/internal/filter"
	"github.com/robert-malhotra/go-srx/internal/particle"
	"github.com/robert-malhotra/go-srx/internal/rawimage"
)

type (
	// ParticleTable is a decoded particle file.
	ParticleTable = particle.Table
	// ParticleColumn is one decoded particle column.
	ParticleColumn = particle.Column
)

// ReadParticleFile reads, decompresses and decodes the particle file called
// name in store. The container is chosen by name's extension.
func ReadParticleFile(ctx context.Context, store blobstore.Store, name string) (*ParticleTable, error) {
	if _, err := filter.ForName(name); err != nil {
		return nil, translateError(fmt.Errorf("particle file %s: %w", name, err))
	}
	data, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		return nil, translateError(fmt.Errorf("reading particle file %s: %w", name, err))
	}
	if len(data) == 0 {
		return nil, translateError(fmt.Errorf("particle file %s: %w", name, &FormatError{Kind: KindEmpty}))
	}
	raw, err := filter.Decode(name, data)
	if err != nil {
		return nil, translateError(fmt.Errorf("decompressing particle file %s: %w", name, err))
	}
	t, err := particle.Decode(raw)
	if err != nil {
		return nil, translateError(fmt.Errorf("decoding particle file %s: %w", name, err))
	}
	return t, nil
}

// OpenParticleFile reads a particle file from the local file system.
func OpenParticleFile(ctx context.Context, path string) (*ParticleTable, error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	return ReadParticleFile(ctx, blobstore.NewLocalStore(dir), base)
}

// ReadParticleFile reads a particle file by its name relative to the
// experiment root.
func (e *Experiment) ReadParticleFile(ctx context.Context, name string) (*ParticleTable, error) {
	if err := e.check(ctx); err != nil {
		return nil, err
	}
	t, err := ReadParticleFile(ctx, e.store, name)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("read particle file", "name", name, "columns", len(t.Columns), "points", t.NumPoints)
	return t, nil
}

// ParticleFiles lists the particle files saved under the experiment's
// Views directory.
func (e *Experiment) ParticleFiles(ctx context.Context) ([]string, error) {
	if err := e.check(ctx); err != nil {
		return nil, err
	}
	names, err := e.store.List(ctx, ViewsDir+"/")
	if err != nil {
		return nil, translateError(fmt.Errorf("listing %s: %w", ViewsDir, err))
	}
	var out []string
	for _, n := range names {
		if isParticleName(path.Base(n)) {
			out = append(out, n)
		}
	}
	return out, nil
}

// isParticleName accepts "x.dat" with any stack of compression extensions,
// and "x.gz" style names whose only extension is a compression one.
func isParticleName(base string) bool {
	if rawimage.IsBatchName(base) {
		return false
	}
	p, err := filter.ForName(base)
	if err != nil {
		return false
	}
	if p.Exts()[0] == filter.ExtDat {
		return true
	}
	stem := base
	for i := 0; i < p.Len(); i++ {
		stem = strings.TrimSuffix(stem, path.Ext(stem))
	}
	return path.Ext(stem) == ""
}
