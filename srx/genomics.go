package srx

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/robert-malhotra/go-srx/blobstore"
	"github.com/robert-malhotra/go-srx/internal/manifest"
)

// Files written by the genomics analysis into a view directory.
const (
	GenomicsDataName         = "GenomicsData.json"
	GenomicsBarcodesName     = "GenomicsBarcodes.json"
	GenomicsSourceLociName   = "GenomicsDataSourceLoci.csv"
	GenomicsFiducialLociName = "GenomicsDataFiducialLoci.csv"
)

// Locus is one row of a loci table keyed by column header.
type Locus map[string]string

// Genomics holds the genomics results saved in a view.
type Genomics struct {
	Data         map[string]any
	Barcodes     map[string]any
	SourceLoci   []Locus
	FiducialLoci []Locus
}

// ReadGenomics loads the genomics results from viewDir in store.
func ReadGenomics(ctx context.Context, store blobstore.Store, viewDir string) (*Genomics, error) {
	var g Genomics
	var err error

	if g.Data, err = readDocument(ctx, store, path.Join(viewDir, GenomicsDataName), manifest.TypeGenomicsData); err != nil {
		return nil, err
	}
	if g.Barcodes, err = readDocument(ctx, store, path.Join(viewDir, GenomicsBarcodesName), manifest.TypeGenomicsBarcodes); err != nil {
		return nil, err
	}
	if g.SourceLoci, err = readLoci(ctx, store, path.Join(viewDir, GenomicsSourceLociName)); err != nil {
		return nil, err
	}
	if g.FiducialLoci, err = readLoci(ctx, store, path.Join(viewDir, GenomicsFiducialLociName)); err != nil {
		return nil, err
	}
	return &g, nil
}

// ReadGenomics loads the genomics results of the view called viewName.
func (e *Experiment) ReadGenomics(ctx context.Context, viewName string) (*Genomics, error) {
	dir, err := e.ViewPath(ctx, viewName)
	if err != nil {
		return nil, err
	}
	return ReadGenomics(ctx, e.store, dir)
}

func readBlob(ctx context.Context, store blobstore.Store, name string) ([]byte, error) {
	data, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s: %w", ErrConfigMissing, name, err)
		}
		return nil, translateError(fmt.Errorf("reading %s: %w", name, err))
	}
	return data, nil
}

func readDocument(ctx context.Context, store blobstore.Store, name, wantType string) (map[string]any, error) {
	data, err := readBlob(ctx, store, name)
	if err != nil {
		return nil, err
	}
	doc, err := manifest.ReadDocument(bytes.NewReader(data), wantType)
	if err != nil {
		return nil, translateError(fmt.Errorf("%s: %w", name, err))
	}
	return doc, nil
}

// readLoci reads a headed CSV table. Short rows leave their missing columns
// out of the map; extra fields are dropped.
func readLoci(ctx context.Context, store blobstore.Store, name string) ([]Locus, error) {
	data, err := readBlob(ctx, store, name)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfigInvalid, name, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var loci []Locus
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrConfigInvalid, name, err)
		}
		row := make(Locus, len(header))
		for i, h := range header {
			if i < len(rec) {
				row[h] = rec[i]
			}
		}
		loci = append(loci, row)
	}
	return loci, nil
}
