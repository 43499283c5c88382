// Package frameinfo loads the frameinfo.csv table that accompanies an SRX
// raw image store.
package frameinfo

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/robert-malhotra/go-srx/internal/frameindex"
)

// FileName is the frame table's name inside the raw image directory.
const FileName = "frameinfo.csv"

// Column names read from the table. Other columns are ignored.
const (
	ColTimepoint   = "Timepoint"
	ColCycle       = "Cycle"
	ColZPos        = "ZPos"
	ColProbe       = "Probe"
	ColFrame       = "Frame"
	ColGlobalIndex = "GlobalIndex"
)

// Common errors
var (
	ErrMissingColumn = errors.New("frame table missing column")
	ErrInvalidValue  = errors.New("frame table has a non-integer value")
	ErrMalformed     = errors.New("malformed frame table")
)

var required = []string{ColTimepoint, ColCycle, ColZPos, ColProbe, ColFrame, ColGlobalIndex}

// Read parses the frame table. Integer fields are parsed once here so the
// index compares typed values.
func Read(r io.Reader) ([]frameindex.Record, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty table", ErrMissingColumn)
		}
		return nil, fmt.Errorf("reading header: %w", malformed(err))
	}

	pos := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		pos[strings.TrimSpace(h)] = i
	}
	idx := make([]int, len(required))
	for i, name := range required {
		p, ok := pos[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
		idx[i] = p
	}

	var records []frameindex.Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading line %d: %w", line, malformed(err))
		}

		var v [6]int
		for i, p := range idx {
			n, err := strconv.Atoi(strings.TrimSpace(row[p]))
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %q: %q", ErrInvalidValue, line, required[i], row[p])
			}
			v[i] = n
		}
		records = append(records, frameindex.Record{
			Coord: frameindex.Coord{
				Timepoint: v[0],
				Cycle:     v[1],
				ZPos:      v[2],
				Probe:     v[3],
				Frame:     v[4],
			},
			GlobalIndex: v[5],
		})
	}
	return records, nil
}

// malformed tags CSV syntax errors, such as a wrong field count, with
// ErrMalformed. Other read errors pass through.
func malformed(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return err
}
