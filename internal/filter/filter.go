package filter

import (
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
)

// Common errors
var (
	// ErrUnsupportedContainer is returned for file names whose extension
	// has no registered filter.
	ErrUnsupportedContainer = errors.New("unsupported container format")

	// ErrCorrupt is returned when a compressed stream cannot be decoded.
	ErrCorrupt = errors.New("corrupt container")
)

// Filter is the interface implemented by all container filters.
type Filter interface {
	// Ext returns the file extension the filter handles, including the dot.
	Ext() string

	// Decode transforms encoded data to decoded form.
	Decode(input []byte) ([]byte, error)

	// NewWriter returns a writer that encodes into w. Closing it flushes
	// the encoder but does not close w.
	NewWriter(w io.Writer) (io.WriteCloser, error)
}

// Registry maps file extensions to filter constructors.
var Registry = map[string]func() Filter{
	ExtDat:  func() Filter { return Identity{} },
	ExtGzip: func() Filter { return NewGzip() },
	ExtZstd: func() Filter { return NewZstd() },
	ExtLZ4:  func() Filter { return NewLZ4() },
}

// Known extensions.
const (
	ExtDat  = ".dat"
	ExtGzip = ".gz"
	ExtZstd = ".zst"
	ExtLZ4  = ".lz4"
)

// New creates the filter registered for ext.
func New(ext string) (Filter, error) {
	constructor, ok := Registry[strings.ToLower(ext)]
	if !ok {
		return nil, fmt.Errorf("%w: extension %q (supported: %s)", ErrUnsupportedContainer, ext, strings.Join(Extensions(), ", "))
	}
	return constructor(), nil
}

// Extensions returns the registered extensions in sorted order.
func Extensions() []string {
	exts := make([]string, 0, len(Registry))
	for ext := range Registry {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Supported reports whether ForName would accept name.
func Supported(name string) bool {
	_, ok := Registry[strings.ToLower(path.Ext(name))]
	return ok
}

// Decode decompresses data according to the container implied by name.
func Decode(name string, data []byte) ([]byte, error) {
	p, err := ForName(name)
	if err != nil {
		return nil, err
	}
	out, err := p.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return out, nil
}

// Identity passes data through unchanged.
type Identity struct{}

func (Identity) Ext() string {
	return ExtDat
}

func (Identity) Decode(input []byte) ([]byte, error) {
	return input, nil
}

func (Identity) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return nopCloser{w}, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}
