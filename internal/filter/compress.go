package filter

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Gzip implements the gzip container.
type Gzip struct{}

// NewGzip creates a new gzip filter.
func NewGzip() *Gzip {
	return &Gzip{}
}

func (f *Gzip) Ext() string {
	return ExtGzip
}

func (f *Gzip) Decode(input []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("%w: gzip reader: %w", ErrCorrupt, err)
	}
	defer r.Close()

	output, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: gzip decompress: %w", ErrCorrupt, err)
	}
	return output, nil
}

func (f *Gzip) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriterLevel(w, gzip.DefaultCompression)
}

var zstdDecoderPool sync.Pool

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil)
}

// Zstd implements the zstd container.
type Zstd struct{}

// NewZstd creates a new zstd filter.
func NewZstd() *Zstd {
	return &Zstd{}
}

func (f *Zstd) Ext() string {
	return ExtZstd
}

func (f *Zstd) Decode(input []byte) ([]byte, error) {
	dec, err := getZstdDecoder()
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer zstdDecoderPool.Put(dec)

	output, err := dec.DecodeAll(input, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd decompress: %w", ErrCorrupt, err)
	}
	return output, nil
}

func (f *Zstd) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

// LZ4 implements the lz4 frame container.
type LZ4 struct{}

// NewLZ4 creates a new lz4 filter.
func NewLZ4() *LZ4 {
	return &LZ4{}
}

func (f *LZ4) Ext() string {
	return ExtLZ4
}

func (f *LZ4) Decode(input []byte) ([]byte, error) {
	output, err := io.ReadAll(lz4.NewReader(bytes.NewReader(input)))
	if err != nil {
		return nil, fmt.Errorf("%w: lz4 decompress: %w", ErrCorrupt, err)
	}
	return output, nil
}

func (f *LZ4) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return lz4.NewWriter(w), nil
}
