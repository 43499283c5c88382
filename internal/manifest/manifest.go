// Package manifest decodes the JSON documents written next to SRX data.
//
// Every document is an envelope {"type": <tag>, "value": <payload>}; the tag
// is checked before the payload is decoded.
package manifest

import (
	"errors"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/robert-malhotra/go-srx/internal/frameindex"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Envelope type tags.
const (
	TypeDataConfiguration = "DataConfiguration"
	TypeViewState         = "ViewState"
	TypeGenomicsData      = "GenomicsOrcaData"
	TypeGenomicsBarcodes  = "GenomicsOrcaBarcodeState"
)

// Common errors
var (
	ErrWrongType = errors.New("unexpected document type")
	ErrInvalid   = errors.New("invalid document")
)

type envelope struct {
	Type  string              `json:"type"`
	Value jsoniter.RawMessage `json:"value"`
}

// Decode reads an envelope from r, checks its type tag and decodes the
// payload into v.
func Decode(r io.Reader, wantType string, v any) error {
	var env envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if env.Type != wantType {
		return fmt.Errorf("%w: got %q, want %q", ErrWrongType, env.Type, wantType)
	}
	if len(env.Value) == 0 {
		return fmt.Errorf("%w: %s document has no value", ErrInvalid, wantType)
	}
	if err := json.Unmarshal(env.Value, v); err != nil {
		return fmt.Errorf("%w: decoding %s value: %w", ErrInvalid, wantType, err)
	}
	return nil
}

// DataConfig is the subset of data.json the raw image reader needs.
type DataConfig struct {
	Recording Recording `json:"Recording"`
	Image     Image     `json:"Image"`
}

// Recording holds acquisition settings.
type Recording struct {
	ZStackMode     string `json:"ZStackMode"`
	FramesPerBatch int    `json:"FramesPerBatch"`
	NumZPos        int    `json:"NumZPos"`
}

// Image holds the frame dimensions in pixels.
type Image struct {
	DimX int `json:"DimX"`
	DimY int `json:"DimY"`
}

// Mode returns the parsed z-stack mode.
func (c *DataConfig) Mode() (frameindex.Mode, error) {
	return frameindex.ParseMode(c.Recording.ZStackMode)
}

// Validate checks the fields the reader depends on.
func (c *DataConfig) Validate() error {
	if _, err := c.Mode(); err != nil {
		return fmt.Errorf("%w: Recording.ZStackMode: %w", ErrInvalid, err)
	}
	checks := []struct {
		name  string
		value int
	}{
		{"Recording.FramesPerBatch", c.Recording.FramesPerBatch},
		{"Recording.NumZPos", c.Recording.NumZPos},
		{"Image.DimX", c.Image.DimX},
		{"Image.DimY", c.Image.DimY},
	}
	for _, chk := range checks {
		if chk.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalid, chk.name, chk.value)
		}
	}
	return nil
}

// ReadDataConfig decodes and validates a data.json document.
func ReadDataConfig(r io.Reader) (*DataConfig, error) {
	var cfg DataConfig
	if err := Decode(r, TypeDataConfiguration, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ViewState lists the saved views of an experiment.
type ViewState struct {
	Views []View `json:"Views"`
}

// View is one saved analysis view.
type View struct {
	Name    string `json:"Name"`
	DirName string `json:"DirName"`
}

// ReadViewState decodes a ViewInfo.json document.
func ReadViewState(r io.Reader) (*ViewState, error) {
	var vs ViewState
	if err := Decode(r, TypeViewState, &vs); err != nil {
		return nil, err
	}
	return &vs, nil
}

// ReadDocument decodes an envelope with an untyped payload.
func ReadDocument(r io.Reader, wantType string) (map[string]any, error) {
	var doc map[string]any
	if err := Decode(r, wantType, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
