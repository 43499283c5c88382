package srx

import (
	"context"
	"errors"
	"fmt"

	"github.com/robert-malhotra/go-srx/internal/filter"
	"github.com/robert-malhotra/go-srx/internal/frameindex"
	"github.com/robert-malhotra/go-srx/internal/frameinfo"
	"github.com/robert-malhotra/go-srx/internal/manifest"
	"github.com/robert-malhotra/go-srx/internal/particle"
	"github.com/robert-malhotra/go-srx/internal/rawimage"
)

// Error classes. Every error returned by this package matches exactly one
// of them with errors.Is; the underlying cause stays reachable through
// errors.As.
var (
	ErrConfigMissing   = errors.New("configuration file missing")
	ErrConfigInvalid   = errors.New("configuration invalid")
	ErrNotFound        = errors.New("frame not found")
	ErrFormat          = errors.New("format error")
	ErrIO              = errors.New("i/o error")
	ErrIntegrity       = errors.New("integrity violation")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrClosed          = errors.New("experiment is closed")
)

// FormatError describes a malformed particle file.
type FormatError = particle.FormatError

// FormatKind classifies a FormatError.
type FormatKind = particle.Kind

// Format error kinds.
const (
	KindEmpty           = particle.KindEmpty
	KindTruncatedHeader = particle.KindTruncatedHeader
	KindInvalidHeader   = particle.KindInvalidHeader
	KindUnknownWidth    = particle.KindUnknownWidth
	KindTruncatedRow    = particle.KindTruncatedRow
)

func classify(err error) error {
	switch {
	case errors.Is(err, frameindex.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, frameindex.ErrStagnantSearch):
		return ErrIntegrity
	case errors.Is(err, particle.ErrFormat),
		errors.Is(err, filter.ErrUnsupportedContainer),
		errors.Is(err, filter.ErrCorrupt),
		errors.Is(err, rawimage.ErrSampleCount):
		return ErrFormat
	case errors.Is(err, manifest.ErrWrongType),
		errors.Is(err, manifest.ErrInvalid),
		errors.Is(err, frameinfo.ErrMissingColumn),
		errors.Is(err, frameinfo.ErrInvalidValue),
		errors.Is(err, frameinfo.ErrMalformed),
		errors.Is(err, frameindex.ErrUnsorted),
		errors.Is(err, frameindex.ErrInvalidMode),
		errors.Is(err, rawimage.ErrInvalidGeometry):
		return ErrConfigInvalid
	case errors.Is(err, rawimage.ErrInvalidIndex):
		return ErrInvalidArgument
	default:
		return ErrIO
	}
}

// translateError attaches the public error class to an internal error.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	for _, public := range []error{
		ErrConfigMissing, ErrConfigInvalid, ErrNotFound, ErrFormat,
		ErrIO, ErrIntegrity, ErrInvalidArgument, ErrClosed,
	} {
		if errors.Is(err, public) {
			return err
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", classify(err), err)
}
