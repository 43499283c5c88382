package srx

import (
	"log/slog"

	"github.com/robert-malhotra/go-srx/internal/rawimage"
)

// Option configures an Experiment.
type Option func(*options)

type options struct {
	logger     *slog.Logger
	cacheBytes int64
	rawDir     string
}

func defaultOptions() *options {
	return &options{
		logger: NoopLogger().Logger,
		rawDir: rawimage.DefaultDir,
	}
}

// WithLogger sets the logger used for open and read diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithBatchCache keeps up to n bytes of recently read raw image batches in
// memory. Zero disables caching.
func WithBatchCache(n int64) Option {
	return func(o *options) {
		if n >= 0 {
			o.cacheBytes = n
		}
	}
}

// WithRawDir reads the configuration and batches from dir instead of
// "Raw Images".
func WithRawDir(dir string) Option {
	return func(o *options) {
		if dir != "" {
			o.rawDir = dir
		}
	}
}
