// Package config loads the converter configuration with viper.
//
// Settings come from, in increasing priority: built-in defaults, an
// optional YAML/JSON/TOML file, and SRX_-prefixed environment variables
// where nested keys are joined with underscores (SRX_STORAGE_BUCKET).
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid configuration")

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SRX"

// Storage backends.
const (
	BackendLocal = "local"
	BackendMinio = "minio"
	BackendS3    = "s3"
)

// Particle export formats.
const (
	FormatParquet = "parquet"
	FormatJSONL   = "jsonl"
)

type LogConfiguration struct {
	Level  string `json:"level" mapstructure:"level" default:"info"`
	Format string `json:"format" mapstructure:"format" default:"text"`
}

type StorageConfiguration struct {
	Backend   string `json:"backend" mapstructure:"backend" default:"local"`
	Endpoint  string `json:"endpoint" mapstructure:"endpoint" default:""`
	Bucket    string `json:"bucket" mapstructure:"bucket" default:""`
	Prefix    string `json:"prefix" mapstructure:"prefix" default:""`
	Region    string `json:"region" mapstructure:"region" default:""`
	AccessKey string `json:"access_key" mapstructure:"access_key" default:""`
	SecretKey string `json:"secret_key" mapstructure:"secret_key" default:""`
	UseSSL    bool   `json:"use_ssl" mapstructure:"use_ssl" default:"true"`
}

type ParticlesConfiguration struct {
	Enabled     bool   `json:"enabled" mapstructure:"enabled" default:"true"`
	Format      string `json:"format" mapstructure:"format" default:"parquet"`
	Compression string `json:"compression" mapstructure:"compression" default:""`
	// ValidColumn names a bool8 column; when set, only rows where it is
	// true are exported.
	ValidColumn string `json:"valid_column" mapstructure:"valid_column" default:""`
}

type ImagesConfiguration struct {
	Enabled bool `json:"enabled" mapstructure:"enabled" default:"true"`
}

type Configuration struct {
	InputDir   string                 `json:"input_dir" mapstructure:"input_dir" default:""`
	OutputDir  string                 `json:"output_dir" mapstructure:"output_dir" default:"out"`
	Workers    int                    `json:"workers" mapstructure:"workers" default:"4"`
	CacheBytes int64                  `json:"cache_bytes" mapstructure:"cache_bytes" default:"268435456"`
	Log        LogConfiguration       `json:"log" mapstructure:"log"`
	Storage    StorageConfiguration   `json:"storage" mapstructure:"storage"`
	Particles  ParticlesConfiguration `json:"particles" mapstructure:"particles"`
	Images     ImagesConfiguration    `json:"images" mapstructure:"images"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("input_dir", "")
	v.SetDefault("output_dir", "out")
	v.SetDefault("workers", 4)
	v.SetDefault("cache_bytes", 256<<20)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("storage.backend", BackendLocal)
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.prefix", "")
	v.SetDefault("storage.region", "")
	v.SetDefault("storage.access_key", "")
	v.SetDefault("storage.secret_key", "")
	v.SetDefault("storage.use_ssl", true)
	v.SetDefault("particles.enabled", true)
	v.SetDefault("particles.format", FormatParquet)
	v.SetDefault("particles.compression", "")
	v.SetDefault("particles.valid_column", "")
	v.SetDefault("images.enabled", true)
}

// Load reads file (if not empty) over the defaults and applies environment
// overrides.
func Load(file string) (*Configuration, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", file, err)
		}
	}

	cfg := &Configuration{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration can drive a conversion.
func (c *Configuration) Validate() error {
	if c.InputDir == "" && c.Storage.Backend == BackendLocal {
		return fmt.Errorf("%w: input_dir is required", ErrInvalid)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("%w: output_dir is required", ErrInvalid)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalid, c.Workers)
	}
	if c.CacheBytes < 0 {
		return fmt.Errorf("%w: cache_bytes must not be negative", ErrInvalid)
	}

	switch c.Storage.Backend {
	case BackendLocal:
	case BackendMinio:
		if c.Storage.Endpoint == "" {
			return fmt.Errorf("%w: storage.endpoint is required for minio", ErrInvalid)
		}
		fallthrough
	case BackendS3:
		if c.Storage.Bucket == "" {
			return fmt.Errorf("%w: storage.bucket is required for %s", ErrInvalid, c.Storage.Backend)
		}
	default:
		return fmt.Errorf("%w: unknown storage.backend %q", ErrInvalid, c.Storage.Backend)
	}

	switch c.Particles.Format {
	case FormatParquet, FormatJSONL:
	default:
		return fmt.Errorf("%w: unknown particles.format %q", ErrInvalid, c.Particles.Format)
	}
	switch c.Particles.Compression {
	case "", ".gz", ".zst", ".lz4":
	default:
		return fmt.Errorf("%w: unknown particles.compression %q", ErrInvalid, c.Particles.Compression)
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log.format %q", ErrInvalid, c.Log.Format)
	}
	return nil
}
