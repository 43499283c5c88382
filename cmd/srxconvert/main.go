// Command srxconvert converts SRX experiments to TIFF stacks and particle
// tables to Parquet or JSON lines.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/robert-malhotra/go-srx/blobstore"
	miniostore "github.com/robert-malhotra/go-srx/blobstore/minio"
	s3store "github.com/robert-malhotra/go-srx/blobstore/s3"
	"github.com/robert-malhotra/go-srx/internal/config"
	"github.com/robert-malhotra/go-srx/srx"
)

func main() {
	configFile := flag.String("config", "", "path to a YAML, JSON or TOML configuration file")
	input := flag.String("input", "", "experiment directory or tree of experiments (overrides input_dir)")
	output := flag.String("output", "", "output directory (overrides output_dir)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}
	if *input != "" {
		cfg.InputDir = *input
	}
	if *output != "" {
		cfg.OutputDir = *output
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("opening store", "error", err)
		os.Exit(1)
	}

	c := &converter{cfg: cfg, store: store, logger: logger}
	if err := c.Run(ctx); err != nil {
		logger.Error("conversion failed", "error", err)
		os.Exit(1)
	}
}

func newLogger(lc config.LogConfiguration) (*slog.Logger, error) {
	level, err := srx.ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(lc.Format, "json") {
		return srx.NewJSONLogger(level).Logger, nil
	}
	return srx.NewTextLogger(level).Logger, nil
}

func openStore(ctx context.Context, cfg *config.Configuration) (blobstore.Store, error) {
	sc := cfg.Storage
	switch sc.Backend {
	case config.BackendMinio:
		client, err := miniogo.New(sc.Endpoint, &miniogo.Options{
			Creds:  credentials.NewStaticV4(sc.AccessKey, sc.SecretKey, ""),
			Secure: sc.UseSSL,
			Region: sc.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("creating minio client: %w", err)
		}
		return miniostore.NewStore(client, sc.Bucket, joinPrefix(sc.Prefix, cfg.InputDir)), nil

	case config.BackendS3:
		var opts []func(*awsconfig.LoadOptions) error
		if sc.Region != "" {
			opts = append(opts, awsconfig.WithRegion(sc.Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("loading aws config: %w", err)
		}
		client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if sc.Endpoint != "" {
				o.BaseEndpoint = aws.String(sc.Endpoint)
				o.UsePathStyle = true
			}
		})
		return s3store.NewStore(client, sc.Bucket, joinPrefix(sc.Prefix, cfg.InputDir)), nil

	default:
		return blobstore.NewLocalStore(cfg.InputDir), nil
	}
}

// joinPrefix joins non-empty key prefixes with a trailing slash.
func joinPrefix(parts ...string) string {
	var keep []string
	for _, p := range parts {
		if p = strings.Trim(p, "/"); p != "" {
			keep = append(keep, p)
		}
	}
	if len(keep) == 0 {
		return ""
	}
	return strings.Join(keep, "/") + "/"
}
