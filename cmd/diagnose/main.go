// Diagnostic tool for inspecting SRX experiments and particle files
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/robert-malhotra/go-srx/internal/filter"
	"github.com/robert-malhotra/go-srx/srx"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/diagnose/main.go <experiment-dir | particle-file> [particle-file...]")
		os.Exit(1)
	}
	ctx := context.Background()

	args := os.Args[1:]
	if info, err := os.Stat(args[0]); err == nil && info.IsDir() {
		if err := describeExperiment(ctx, args[0]); err != nil {
			fmt.Printf("ERROR: %v\n", err)
			os.Exit(1)
		}
		args = args[1:]
	}

	failed := false
	for _, p := range args {
		if !filter.Supported(p) {
			fmt.Printf("ERROR: %s: not a particle file (supported: %v)\n", p, filter.Extensions())
			failed = true
			continue
		}
		if err := describeParticles(ctx, p); err != nil {
			fmt.Printf("ERROR: %v\n", err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func describeExperiment(ctx context.Context, dir string) error {
	fmt.Printf("=== Analyzing %s ===\n\n", dir)

	exp, err := srx.Open(ctx, dir)
	if err != nil {
		return err
	}
	defer exp.Close()

	cfg := exp.Config()
	fmt.Printf("Z-stack mode:     %s\n", cfg.Mode)
	fmt.Printf("Frame size:       %d x %d\n", cfg.DimX, cfg.DimY)
	fmt.Printf("Frames per batch: %d\n", cfg.FramesPerBatch)
	fmt.Printf("Z positions:      %d\n", cfg.NumZPos)
	fmt.Printf("Frames in table:  %d\n", exp.NumFrames())

	stacks := exp.Stacks()
	fmt.Printf("Z-stacks:         %d\n", len(stacks))
	if len(stacks) > 0 {
		first, last := stacks[0], stacks[len(stacks)-1]
		fmt.Printf("  first: timepoint=%d cycle=%d probe=%d frame=%d\n", first.Timepoint, first.Cycle, first.Probe, first.Frame)
		fmt.Printf("  last:  timepoint=%d cycle=%d probe=%d frame=%d\n", last.Timepoint, last.Cycle, last.Probe, last.Frame)

		if _, err := exp.ZStackIndices(first.Timepoint, first.Cycle, first.Probe, first.Frame); err != nil {
			fmt.Printf("  first stack does not resolve: %v\n", err)
		}
	}

	views, err := exp.Views(ctx)
	switch {
	case errors.Is(err, srx.ErrConfigMissing):
		fmt.Println("Views:            none")
	case err != nil:
		fmt.Printf("Views:            ERROR %v\n", err)
	default:
		fmt.Printf("Views:            %d\n", len(views))
		for _, v := range views {
			fmt.Printf("  %q -> %s\n", v.Name, v.DirName)
		}
	}

	files, err := exp.ParticleFiles(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Particle files:   %d\n", len(files))
	for _, name := range files {
		tbl, err := exp.ReadParticleFile(ctx, name)
		if err != nil {
			fmt.Printf("  %s: ERROR %v\n", name, err)
			continue
		}
		fmt.Printf("  %s: %d columns, %d points\n", name, len(tbl.Columns), tbl.NumPoints)
	}
	fmt.Println()
	return nil
}

func describeParticles(ctx context.Context, p string) error {
	fmt.Printf("=== Particle file %s ===\n\n", p)

	tbl, err := srx.OpenParticleFile(ctx, p)
	if err != nil {
		return err
	}

	fmt.Printf("Found %d columns\n", len(tbl.Columns))
	for i, c := range tbl.Columns {
		fmt.Printf("  %3d  %-32q %d bytes  %s\n", i, c.Name, c.Width, c.Type)
	}
	fmt.Printf("Row width: %d bytes\n", tbl.RowWidth())
	fmt.Printf("Points:    %d\n", tbl.NumPoints)
	if tbl.NumPoints > 0 {
		fmt.Println("First row:")
		for _, c := range tbl.Columns {
			fmt.Printf("  %-32q %v\n", c.Name, c.Value(0))
		}
	}
	fmt.Println()
	return nil
}
