// Package srx reads data recorded by SRX single-molecule localization
// microscopes.
//
// An experiment directory looks like this:
//
//	Raw Images/data.json        recording configuration (DataConfiguration)
//	Raw Images/frameinfo.csv    one row per frame: Timepoint, Cycle, ZPos,
//	                            Probe, Frame, GlobalIndex
//	Raw Images/img000000.dat    raw frames, FramesPerBatch per file
//	Views/ViewInfo.json         saved analysis views (ViewState)
//	Views/<view>/...            particle files and genomics results
//
// # Opening an Experiment
//
// Open loads the configuration and frame table once and returns a session
// handle. Reads go through the handle; there is no package-level state.
//
//	exp, err := srx.Open(ctx, "/data/run-7/Location-01", srx.WithBatchCache(512<<20))
//	if err != nil {
//	    return err
//	}
//	defer exp.Close()
//
//	stack, err := exp.ReadZStack(ctx, timepoint, cycle, probe, frame)
//
// OpenStore does the same over any blobstore.Store, so experiments kept in
// MinIO or S3 read the same way as local ones.
//
// # Particle Files
//
// ReadParticleFile and OpenParticleFile decode the self-describing particle
// table format. Compressed files (.gz, .zst, .lz4) are decompressed by
// extension first.
//
// # Errors
//
// Every returned error matches one class with errors.Is: ErrConfigMissing,
// ErrConfigInvalid, ErrNotFound, ErrFormat, ErrIO, ErrIntegrity,
// ErrInvalidArgument or ErrClosed. Malformed particle files additionally
// carry a *FormatError naming the failure kind, column and offset.
package srx
