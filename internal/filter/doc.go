// Package filter decompresses particle and export files by container type.
//
// SRX writes particle tables as plain .dat files, and archived experiments
// frequently carry them compressed. The container is identified purely by
// the file name's extensions, outermost last:
//
//	particles.dat       identity
//	particles.dat.gz    gzip
//	particles.dat.zst   zstd
//	particles.dat.lz4   lz4 frame
//	particles.gz        gzip (the .dat is implied)
//
// # Supported Filters
//
// The [Registry] maps an extension to a constructor:
//
//   - .dat: [Identity], returns its input
//   - .gz: [Gzip], via github.com/klauspost/compress/gzip
//   - .zst: [Zstd], via github.com/klauspost/compress/zstd
//   - .lz4: [LZ4], via github.com/pierrec/lz4/v4
//
// A name whose outermost extension is not registered is
// [ErrUnsupportedContainer].
//
// # Filter Pipeline
//
// [ForName] builds a [Pipeline] from every registered extension at the end
// of a name. Decoding applies the filters in reverse order, so
// "x.dat.lz4.gz" is gunzipped first and lz4-decoded second:
//
//	p, err := filter.ForName("particles.dat.gz")
//	raw, err := p.Decode(compressed)
//
// The same pipeline can wrap a writer, which the converter uses to write
// compressed exports.
package filter
