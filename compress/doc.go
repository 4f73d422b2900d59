// Package compress provides compression and decompression codecs for
// exported metadata payloads (scope names, variable names, enum tables —
// see meta.ExportMetadata).
//
// # Overview
//
// The core storage engine itself never compresses anything: the change log
// and implicit forest are random-access structures that would lose their
// O(1)/O(log n) access characteristics under block compression. Compression
// applies only to the optional metadata export path, where a whole
// scope/variable tree is serialized once and read back as a unit.
//
// # Supported Algorithms
//
//   - None (format.CompressionNone): no compression, fastest.
//   - Zstd (format.CompressionZstd): best ratio, moderate speed.
//   - S2 (format.CompressionS2): balanced ratio and speed.
//   - LZ4 (format.CompressionLZ4): fastest decompression.
//
// # Architecture
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// GetCodec constructs a Codec from a format.CompressionType tag, so the
// metadata export format can record which algorithm was used and decode it
// on the other side without the caller needing to know in advance.
package compress
