package compress

// ZstdCompressor provides Zstandard compression for exported metadata
// payloads (scope/variable name tables, enum tables).
//
// Best suited for snapshots that are written once and read back
// infrequently, where compression ratio matters more than compression
// speed.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
//
// Returns:
//   - ZstdCompressor: New Zstd compressor instance
//
// Example:
//
//	compressor := NewZstdCompressor()
//	compressed, err := compressor.Compress(data)
//	if err != nil {
//		return err
//	}
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
