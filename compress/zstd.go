package compress

// ZstdCompressor provides Zstandard compression for stream blocks.
//
// Zstd trades a little compression speed for a noticeably better ratio than
// the LZ-family codecs, which suits column streams that are written once
// and read many times.
//
// The implementation is selected at build time: with cgo enabled the
// valyala/gozstd bindings are used, otherwise the pure-Go
// klauspost/compress/zstd implementation.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
