package compress

import "github.com/klauspost/compress/s2"

// S2Compressor provides snappy-compatible S2 compression.
//
// S2 is the fastest codec in the set, trading ratio for throughput, which
// suits hot column streams where decode latency matters more than the
// bytes saved.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates a new S2 compressor.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress compresses a single block with s2.Encode.
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// Decompress reverses Compress for a single S2 block.
func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Decode(nil, data)
}
