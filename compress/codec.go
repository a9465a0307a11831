package compress

import (
	"fmt"

	"github.com/renliu/byterle/format"
)

// Compressor compresses a complete block of stream data.
//
// The input is one uncompressed block produced by the stream layer, usually
// a few KiB of RLE output. Implementations may reuse internal buffers and
// never modify the input slice. Every codec except NoOpCompressor returns
// a newly allocated slice owned by the caller; NoOpCompressor returns the
// input slice itself.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses Compressor for a single block.
//
// The input must have been compressed with the same algorithm. Every codec
// except NoOpCompressor validates the data format and returns an error if
// the block is corrupted or was produced by an incompatible codec;
// NoOpCompressor returns its input unchecked.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec is a factory function that creates a Codec for the specified
// compression type.
//
// The target parameter describes the intended usage and only appears in
// error messages.
func CreateCodec(compressionType format.CompressionType, target string) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZlib:
		return NewZlibCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("invalid %s compression: %s", target, compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZlib: NewZlibCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}
