// Package byterle provides run-length encoding for the byte and boolean
// streams of a columnar storage format (ORC/DWRF family).
//
// The codec writes a compact stream of segments, each either a repeat run
// (3..130 copies of one byte) or a literal run (1..128 verbatim bytes),
// and reads it back with null-mask awareness and precise positional seek
// into row groups.
//
// # Package structure
//
//   - rle: the encoder and decoder state machines
//   - stream: output sinks, input sources, and position bookkeeping
//   - compress: block codecs layered by the compressed stream variants
//
// This package adds one-shot helpers for the common case of encoding a
// complete in-memory slice:
//
//	encoded, _ := byterle.EncodeBytes(values)
//	decoded, _ := byterle.DecodeBytes(encoded, len(values))
//
// For streaming use, null masks, compression, or seekable reads, drive the
// rle and stream packages directly:
//
//	out, _ := stream.NewBufferedOutputStream()
//	defer out.Close()
//	enc := rle.NewByteEncoder(out)
//	enc.Add(values, rle.Range(0, len(values)), nulls)
//	enc.Flush()
package byterle

import (
	"slices"

	"github.com/renliu/byterle/internal/bits"
	"github.com/renliu/byterle/rle"
	"github.com/renliu/byterle/stream"
)

// EncodeBytes run-length encodes values into a new byte slice.
func EncodeBytes(values []byte) ([]byte, error) {
	out, err := stream.NewBufferedOutputStream()
	if err != nil {
		return nil, err
	}
	defer out.Close()

	enc := rle.NewByteEncoder(out)
	if _, err := enc.Add(values, rle.Range(0, len(values)), nil); err != nil {
		return nil, err
	}
	if _, err := enc.Flush(); err != nil {
		return nil, err
	}

	return slices.Clone(out.Bytes()), nil
}

// DecodeBytes decodes count values from an encoded stream.
func DecodeBytes(encoded []byte, count int) ([]byte, error) {
	in, err := stream.NewSeekableArrayInputStream(encoded)
	if err != nil {
		return nil, err
	}

	values := make([]byte, count)
	dec := rle.NewByteDecoder(in, rle.EncodingKey{})
	if err := dec.Next(values, count, nil); err != nil {
		return nil, err
	}

	return values, nil
}

// EncodeBools run-length encodes booleans, packed eight per byte MSB-first
// on the wire.
func EncodeBools(values []bool) ([]byte, error) {
	out, err := stream.NewBufferedOutputStream()
	if err != nil {
		return nil, err
	}
	defer out.Close()

	enc := rle.NewBoolEncoder(out)
	if _, err := enc.AddBitsFunc(func(i int) bool { return values[i] }, rle.Range(0, len(values)), nil, false); err != nil {
		return nil, err
	}
	if _, err := enc.Flush(); err != nil {
		return nil, err
	}

	return slices.Clone(out.Bytes()), nil
}

// DecodeBools decodes count booleans from an encoded stream.
func DecodeBools(encoded []byte, count int) ([]bool, error) {
	in, err := stream.NewSeekableArrayInputStream(encoded)
	if err != nil {
		return nil, err
	}

	packed := make([]byte, (count+7)/8)
	dec := rle.NewBoolDecoder(in, rle.EncodingKey{})
	if err := dec.Next(packed, count, nil); err != nil {
		return nil, err
	}

	values := make([]bool, count)
	for i := range values {
		values[i] = bits.IsBitSet(packed, i)
	}

	return values, nil
}
