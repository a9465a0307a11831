package rle

import (
	"fmt"
	"iter"

	"github.com/renliu/byterle/stream"
)

// Run-length bounds of the wire format. A repeat header h >= 0 encodes
// h+MinRepeat copies, so the longest repeat is MinRepeat+127. A literal
// header -n carries n verbatim bytes, at most MaxLiteral.
const (
	MinRepeat  = 3
	MaxRepeat  = MinRepeat + 127
	MaxLiteral = 128
)

// EncodingKey identifies the column node and sequence a stream belongs to.
// It only appears in diagnostics.
type EncodingKey struct {
	Node     int32
	Sequence int32
}

func (k EncodingKey) String() string {
	return fmt.Sprintf("[node %d, seq %d]", k.Node, k.Sequence)
}

// Range returns an iterator over the index positions [begin, end), the
// common case for the ranges arguments of Encoder.
func Range(begin, end int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := begin; i < end; i++ {
			if !yield(i) {
				return
			}
		}
	}
}

// Encoder is the writer side of the codec. The byte and boolean variants
// share this surface; the byte variant rejects the bit-level entry points
// with errs.ErrUnsupported.
//
// An encoder exclusively owns its output stream and is not safe for
// concurrent use.
type Encoder interface {
	// Add consumes the bytes of data at the positions enumerated by
	// ranges, skipping positions marked null, and returns the number of
	// values written. The boolean variant treats each byte as a boolean
	// (non-zero is true); a nil data slice writes true for every position.
	Add(data []byte, ranges iter.Seq[int], nulls []byte) (uint64, error)

	// AddFunc is Add with callback accessors, for sources that are not
	// laid out as a contiguous byte array. A nil isNullAt means no nulls;
	// a nil valueAt writes zero bytes (true booleans).
	AddFunc(valueAt func(int) byte, ranges iter.Seq[int], isNullAt func(int) bool) (uint64, error)

	// AddBits consumes bits of a dense LSB-first bitmap; the boolean
	// written for position pos is invert XOR bit(data, pos). A nil data
	// bitmap writes true for every position, whatever invert is. Only the
	// boolean variant supports this.
	AddBits(data []byte, ranges iter.Seq[int], nulls []byte, invert bool) (uint64, error)

	// AddBitsFunc is AddBits with callback accessors.
	AddBitsFunc(valueAt func(int) bool, ranges iter.Seq[int], isNullAt func(int) bool, invert bool) (uint64, error)

	// Flush finalizes the current segment, returns the unused window tail
	// to the stream, and reports the stream's committed size.
	Flush() (uint64, error)

	// BufferSize returns the output stream's current size in bytes.
	BufferSize() uint64

	// RecordPosition appends this encoder's seek coordinates for the given
	// stride: the stream's own coordinates, then the staged literal count,
	// and for booleans the bit offset inside the current byte.
	RecordPosition(recorder *stream.PositionRecorder, strideIndex int)
}

// Decoder is the reader side of the codec.
//
// A decoder exclusively owns its input stream and is not safe for
// concurrent use.
type Decoder interface {
	// Next fills numValues positions of data. Positions marked null
	// consume nothing from the stream; the byte variant leaves them
	// untouched, the boolean variant clears their bits. For the boolean
	// variant data is an LSB-first bitmap and must be at least
	// ceil(numValues/8) bytes.
	Next(data []byte, numValues int, nulls []byte) error

	// Skip advances the logical position by numValues values. The skip is
	// deferred and fused into the next read.
	Skip(numValues uint64) error

	// SeekToRowGroup reseats the input stream using coordinates from the
	// provider, in the order RecordPosition emitted them.
	SeekToRowGroup(provider *stream.PositionProvider) error
}
