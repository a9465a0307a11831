package rle

import (
	"iter"

	"github.com/renliu/byterle/internal/bits"
	"github.com/renliu/byterle/stream"
)

// boolEncoder packs eight booleans per byte, MSB-first, and feeds the
// completed bytes through the byte run-length engine.
type boolEncoder struct {
	byteEncoder
	bitsRemained int
	current      byte
}

var _ Encoder = (*boolEncoder)(nil)

// NewBoolEncoder creates a run-length encoder for boolean values writing
// to out. The encoder takes exclusive ownership of the stream.
func NewBoolEncoder(out stream.OutputStream) Encoder {
	return &boolEncoder{
		byteEncoder:  byteEncoder{out: out},
		bitsRemained: 8,
	}
}

func (e *boolEncoder) flushByte() error {
	err := e.write(e.current)
	e.bitsRemained = 8
	e.current = 0

	return err
}

func (e *boolEncoder) writeBool(val bool) error {
	e.bitsRemained--
	if val {
		e.current |= 1 << e.bitsRemained
	}
	if e.bitsRemained == 0 {
		return e.flushByte()
	}

	return nil
}

// Add consumes the bytes of data as booleans (non-zero is true), skipping
// null positions. A nil data slice writes true for every position.
func (e *boolEncoder) Add(data []byte, ranges iter.Seq[int], nulls []byte) (uint64, error) {
	var count uint64
	for pos := range ranges {
		if nulls != nil && bits.IsBitNull(nulls, pos) {
			continue
		}
		if err := e.writeBool(data == nil || data[pos] != 0); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

// AddFunc is Add with callback accessors; a value byte of zero is false.
func (e *boolEncoder) AddFunc(valueAt func(int) byte, ranges iter.Seq[int], isNullAt func(int) bool) (uint64, error) {
	var count uint64
	for pos := range ranges {
		if isNullAt != nil && isNullAt(pos) {
			continue
		}
		if err := e.writeBool(valueAt == nil || valueAt(pos) != 0); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

// AddBits consumes bits of a dense LSB-first bitmap, writing
// invert XOR bit(data, pos) for each non-null position.
func (e *boolEncoder) AddBits(data []byte, ranges iter.Seq[int], nulls []byte, invert bool) (uint64, error) {
	var count uint64
	for pos := range ranges {
		if nulls != nil && bits.IsBitNull(nulls, pos) {
			continue
		}
		val := data == nil || invert != bits.IsBitSet(data, pos)
		if err := e.writeBool(val); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

// AddBitsFunc is AddBits with callback accessors.
func (e *boolEncoder) AddBitsFunc(valueAt func(int) bool, ranges iter.Seq[int], isNullAt func(int) bool, invert bool) (uint64, error) {
	var count uint64
	for pos := range ranges {
		if isNullAt != nil && isNullAt(pos) {
			continue
		}
		val := valueAt == nil || invert != valueAt(pos)
		if err := e.writeBool(val); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

// Flush emits the partial trailing byte, if any, then flushes the byte
// engine.
func (e *boolEncoder) Flush() (uint64, error) {
	if e.bitsRemained != 8 {
		if err := e.flushByte(); err != nil {
			return 0, err
		}
	}

	return e.byteEncoder.Flush()
}

// RecordPosition appends the byte engine's coordinates, then the bit
// offset inside the byte currently being packed.
func (e *boolEncoder) RecordPosition(recorder *stream.PositionRecorder, strideIndex int) {
	e.byteEncoder.RecordPosition(recorder, strideIndex)
	recorder.Add(strideIndex, uint64(8-e.bitsRemained))
}
