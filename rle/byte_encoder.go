package rle

import (
	"fmt"
	"iter"

	"github.com/renliu/byterle/errs"
	"github.com/renliu/byterle/internal/bits"
	"github.com/renliu/byterle/stream"
)

// byteEncoder is the core run-length state machine. It stages values in a
// fixed literal buffer, promotes a trailing run of MinRepeat equal bytes
// into a repeat segment, and writes segments through windows handed out by
// the output stream.
type byteEncoder struct {
	out           stream.OutputStream
	buffer        []byte
	literals      [MaxLiteral]byte
	numLiterals   int
	tailRunLength int
	bufferPos     int
	bufferLen     int
	repeat        bool
}

var _ Encoder = (*byteEncoder)(nil)

// NewByteEncoder creates a run-length encoder for single-byte values
// writing to out. The encoder takes exclusive ownership of the stream.
func NewByteEncoder(out stream.OutputStream) Encoder {
	return &byteEncoder{out: out}
}

// writeByte places one encoded byte into the current window, requesting a
// fresh window from the stream when the current one is full.
func (e *byteEncoder) writeByte(c byte) error {
	if e.bufferPos == e.bufferLen {
		buf, err := e.out.NextBuffer()
		if err != nil {
			return fmt.Errorf("%w: buffer allocation failure: %v", errs.ErrIO, err)
		}
		e.buffer = buf
		e.bufferPos = 0
		e.bufferLen = len(buf)
	}
	e.buffer[e.bufferPos] = c
	e.bufferPos++

	return nil
}

// writeValues emits the staged content as one segment: a repeat header and
// its single payload byte, or a literal header followed by the staged
// bytes verbatim.
func (e *byteEncoder) writeValues() error {
	if e.numLiterals == 0 {
		return nil
	}

	if e.repeat {
		if err := e.writeByte(byte(e.numLiterals - MinRepeat)); err != nil {
			return err
		}
		if err := e.writeByte(e.literals[0]); err != nil {
			return err
		}
	} else {
		if err := e.writeByte(byte(-e.numLiterals)); err != nil {
			return err
		}
		for i := range e.numLiterals {
			if err := e.writeByte(e.literals[i]); err != nil {
				return err
			}
		}
	}
	e.repeat = false
	e.tailRunLength = 0
	e.numLiterals = 0

	return nil
}

// write advances the run-detection state machine by one value.
func (e *byteEncoder) write(value byte) error {
	if e.numLiterals == 0 {
		e.literals[e.numLiterals] = value
		e.numLiterals++
		e.tailRunLength = 1

		return nil
	}

	if e.repeat {
		if value == e.literals[0] {
			e.numLiterals++
			if e.numLiterals == MaxRepeat {
				return e.writeValues()
			}

			return nil
		}
		if err := e.writeValues(); err != nil {
			return err
		}
		e.literals[e.numLiterals] = value
		e.numLiterals++
		e.tailRunLength = 1

		return nil
	}

	if value == e.literals[e.numLiterals-1] {
		e.tailRunLength++
	} else {
		e.tailRunLength = 1
	}

	if e.tailRunLength == MinRepeat {
		// The staged tail became a run. Emit the literal prefix, if any,
		// and restart the buffer as a repeat of this value.
		if e.numLiterals+1 > MinRepeat {
			e.numLiterals -= MinRepeat - 1
			if err := e.writeValues(); err != nil {
				return err
			}
			e.literals[0] = value
		}
		e.repeat = true
		e.numLiterals = MinRepeat

		return nil
	}

	e.literals[e.numLiterals] = value
	e.numLiterals++
	if e.numLiterals == MaxLiteral {
		return e.writeValues()
	}

	return nil
}

// Add consumes bytes at the positions enumerated by ranges, skipping null
// positions, and returns the number of values written.
func (e *byteEncoder) Add(data []byte, ranges iter.Seq[int], nulls []byte) (uint64, error) {
	var count uint64
	if nulls != nil {
		for pos := range ranges {
			if bits.IsBitNull(nulls, pos) {
				continue
			}
			if err := e.write(data[pos]); err != nil {
				return count, err
			}
			count++
		}

		return count, nil
	}

	for pos := range ranges {
		if err := e.write(data[pos]); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

// AddFunc is Add with callback accessors.
func (e *byteEncoder) AddFunc(valueAt func(int) byte, ranges iter.Seq[int], isNullAt func(int) bool) (uint64, error) {
	var count uint64
	for pos := range ranges {
		if isNullAt != nil && isNullAt(pos) {
			continue
		}
		var v byte
		if valueAt != nil {
			v = valueAt(pos)
		}
		if err := e.write(v); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

// AddBits rejects bit-level input; only the boolean encoder packs bits.
func (e *byteEncoder) AddBits([]byte, iter.Seq[int], []byte, bool) (uint64, error) {
	return 0, fmt.Errorf("%w: AddBits is only for boolean streams", errs.ErrUnsupported)
}

// AddBitsFunc rejects bit-level input; only the boolean encoder packs bits.
func (e *byteEncoder) AddBitsFunc(func(int) bool, iter.Seq[int], func(int) bool, bool) (uint64, error) {
	return 0, fmt.Errorf("%w: AddBits is only for boolean streams", errs.ErrUnsupported)
}

// Flush emits the staged segment, returns the unused window tail to the
// stream, and reports the committed stream size.
func (e *byteEncoder) Flush() (uint64, error) {
	if err := e.writeValues(); err != nil {
		return 0, err
	}
	e.out.BackUp(e.bufferLen - e.bufferPos)
	e.bufferPos = 0
	e.bufferLen = 0

	return e.out.Flush()
}

// BufferSize returns the output stream's current size.
func (e *byteEncoder) BufferSize() uint64 {
	return e.out.Size()
}

// RecordPosition appends the stream's coordinates and the staged literal
// count for the given stride.
func (e *byteEncoder) RecordPosition(recorder *stream.PositionRecorder, strideIndex int) {
	e.out.RecordPosition(recorder, e.bufferLen, e.bufferPos, strideIndex)
	recorder.Add(strideIndex, uint64(e.numLiterals))
}
