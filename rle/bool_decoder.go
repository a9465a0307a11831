package rle

import (
	"fmt"

	"github.com/renliu/byterle/endian"
	"github.com/renliu/byterle/errs"
	"github.com/renliu/byterle/format"
	"github.com/renliu/byterle/internal/bits"
	"github.com/renliu/byterle/stream"
)

// boolDecoder reads a bit-packed boolean stream through the byte engine.
// Decoded bytes are bit-reversed into LSB-first order, so bit i of the
// output bitmap is the i-th logical value. Up to 8 already-decoded bits
// are buffered in reversedLastByte between calls.
type boolDecoder struct {
	byteDecoder
	remainingBits    uint64
	reversedLastByte byte
	engine           endian.EndianEngine
}

var _ Decoder = (*boolDecoder)(nil)

// NewBoolDecoder creates a run-length decoder for boolean values reading
// from in. The decoder takes exclusive ownership of the stream; key tags
// diagnostics.
func NewBoolDecoder(in stream.InputStream, key EncodingKey) Decoder {
	return &boolDecoder{
		byteDecoder: byteDecoder{in: in, key: key, kind: format.TypeBooleanRLE},
		engine:      endian.GetLittleEndianEngine(),
	}
}

// SeekToRowGroup consumes the byte engine's coordinates plus one more: the
// bit offset within the byte, which must be in [0, 8]. The deferred skip
// is re-expressed in bits.
func (d *boolDecoder) SeekToRowGroup(provider *stream.PositionProvider) error {
	if err := d.byteDecoder.SeekToRowGroup(provider); err != nil {
		return err
	}
	consumed := provider.Next()
	if consumed > 8 {
		return fmt.Errorf("%w: bit offset %d in %s decoder %s, stream %s",
			errs.ErrBadPosition, consumed, d.kind, d.key, d.in.Name())
	}
	d.pendingSkip = 8*d.pendingSkip + consumed
	d.remainingBits = 0

	return nil
}

// skipPending partitions the bit skip into buffered bits, a byte-granular
// skip through the byte engine, and a sub-byte tail that is decoded into
// the bit buffer.
func (d *boolDecoder) skipPending() error {
	numValues := d.pendingSkip
	d.pendingSkip = 0
	if numValues <= d.remainingBits {
		d.remainingBits -= numValues
		return nil
	}

	numValues -= d.remainingBits
	d.remainingBits = 0
	d.pendingSkip = numValues / 8
	if err := d.byteDecoder.skipPending(); err != nil {
		return err
	}

	bitsToSkip := numValues % 8
	if bitsToSkip > 0 {
		var last [1]byte
		if err := d.byteDecoder.Next(last[:], 1, nil); err != nil {
			return err
		}
		bits.ReverseBits(last[:], 1)
		d.reversedLastByte = last[0]
		d.remainingBits = 8 - bitsToSkip
	}

	return nil
}

// Next fills numValues bits of the data bitmap, scattering through the
// null mask if one is given. data must be at least ceil(numValues/8)
// bytes; the 64-bit shift step reads and writes whole lanes of it through
// the little-endian engine, so no alignment is required.
func (d *boolDecoder) Next(data []byte, numValues int, nulls []byte) error {
	if err := d.skipPending(); err != nil {
		return err
	}

	nonNulls := numValues
	if nulls != nil {
		nonNulls = bits.CountNonNulls(nulls, 0, numValues)
	}

	outputBytes := (numValues + 7) / 8
	if nonNulls == 0 {
		clear(data[:outputBytes])
		return nil
	}

	if d.remainingBits >= uint64(nonNulls) {
		// The bit buffer alone covers this read; nonNulls is under 8.
		data[0] = (d.reversedLastByte >> (8 - d.remainingBits)) & (byte(0xff) >> (8 - nonNulls))
		d.remainingBits -= uint64(nonNulls)
	} else {
		var previousByte byte
		if d.remainingBits > 0 {
			previousByte = d.reversedLastByte >> (8 - d.remainingBits)
		}

		bytesRead := int(bits.DivRoundUp(uint64(nonNulls)-d.remainingBits, 8))
		if err := d.byteDecoder.Next(data[:bytesRead], bytesRead, nil); err != nil {
			return err
		}

		bits.ReverseBits(data, bytesRead)
		d.reversedLastByte = data[bytesRead-1]

		if d.remainingBits > 0 {
			// Shift the fresh bits up to make room for the carried ones,
			// 64 bits at a time for the aligned prefix and byte-wise for
			// the tail. previousByte always enters at the low end.
			shift := d.remainingBits
			nonNullDWords := nonNulls / 64
			for i := range nonNullDWords {
				lane := data[i*8 : i*8+8]
				tmp := d.engine.Uint64(lane)
				d.engine.PutUint64(lane, uint64(previousByte)|tmp<<shift)
				previousByte = byte(tmp >> (64 - shift))
			}

			nonNullOutputBytes := (nonNulls + 7) / 8
			for i := nonNullDWords * 8; i < nonNullOutputBytes; i++ {
				tmp := data[i]
				data[i] = previousByte | tmp<<shift
				previousByte = tmp >> (8 - shift)
			}
		}
		d.remainingBits = uint64(bytesRead)*8 + d.remainingBits - uint64(nonNulls)
	}

	if numValues > nonNulls {
		bits.ScatterBits(nonNulls, numValues, data, nulls, data)
	}

	// Clear the bits past numValues in the last byte; they belong to the
	// next read.
	data[outputBytes-1] &= byte(0xff) >> (outputBytes*8 - numValues)

	return nil
}
