package rle

import (
	"fmt"

	"github.com/renliu/byterle/errs"
	"github.com/renliu/byterle/format"
	"github.com/renliu/byterle/internal/bits"
	"github.com/renliu/byterle/stream"
)

// byteDecoder reads a byte run-length stream segment by segment. Skips are
// deferred in pendingSkip and drained at the start of the next read, so a
// seek immediately followed by a read traverses the stream once.
type byteDecoder struct {
	in              stream.InputStream
	key             EncodingKey
	kind            format.EncodingType
	buffer          []byte
	bufferPos       int
	remainingValues uint64
	pendingSkip     uint64
	value           byte
	repeating       bool
}

var _ Decoder = (*byteDecoder)(nil)

// NewByteDecoder creates a run-length decoder for single-byte values
// reading from in. The decoder takes exclusive ownership of the stream;
// key tags diagnostics.
func NewByteDecoder(in stream.InputStream, key EncodingKey) Decoder {
	return &byteDecoder{in: in, key: key, kind: format.TypeByteRLE}
}

// nextBuffer requests a fresh read window. Exhaustion here means the
// stream ended while a segment still owed values.
func (d *byteDecoder) nextBuffer() error {
	buf, err := d.in.NextBuffer()
	if err != nil {
		return fmt.Errorf("%w: bad read in %s decoder %s, stream %s: %w",
			errs.ErrCorrupt, d.kind, d.key, d.in.Name(), err)
	}
	d.buffer = buf
	d.bufferPos = 0

	return nil
}

func (d *byteDecoder) readByte() (byte, error) {
	if d.bufferPos == len(d.buffer) {
		if err := d.nextBuffer(); err != nil {
			return 0, err
		}
	}
	b := d.buffer[d.bufferPos]
	d.bufferPos++

	return b, nil
}

// readHeader parses the next segment header, and for repeats the payload
// byte to replicate.
func (d *byteDecoder) readHeader() error {
	ch, err := d.readByte()
	if err != nil {
		return err
	}

	if h := int8(ch); h < 0 {
		d.repeating = false
		d.remainingValues = uint64(-int16(h))

		return nil
	}

	d.repeating = true
	d.remainingValues = uint64(ch) + MinRepeat
	d.value, err = d.readByte()

	return err
}

// skipBytes drops count payload bytes, consuming the current window first
// and delegating the rest to the input stream.
func (d *byteDecoder) skipBytes(count uint64) error {
	if avail := uint64(len(d.buffer) - d.bufferPos); avail > 0 {
		n := min(count, avail)
		d.bufferPos += int(n)
		count -= n
	}
	if count > 0 {
		if err := d.in.SkipBytes(count); err != nil {
			return fmt.Errorf("%w in %s decoder %s", err, d.kind, d.key)
		}
	}

	return nil
}

// skipPending drains the deferred skip by walking segments, dropping
// literal payload without copying it.
func (d *byteDecoder) skipPending() error {
	numValues := d.pendingSkip
	d.pendingSkip = 0
	for numValues > 0 {
		if d.remainingValues == 0 {
			if err := d.readHeader(); err != nil {
				return err
			}
		}
		count := min(numValues, d.remainingValues)
		d.remainingValues -= count
		numValues -= count
		if !d.repeating {
			if err := d.skipBytes(count); err != nil {
				return err
			}
		}
	}

	return nil
}

// Skip defers the advance; consumption happens at the next read.
func (d *byteDecoder) Skip(numValues uint64) error {
	d.pendingSkip += numValues
	return nil
}

// SeekToRowGroup reseats the input stream, invalidates the cached segment
// and window, and defers the row skip within the group.
func (d *byteDecoder) SeekToRowGroup(provider *stream.PositionProvider) error {
	if err := d.in.SeekToPosition(provider); err != nil {
		return fmt.Errorf("%w in %s decoder %s", err, d.kind, d.key)
	}
	d.buffer = nil
	d.bufferPos = 0
	d.remainingValues = 0
	d.pendingSkip = provider.Next()

	return nil
}

// Next fills numValues positions of data, leaving null positions
// untouched. Repeat segments are spent against the non-null positions
// they fill; literal segments consume one payload byte per non-null
// position.
func (d *byteDecoder) Next(data []byte, numValues int, nulls []byte) error {
	if err := d.skipPending(); err != nil {
		return err
	}

	position := 0
	for nulls != nil && position < numValues && bits.IsBitNull(nulls, position) {
		position++
	}

	for position < numValues {
		if d.remainingValues == 0 {
			if err := d.readHeader(); err != nil {
				return err
			}
		}
		count := int(min(uint64(numValues-position), d.remainingValues))
		var consumed uint64

		switch {
		case d.repeating && nulls != nil:
			for i := range count {
				if !bits.IsBitNull(nulls, position+i) {
					data[position+i] = d.value
					consumed++
				}
			}
		case d.repeating:
			fillBytes(data[position:position+count], d.value)
			consumed = uint64(count)
		case nulls != nil:
			for i := range count {
				if bits.IsBitNull(nulls, position+i) {
					continue
				}
				b, err := d.readByte()
				if err != nil {
					return err
				}
				data[position+i] = b
				consumed++
			}
		default:
			i := 0
			for i < count {
				if d.bufferPos == len(d.buffer) {
					if err := d.nextBuffer(); err != nil {
						return err
					}
				}
				copied := copy(data[position+i:position+count], d.buffer[d.bufferPos:])
				d.bufferPos += copied
				i += copied
			}
			consumed = uint64(count)
		}

		d.remainingValues -= consumed
		position += count
		for nulls != nil && position < numValues && bits.IsBitNull(nulls, position) {
			position++
		}
	}

	return nil
}

func fillBytes(dst []byte, value byte) {
	for i := range dst {
		dst[i] = value
	}
}
