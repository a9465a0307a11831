package rle

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/renliu/byterle/errs"
	"github.com/renliu/byterle/internal/bits"
	"github.com/renliu/byterle/stream"
)

func packLSB(values []bool) []byte {
	packed := make([]byte, (len(values)+7)/8)
	for i, v := range values {
		if v {
			packed[i/8] |= 1 << (i % 8)
		}
	}

	return packed
}

func encodeBoolStream(t *testing.T, values []bool, nulls []byte) []byte {
	t.Helper()

	out, err := stream.NewBufferedOutputStream()
	require.NoError(t, err)
	defer out.Close()

	enc := NewBoolEncoder(out)
	_, err = enc.AddBitsFunc(func(i int) bool { return values[i] }, Range(0, len(values)), func(i int) bool {
		return bits.IsBitNull(nulls, i)
	}, false)
	require.NoError(t, err)
	_, err = enc.Flush()
	require.NoError(t, err)

	encoded := make([]byte, len(out.Bytes()))
	copy(encoded, out.Bytes())

	return encoded
}

func newBoolDecoder(t *testing.T, encoded []byte) Decoder {
	t.Helper()

	in, err := stream.NewSeekableArrayInputStream(encoded)
	require.NoError(t, err)

	return NewBoolDecoder(in, EncodingKey{Node: 2})
}

func TestBoolEncoder_WireFormat(t *testing.T) {
	values := []bool{true, false, true, false, true, false, true, false, true}
	encoded := encodeBoolStream(t, values, nil)

	// Bits pack MSB-first on the wire: 10101010 then the lone ninth bit at
	// the top of a second byte. Two distinct bytes make a literal segment.
	require.Equal(t, []byte{0xFE, 0xAA, 0x80}, encoded)

	dec := newBoolDecoder(t, encoded)
	got := make([]byte, 2)
	require.NoError(t, dec.Next(got, 9, nil))
	require.Equal(t, packLSB(values), got)
}

func TestBoolRLE_RoundTripChunked(t *testing.T) {
	const n = 4000
	rng := rand.New(rand.NewSource(99))

	values := make([]bool, n)
	for i := range values {
		values[i] = rng.Intn(2) == 1
	}
	encoded := encodeBoolStream(t, values, nil)

	// Chunk sizes chosen to leave buffered bits behind and then force the
	// 64-bit shift path with a carry.
	chunks := []int{3, 5, 64, 256, 13, 1, 7, 128, 1000}

	dec := newBoolDecoder(t, encoded)
	offset := 0
	for i := 0; offset < n; i++ {
		count := min(chunks[i%len(chunks)], n-offset)
		got := make([]byte, (count+7)/8)
		require.NoError(t, dec.Next(got, count, nil))
		require.Equal(t, packLSB(values[offset:offset+count]), got, "chunk at offset %d, count %d", offset, count)
		offset += count
	}
}

func TestBoolRLE_RoundTripWithNulls(t *testing.T) {
	const n = 777
	rng := rand.New(rand.NewSource(5))

	values := make([]bool, n)
	nulls := make([]byte, (n+7)/8)
	for i := range values {
		switch rng.Intn(3) {
		case 0:
			bits.SetBitNull(nulls, i)
		case 1:
			values[i] = true
		}
	}

	encoded := encodeBoolStream(t, values, nulls)

	dec := newBoolDecoder(t, encoded)
	got := make([]byte, (n+7)/8)
	require.NoError(t, dec.Next(got, n, nulls))

	for i := range n {
		if bits.IsBitNull(nulls, i) {
			require.False(t, bits.IsBitSet(got, i), "null position %d must decode to 0", i)
		} else {
			require.Equal(t, values[i], bits.IsBitSet(got, i), "position %d", i)
		}
	}
}

func TestBoolDecoder_AllNulls(t *testing.T) {
	nulls := make([]byte, 3)
	for i := range 20 {
		bits.SetBitNull(nulls, i)
	}

	dec := newBoolDecoder(t, nil)
	got := []byte{0xFF, 0xFF, 0xFF}
	require.NoError(t, dec.Next(got, 20, nulls))
	require.Equal(t, []byte{0x00, 0x00, 0x00}, got)
}

func TestBoolEncoder_AddBitsInvert(t *testing.T) {
	const n = 100
	bitmap := make([]byte, (n+7)/8)
	for i := range n {
		if i%3 == 0 {
			bits.SetBit(bitmap, i)
		}
	}

	out, err := stream.NewBufferedOutputStream()
	require.NoError(t, err)
	defer out.Close()

	enc := NewBoolEncoder(out)
	count, err := enc.AddBits(bitmap, Range(0, n), nil, true)
	require.NoError(t, err)
	require.Equal(t, uint64(n), count)
	_, err = enc.Flush()
	require.NoError(t, err)

	dec := newBoolDecoder(t, out.Bytes())
	got := make([]byte, (n+7)/8)
	require.NoError(t, dec.Next(got, n, nil))

	for i := range n {
		require.Equal(t, i%3 != 0, bits.IsBitSet(got, i), "position %d", i)
	}
}

func TestBoolEncoder_AddBytesAsBooleans(t *testing.T) {
	data := []byte{0, 1, 0, 0, 9, 255, 0, 1, 1}

	out, err := stream.NewBufferedOutputStream()
	require.NoError(t, err)
	defer out.Close()

	enc := NewBoolEncoder(out)
	_, err = enc.Add(data, Range(0, len(data)), nil)
	require.NoError(t, err)
	_, err = enc.Flush()
	require.NoError(t, err)

	dec := newBoolDecoder(t, out.Bytes())
	got := make([]byte, 2)
	require.NoError(t, dec.Next(got, len(data), nil))

	for i, b := range data {
		require.Equal(t, b != 0, bits.IsBitSet(got, i), "position %d", i)
	}
}

func TestBoolRLE_LongRun(t *testing.T) {
	const n = 10000
	values := make([]bool, n)
	for i := range values {
		values[i] = true
	}

	encoded := encodeBoolStream(t, values, nil)
	// 1250 bytes of 0xFF collapse into nine max-length repeat segments
	// and one repeat of 80: ten two-byte segments, 20 bytes in all.
	require.LessOrEqual(t, len(encoded), 22)

	dec := newBoolDecoder(t, encoded)
	got := make([]byte, (n+7)/8)
	require.NoError(t, dec.Next(got, n, nil))
	require.Equal(t, packLSB(values), got)
}

func TestBoolDecoder_Skip(t *testing.T) {
	const n = 3000
	rng := rand.New(rand.NewSource(21))

	values := make([]bool, n)
	for i := range values {
		values[i] = rng.Intn(4) != 0
	}
	encoded := encodeBoolStream(t, values, nil)

	dec := newBoolDecoder(t, encoded)

	// Read a few bits first so the skip starts from a buffered-bit state.
	head := make([]byte, 1)
	require.NoError(t, dec.Next(head, 5, nil))
	require.Equal(t, packLSB(values[:5]), head)

	require.NoError(t, dec.Skip(1234))

	got := make([]byte, 16)
	require.NoError(t, dec.Next(got, 128, nil))
	require.Equal(t, packLSB(values[1239:1239+128]), got)
}

func TestBoolRLE_PositionalSeek(t *testing.T) {
	const n = 2500
	const stride = 100 // not a multiple of 8, so bit offsets are exercised
	rng := rand.New(rand.NewSource(31))

	values := make([]bool, n)
	for i := range values {
		values[i] = rng.Intn(2) == 0
	}

	out, err := stream.NewBufferedOutputStream()
	require.NoError(t, err)
	defer out.Close()

	enc := NewBoolEncoder(out)
	recorder := stream.NewPositionRecorder()
	for g := 0; g*stride < n; g++ {
		enc.RecordPosition(recorder, g)
		_, err = enc.AddBitsFunc(func(i int) bool { return values[i] }, Range(g*stride, (g+1)*stride), nil, false)
		require.NoError(t, err)
	}
	_, err = enc.Flush()
	require.NoError(t, err)
	encoded := out.Bytes()

	for g := 0; g*stride < n; g++ {
		// Boolean positions over an uncompressed stream are three
		// coordinates: byte offset, staged literal count, bit offset.
		positions := recorder.Positions(g)
		require.Len(t, positions, 3)

		dec := newBoolDecoder(t, encoded)
		require.NoError(t, dec.SeekToRowGroup(stream.NewPositionProvider(positions)))

		got := make([]byte, (stride+7)/8)
		require.NoError(t, dec.Next(got, stride, nil))
		require.Equal(t, packLSB(values[g*stride:(g+1)*stride]), got, "row group %d", g)
	}
}

func TestBoolDecoder_SeekBadBitOffset(t *testing.T) {
	dec := newBoolDecoder(t, []byte{0x00, 0xFF})
	provider := stream.NewPositionProvider([]uint64{0, 0, 9})
	err := dec.SeekToRowGroup(provider)
	require.ErrorIs(t, err, errs.ErrBadPosition)
}
