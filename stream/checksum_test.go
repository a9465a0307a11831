package stream

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/renliu/byterle/errs"
)

func TestChecksum_RoundTrip(t *testing.T) {
	data := []byte{0x02, 0x41, 0xFE, 0x42, 0x43}

	framed := AppendChecksum(data)
	require.Len(t, framed, len(data)+ChecksumSize)

	payload, err := VerifyChecksum(framed)
	require.NoError(t, err)
	require.Equal(t, data, payload)
}

func TestChecksum_Empty(t *testing.T) {
	framed := AppendChecksum(nil)
	require.Len(t, framed, ChecksumSize)

	payload, err := VerifyChecksum(framed)
	require.NoError(t, err)
	require.Empty(t, payload)
}

func TestChecksum_DetectsCorruption(t *testing.T) {
	framed := AppendChecksum([]byte{1, 2, 3, 4})
	framed[1] ^= 0x80

	_, err := VerifyChecksum(framed)
	require.ErrorIs(t, err, errs.ErrChecksumMismatch)
}

func TestChecksum_TooShort(t *testing.T) {
	_, err := VerifyChecksum([]byte{1, 2, 3})
	require.ErrorIs(t, err, errs.ErrCorrupt)
}

func TestChecksumOutputStream_RunningDigest(t *testing.T) {
	data := make([]byte, 1000)
	for i := range data {
		data[i] = byte(i % 7)
	}

	inner, err := NewBufferedOutputStream(WithBlockSize(16))
	require.NoError(t, err)
	defer inner.Close()

	out := NewChecksumOutputStream(inner)
	// writeThroughWindows backs up the unused tail of every window, so
	// the digest must track partial window commits too.
	writeThroughWindows(t, out, data)
	size, err := out.Flush()
	require.NoError(t, err)
	require.Equal(t, uint64(len(data)), size)

	require.Equal(t, data, inner.Bytes())
	require.Equal(t, Checksum(inner.Bytes()), out.Sum64())
}

func TestChecksumOutputStream_PositionsForward(t *testing.T) {
	inner, err := NewBufferedOutputStream(WithBlockSize(8))
	require.NoError(t, err)
	defer inner.Close()

	out := NewChecksumOutputStream(inner)
	win, err := out.NextBuffer()
	require.NoError(t, err)
	copy(win, []byte{1, 2, 3})

	recorder := NewPositionRecorder()
	out.RecordPosition(recorder, len(win), 3, 0)
	require.Equal(t, []uint64{3}, recorder.Positions(0))
	require.Equal(t, inner.Size(), out.Size())
}

func TestChecksumInputStream_FrontToBackRead(t *testing.T) {
	data := make([]byte, 500)
	for i := range data {
		data[i] = byte(i % 11)
	}

	inner, err := NewSeekableArrayInputStream(data, WithReadBlockSize(13), WithStreamName("digest check"))
	require.NoError(t, err)

	in := NewChecksumInputStream(inner)
	require.Equal(t, "digest check", in.Name())
	require.Equal(t, data, readThroughWindows(t, in, len(data)))
	require.Equal(t, Checksum(data), in.Sum64())
}
