package stream

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/renliu/byterle/errs"
)

func TestBufferedOutputStream_Windows(t *testing.T) {
	out, err := NewBufferedOutputStream(WithBlockSize(4))
	require.NoError(t, err)
	defer out.Close()

	win, err := out.NextBuffer()
	require.NoError(t, err)
	require.Len(t, win, 4)
	copy(win, []byte{1, 2, 3, 4})

	win, err = out.NextBuffer()
	require.NoError(t, err)
	copy(win, []byte{5, 6})
	out.BackUp(2)

	size, err := out.Flush()
	require.NoError(t, err)
	require.Equal(t, uint64(6), size)
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6}, out.Bytes())
}

func TestBufferedOutputStream_RecordPosition(t *testing.T) {
	out, err := NewBufferedOutputStream(WithBlockSize(8))
	require.NoError(t, err)
	defer out.Close()

	recorder := NewPositionRecorder()

	// No window outstanding: the position is the committed size.
	out.RecordPosition(recorder, 0, 0, 0)

	win, err := out.NextBuffer()
	require.NoError(t, err)
	copy(win, []byte{9, 9, 9})

	// Three bytes into an 8-byte window.
	out.RecordPosition(recorder, len(win), 3, 1)

	require.Equal(t, []uint64{0}, recorder.Positions(0))
	require.Equal(t, []uint64{3}, recorder.Positions(1))
}

func TestBufferedOutputStream_InvalidBlockSize(t *testing.T) {
	_, err := NewBufferedOutputStream(WithBlockSize(0))
	require.Error(t, err)

	_, err = NewBufferedOutputStream(WithBlockSize(maxBlockLength + 1))
	require.Error(t, err)
}

func TestSeekableArrayInputStream_Windows(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	in, err := NewSeekableArrayInputStream(data, WithReadBlockSize(4))
	require.NoError(t, err)

	win, err := in.NextBuffer()
	require.NoError(t, err)
	require.Equal(t, []byte{0, 1, 2, 3}, win)

	require.NoError(t, in.SkipBytes(3))

	win, err = in.NextBuffer()
	require.NoError(t, err)
	require.Equal(t, []byte{7, 8, 9}, win)

	_, err = in.NextBuffer()
	require.ErrorIs(t, err, errs.ErrIO)
}

func TestSeekableArrayInputStream_SkipPastEnd(t *testing.T) {
	in, err := NewSeekableArrayInputStream([]byte{1, 2, 3})
	require.NoError(t, err)

	require.NoError(t, in.SkipBytes(3))
	require.Error(t, in.SkipBytes(1))
}

func TestSeekableArrayInputStream_Seek(t *testing.T) {
	data := []byte{10, 11, 12, 13, 14}
	in, err := NewSeekableArrayInputStream(data, WithStreamName("col0.present"))
	require.NoError(t, err)
	require.Equal(t, "col0.present", in.Name())

	require.NoError(t, in.SeekToPosition(NewPositionProvider([]uint64{3})))
	win, err := in.NextBuffer()
	require.NoError(t, err)
	require.Equal(t, []byte{13, 14}, win)

	err = in.SeekToPosition(NewPositionProvider([]uint64{6}))
	require.ErrorIs(t, err, errs.ErrBadPosition)
}

func TestPositionProvider_Order(t *testing.T) {
	recorder := NewPositionRecorder()
	recorder.Add(0, 7)
	recorder.Add(0, 8)
	recorder.Add(1, 100)

	provider := NewPositionProvider(recorder.Positions(0))
	require.Equal(t, 2, provider.Remaining())
	require.Equal(t, uint64(7), provider.Next())
	require.Equal(t, uint64(8), provider.Next())
	require.Equal(t, 0, provider.Remaining())
}
