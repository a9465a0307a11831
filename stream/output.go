package stream

import (
	"fmt"

	"github.com/renliu/byterle/errs"
	"github.com/renliu/byterle/internal/options"
	"github.com/renliu/byterle/internal/pool"
)

const defaultOutputBlockSize = 1024

func errBlockSizeRange(size int) error {
	return fmt.Errorf("block size %d out of range [1, %d]", size, maxBlockLength)
}

// BufferedOutputStream is an in-memory OutputStream. Windows are carved out
// of a single pooled buffer, so the encoded stream ends up contiguous and
// is retrieved with Bytes after Flush.
//
// Not safe for concurrent use; the owning encoder drives it exclusively.
type BufferedOutputStream struct {
	buf       *pool.ByteBuffer
	blockSize int
}

var _ OutputStream = (*BufferedOutputStream)(nil)

// NewBufferedOutputStream creates an in-memory sink. The default window
// size of 1KiB suits typical per-column RLE output; tune it with
// WithBlockSize.
func NewBufferedOutputStream(opts ...OutputOption) (*BufferedOutputStream, error) {
	cfg := outputConfig{blockSize: defaultOutputBlockSize}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	return &BufferedOutputStream{
		buf:       pool.GetStreamBuffer(),
		blockSize: cfg.blockSize,
	}, nil
}

// NextBuffer extends the backing buffer by one block and returns the new
// region as the writable window.
func (s *BufferedOutputStream) NextBuffer() ([]byte, error) {
	if s.buf == nil {
		return nil, fmt.Errorf("%w: output stream already closed", errs.ErrIO)
	}

	return s.buf.ExtendOrGrow(s.blockSize), nil
}

// BackUp returns the unused tail of the most recent window.
func (s *BufferedOutputStream) BackUp(count int) {
	s.buf.Truncate(s.buf.Len() - count)
}

// Size returns the bytes written so far, including the outstanding window.
func (s *BufferedOutputStream) Size() uint64 {
	return uint64(s.buf.Len())
}

// Flush commits outstanding bytes. For an in-memory stream this only
// reports the committed size; the data is already in place.
func (s *BufferedOutputStream) Flush() (uint64, error) {
	return s.Size(), nil
}

// RecordPosition appends one coordinate: the logical byte offset of the
// caller's write cursor, i.e. the committed size minus the unwritten
// remainder of the window the caller holds.
func (s *BufferedOutputStream) RecordPosition(recorder *PositionRecorder, bufferLength, bufferPosition, strideIndex int) {
	recorder.Add(strideIndex, s.Size()-uint64(bufferLength)+uint64(bufferPosition))
}

// Bytes returns the encoded stream. Valid until Close.
func (s *BufferedOutputStream) Bytes() []byte {
	return s.buf.Bytes()
}

// Reset discards all written data while keeping the stream usable.
func (s *BufferedOutputStream) Reset() {
	s.buf.Reset()
}

// Close returns the backing buffer to the pool. The stream is unusable
// afterwards and the slice returned by Bytes must no longer be referenced.
func (s *BufferedOutputStream) Close() {
	if s.buf == nil {
		return
	}
	pool.PutStreamBuffer(s.buf)
	s.buf = nil
}
