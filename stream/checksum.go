package stream

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/renliu/byterle/endian"
	"github.com/renliu/byterle/errs"
)

// ChecksumSize is the length of the xxHash64 trailer appended by
// AppendChecksum.
const ChecksumSize = 8

var checksumEngine = endian.GetLittleEndianEngine()

// ChecksumOutputStream wraps another OutputStream and keeps an xxHash64
// running digest over the bytes committed to it. A window is folded into
// the digest once the writer moves past it: on the next NextBuffer, or at
// Flush, minus whatever tail was returned with BackUp. Read the digest
// with Sum64 after Flush and persist it next to the stream, e.g. through
// AppendChecksum on the inner stream's bytes.
type ChecksumOutputStream struct {
	inner  OutputStream
	digest *xxhash.Digest
	window []byte
}

var _ OutputStream = (*ChecksumOutputStream)(nil)

// NewChecksumOutputStream wraps inner with a running xxHash64 digest.
func NewChecksumOutputStream(inner OutputStream) *ChecksumOutputStream {
	return &ChecksumOutputStream{
		inner:  inner,
		digest: xxhash.New(),
	}
}

// commit folds the outstanding window into the digest.
func (s *ChecksumOutputStream) commit() {
	if len(s.window) > 0 {
		_, _ = s.digest.Write(s.window)
		s.window = nil
	}
}

// NextBuffer commits the previous window to the digest and hands out the
// inner stream's next window.
func (s *ChecksumOutputStream) NextBuffer() ([]byte, error) {
	s.commit()
	win, err := s.inner.NextBuffer()
	if err != nil {
		return nil, err
	}
	s.window = win

	return win, nil
}

// BackUp excludes the unused window tail from both the inner stream and
// the digest.
func (s *ChecksumOutputStream) BackUp(count int) {
	s.window = s.window[:len(s.window)-count]
	s.inner.BackUp(count)
}

// Size returns the inner stream's size.
func (s *ChecksumOutputStream) Size() uint64 {
	return s.inner.Size()
}

// Flush commits the outstanding window to the digest and flushes the inner
// stream.
func (s *ChecksumOutputStream) Flush() (uint64, error) {
	s.commit()

	return s.inner.Flush()
}

// RecordPosition forwards to the inner stream; the wrapper adds no
// coordinates of its own.
func (s *ChecksumOutputStream) RecordPosition(recorder *PositionRecorder, bufferLength, bufferPosition, strideIndex int) {
	s.inner.RecordPosition(recorder, bufferLength, bufferPosition, strideIndex)
}

// Sum64 returns the digest of all committed bytes. Call it after Flush;
// mid-stream the outstanding window is not yet part of the digest.
func (s *ChecksumOutputStream) Sum64() uint64 {
	return s.digest.Sum64()
}

// ChecksumInputStream wraps another InputStream and keeps an xxHash64
// running digest over the windows it surfaces. The digest matches the
// writer's only for a front-to-back read: SkipBytes and SeekToPosition
// are forwarded but bypass the digest, so use the wrapper for dedicated
// verification passes, not for seeking readers.
type ChecksumInputStream struct {
	inner  InputStream
	digest *xxhash.Digest
}

var _ InputStream = (*ChecksumInputStream)(nil)

// NewChecksumInputStream wraps inner with a running xxHash64 digest.
func NewChecksumInputStream(inner InputStream) *ChecksumInputStream {
	return &ChecksumInputStream{
		inner:  inner,
		digest: xxhash.New(),
	}
}

// NextBuffer folds the surfaced window into the digest and returns it.
func (s *ChecksumInputStream) NextBuffer() ([]byte, error) {
	win, err := s.inner.NextBuffer()
	if err != nil {
		return nil, err
	}
	_, _ = s.digest.Write(win)

	return win, nil
}

// SkipBytes forwards the skip. Skipped bytes do not enter the digest.
func (s *ChecksumInputStream) SkipBytes(count uint64) error {
	return s.inner.SkipBytes(count)
}

// SeekToPosition forwards the seek. Bytes jumped over do not enter the
// digest.
func (s *ChecksumInputStream) SeekToPosition(provider *PositionProvider) error {
	return s.inner.SeekToPosition(provider)
}

// Name returns the inner stream's diagnostic name.
func (s *ChecksumInputStream) Name() string {
	return s.inner.Name()
}

// Sum64 returns the digest of all windows surfaced so far.
func (s *ChecksumInputStream) Sum64() uint64 {
	return s.digest.Sum64()
}

// Checksum returns the xxHash64 digest of an encoded stream.
func Checksum(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// AppendChecksum appends the xxHash64 digest of data as a little-endian
// trailer and returns the extended slice. Use it on a finished stream
// before persisting; VerifyChecksum strips and checks the trailer on the
// way back in.
func AppendChecksum(data []byte) []byte {
	return checksumEngine.AppendUint64(data, xxhash.Sum64(data))
}

// VerifyChecksum validates and strips the trailer added by AppendChecksum,
// returning the payload.
func VerifyChecksum(data []byte) ([]byte, error) {
	if len(data) < ChecksumSize {
		return nil, fmt.Errorf("%w: stream of %d bytes is shorter than its checksum trailer", errs.ErrCorrupt, len(data))
	}

	payload := data[:len(data)-ChecksumSize]
	want := checksumEngine.Uint64(data[len(data)-ChecksumSize:])
	if got := xxhash.Sum64(payload); got != want {
		return nil, fmt.Errorf("%w: computed %016x, trailer %016x", errs.ErrChecksumMismatch, got, want)
	}

	return payload, nil
}
