// Package errs defines the sentinel errors surfaced by the byterle codec
// and its stream layer.
//
// All errors are wrapped at their call sites with fmt.Errorf("%w: ...") so
// callers can classify failures with errors.Is while still receiving the
// diagnostic context (encoding key, stream name).
package errs

import "errors"

var (
	// ErrUnsupported is returned when a bit-level operation is invoked on a
	// byte-level encoder. Only the boolean encoder accepts bits.
	ErrUnsupported = errors.New("operation not supported by this encoder")

	// ErrIO is returned when the underlying output sink fails to allocate a
	// buffer window or the input source fails to produce more data.
	ErrIO = errors.New("stream I/O failure")

	// ErrCorrupt is returned when a segment header cannot be satisfied by
	// the remaining stream, i.e. a short read in the middle of a segment.
	ErrCorrupt = errors.New("corrupt RLE stream")

	// ErrBadPosition is returned when a seek coordinate is outside its
	// declared range, e.g. a bit offset greater than 8.
	ErrBadPosition = errors.New("bad seek position")

	// ErrInvalidBlockHeader is returned when a compressed stream block
	// header declares a length that exceeds the remaining stream.
	ErrInvalidBlockHeader = errors.New("invalid compressed block header")

	// ErrChecksumMismatch is returned when a stream's xxHash64 trailer does
	// not match the digest of its payload.
	ErrChecksumMismatch = errors.New("stream checksum mismatch")
)
