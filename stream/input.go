package stream

import (
	"fmt"

	"github.com/renliu/byterle/errs"
	"github.com/renliu/byterle/internal/options"
)

const defaultInputBlockSize = 1024

// SeekableArrayInputStream reads an in-memory byte slice through bounded
// windows. Seeking consumes one coordinate: the absolute byte offset.
//
// The stream does not copy the input; windows alias the caller's slice.
type SeekableArrayInputStream struct {
	data      []byte
	name      string
	blockSize int
	pos       int
}

var _ InputStream = (*SeekableArrayInputStream)(nil)

// NewSeekableArrayInputStream creates a stream over data.
func NewSeekableArrayInputStream(data []byte, opts ...InputOption) (*SeekableArrayInputStream, error) {
	cfg := inputConfig{name: "array stream", blockSize: defaultInputBlockSize}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	return &SeekableArrayInputStream{
		data:      data,
		name:      cfg.name,
		blockSize: cfg.blockSize,
	}, nil
}

// NextBuffer returns the next readable window of at most the configured
// block size. Reading past the end of the data is an error.
func (s *SeekableArrayInputStream) NextBuffer() ([]byte, error) {
	if s.pos >= len(s.data) {
		return nil, fmt.Errorf("%w: read past end of %s", errs.ErrIO, s.name)
	}

	n := min(s.blockSize, len(s.data)-s.pos)
	window := s.data[s.pos : s.pos+n]
	s.pos += n

	return window, nil
}

// SkipBytes advances the read position. Skipping to exactly the end is
// legal; skipping beyond it is not.
func (s *SeekableArrayInputStream) SkipBytes(count uint64) error {
	if count > uint64(len(s.data)-s.pos) {
		return fmt.Errorf("%w: skip of %d bytes past end of %s", errs.ErrCorrupt, count, s.name)
	}
	s.pos += int(count)

	return nil
}

// SeekToPosition repositions the stream at the absolute byte offset drawn
// from the provider.
func (s *SeekableArrayInputStream) SeekToPosition(provider *PositionProvider) error {
	offset := provider.Next()
	if offset > uint64(len(s.data)) {
		return fmt.Errorf("%w: offset %d beyond %s of %d bytes", errs.ErrBadPosition, offset, s.name, len(s.data))
	}
	s.pos = int(offset)

	return nil
}

// Name returns the diagnostic name of the stream.
func (s *SeekableArrayInputStream) Name() string {
	return s.name
}
