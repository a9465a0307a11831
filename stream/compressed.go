package stream

import (
	"fmt"

	"github.com/renliu/byterle/compress"
	"github.com/renliu/byterle/errs"
	"github.com/renliu/byterle/format"
	"github.com/renliu/byterle/internal/options"
	"github.com/renliu/byterle/internal/pool"
)

// Compressed streams frame each block with a 3-byte header carrying the
// block length in its upper 23 bits and an "original" flag in bit 0. When
// a block does not shrink under compression it is stored verbatim with the
// flag set, so the reader never pays for incompressible data twice.
const (
	blockHeaderSize = 3
	maxBlockLength  = 1<<23 - 1

	defaultCompressionBlockSize = 64 * 1024
)

func putBlockHeader(dst []byte, length int, original bool) {
	header := length << 1
	if original {
		header |= 1
	}
	dst[0] = byte(header)
	dst[1] = byte(header >> 8)
	dst[2] = byte(header >> 16)
}

func parseBlockHeader(src []byte) (length int, original bool) {
	header := int(src[0]) | int(src[1])<<8 | int(src[2])<<16

	return header >> 1, header&1 == 1
}

// CompressedOutputStream is an OutputStream that compresses its content one
// block at a time. Windows are carved out of the current uncompressed
// block; when the block fills up it is compressed and appended to the
// output with a block header.
//
// Positions are two coordinates: the compressed offset of the block start
// and the uncompressed offset inside the block.
type CompressedOutputStream struct {
	codec     compress.Codec
	out       *pool.ByteBuffer
	block     []byte
	fill      int
	blockSize int
}

var _ OutputStream = (*CompressedOutputStream)(nil)

// NewCompressedOutputStream creates a compressing sink using the given
// codec. The default block size of 64KiB matches common column stripe
// configurations.
func NewCompressedOutputStream(codec compress.Codec, opts ...OutputOption) (*CompressedOutputStream, error) {
	cfg := outputConfig{blockSize: defaultCompressionBlockSize}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	return &CompressedOutputStream{
		codec:     codec,
		out:       pool.GetStreamBuffer(),
		block:     make([]byte, cfg.blockSize),
		blockSize: cfg.blockSize,
	}, nil
}

// NewCompressedOutputStreamFor creates a compressing sink for the given
// compression type, resolving the codec through compress.CreateCodec.
func NewCompressedOutputStreamFor(compression format.CompressionType, opts ...OutputOption) (*CompressedOutputStream, error) {
	codec, err := compress.CreateCodec(compression, "output stream")
	if err != nil {
		return nil, err
	}

	return NewCompressedOutputStream(codec, opts...)
}

// NextBuffer returns the unwritten remainder of the current block,
// spilling a full block to the compressed output first.
func (s *CompressedOutputStream) NextBuffer() ([]byte, error) {
	if s.fill == s.blockSize {
		if err := s.spill(); err != nil {
			return nil, err
		}
	}

	window := s.block[s.fill:s.blockSize]
	s.fill = s.blockSize

	return window, nil
}

// BackUp returns the unused tail of the most recent window.
func (s *CompressedOutputStream) BackUp(count int) {
	s.fill -= count
}

// Size returns compressed bytes emitted plus uncompressed bytes pending in
// the current block.
func (s *CompressedOutputStream) Size() uint64 {
	return uint64(s.out.Len()) + uint64(s.fill)
}

// Flush spills the partial trailing block and returns the total compressed
// size.
func (s *CompressedOutputStream) Flush() (uint64, error) {
	if err := s.spill(); err != nil {
		return 0, err
	}

	return uint64(s.out.Len()), nil
}

// RecordPosition appends two coordinates: the compressed offset where the
// current block will land, and the caller's write cursor inside the block.
func (s *CompressedOutputStream) RecordPosition(recorder *PositionRecorder, bufferLength, bufferPosition, strideIndex int) {
	recorder.Add(strideIndex, uint64(s.out.Len()))
	recorder.Add(strideIndex, uint64(s.fill-bufferLength+bufferPosition))
}

// Bytes returns the compressed stream written so far. Valid until Close.
func (s *CompressedOutputStream) Bytes() []byte {
	return s.out.Bytes()
}

// Close returns the output buffer to the pool; the stream becomes unusable.
func (s *CompressedOutputStream) Close() {
	if s.out == nil {
		return
	}
	pool.PutStreamBuffer(s.out)
	s.out = nil
}

func (s *CompressedOutputStream) spill() error {
	if s.fill == 0 {
		return nil
	}

	data := s.block[:s.fill]
	compressed, err := s.codec.Compress(data)
	if err != nil {
		return fmt.Errorf("%w: block compression failed: %v", errs.ErrIO, err)
	}

	payload := compressed
	original := false
	if len(compressed) >= len(data) {
		payload = data
		original = true
	}

	dst := s.out.ExtendOrGrow(blockHeaderSize + len(payload))
	putBlockHeader(dst, len(payload), original)
	copy(dst[blockHeaderSize:], payload)
	s.fill = 0

	return nil
}

// CompressedInputStream reads a stream written by CompressedOutputStream,
// decompressing one block at a time. Seeking consumes two coordinates:
// the compressed block offset and the uncompressed offset inside it.
type CompressedInputStream struct {
	data     []byte
	name     string
	codec    compress.Codec
	pos      int
	block    []byte
	blockPos int
}

var _ InputStream = (*CompressedInputStream)(nil)

// NewCompressedInputStream creates a stream over the compressed data.
func NewCompressedInputStream(data []byte, codec compress.Codec, opts ...InputOption) (*CompressedInputStream, error) {
	cfg := inputConfig{name: "compressed stream"}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	return &CompressedInputStream{
		data:  data,
		name:  cfg.name,
		codec: codec,
	}, nil
}

// NewCompressedInputStreamFor creates a stream over the compressed data
// for the given compression type, resolving the codec through
// compress.CreateCodec.
func NewCompressedInputStreamFor(data []byte, compression format.CompressionType, opts ...InputOption) (*CompressedInputStream, error) {
	codec, err := compress.CreateCodec(compression, "input stream")
	if err != nil {
		return nil, err
	}

	return NewCompressedInputStream(data, codec, opts...)
}

// NextBuffer returns the unread remainder of the current decompressed
// block, reading and decompressing the next block when exhausted.
func (s *CompressedInputStream) NextBuffer() ([]byte, error) {
	if s.blockPos == len(s.block) {
		if err := s.readBlock(); err != nil {
			return nil, err
		}
	}

	window := s.block[s.blockPos:]
	s.blockPos = len(s.block)

	return window, nil
}

// SkipBytes advances past count uncompressed bytes, decompressing whatever
// blocks the skip range covers.
func (s *CompressedInputStream) SkipBytes(count uint64) error {
	for count > 0 {
		if s.blockPos == len(s.block) {
			if err := s.readBlock(); err != nil {
				return err
			}
		}
		n := min(count, uint64(len(s.block)-s.blockPos))
		s.blockPos += int(n)
		count -= n
	}

	return nil
}

// SeekToPosition repositions the stream at a compressed block offset and
// an uncompressed offset inside that block.
func (s *CompressedInputStream) SeekToPosition(provider *PositionProvider) error {
	blockOffset := provider.Next()
	if blockOffset > uint64(len(s.data)) {
		return fmt.Errorf("%w: block offset %d beyond %s of %d bytes", errs.ErrBadPosition, blockOffset, s.name, len(s.data))
	}
	s.pos = int(blockOffset)
	s.block = nil
	s.blockPos = 0

	return s.SkipBytes(provider.Next())
}

// Name returns the diagnostic name of the stream.
func (s *CompressedInputStream) Name() string {
	return s.name
}

func (s *CompressedInputStream) readBlock() error {
	if s.pos >= len(s.data) {
		return fmt.Errorf("%w: read past end of %s", errs.ErrIO, s.name)
	}
	if len(s.data)-s.pos < blockHeaderSize {
		return fmt.Errorf("%w: truncated block header in %s", errs.ErrInvalidBlockHeader, s.name)
	}

	length, original := parseBlockHeader(s.data[s.pos:])
	payloadStart := s.pos + blockHeaderSize
	if length > len(s.data)-payloadStart {
		return fmt.Errorf("%w: block of %d bytes exceeds remaining %d in %s",
			errs.ErrInvalidBlockHeader, length, len(s.data)-payloadStart, s.name)
	}

	payload := s.data[payloadStart : payloadStart+length]
	s.pos = payloadStart + length

	if original {
		s.block = payload
	} else {
		block, err := s.codec.Decompress(payload)
		if err != nil {
			return fmt.Errorf("%w: block decompression failed in %s: %v", errs.ErrCorrupt, s.name, err)
		}
		s.block = block
	}
	s.blockPos = 0

	return nil
}
