package stream

import "github.com/renliu/byterle/internal/options"

// OutputStream is the byte sink consumed by the RLE encoders.
//
// A stream hands out writable windows via NextBuffer. The caller fills a
// window front to back and either requests the next window or declares the
// unused tail with BackUp. The stream exclusively belongs to one encoder;
// none of the methods are safe for concurrent use.
type OutputStream interface {
	// NextBuffer returns the next writable window. The previous window is
	// considered fully written once NextBuffer is called again.
	NextBuffer() ([]byte, error)

	// BackUp declares the last count bytes of the most recent window as
	// unused. They will not appear in the output.
	BackUp(count int)

	// Size returns the number of bytes written so far, including the
	// outstanding window.
	Size() uint64

	// Flush commits all outstanding bytes and returns the committed size.
	Flush() (uint64, error)

	// RecordPosition appends this stream's position coordinates to the
	// recorder. bufferLength and bufferPosition describe the window the
	// caller currently holds, so the stream can subtract the unwritten
	// remainder of that window.
	RecordPosition(recorder *PositionRecorder, bufferLength, bufferPosition, strideIndex int)
}

// InputStream is the byte source consumed by the RLE decoders.
type InputStream interface {
	// NextBuffer returns the next readable window. An empty stream tail is
	// an error; the codec only asks for data it expects to exist.
	NextBuffer() ([]byte, error)

	// SkipBytes advances past count bytes without producing them.
	SkipBytes(count uint64) error

	// SeekToPosition repositions the stream using coordinates drawn from
	// the provider, consuming as many coordinates as this stream recorded.
	SeekToPosition(provider *PositionProvider) error

	// Name identifies the stream in diagnostics.
	Name() string
}

// PositionRecorder collects seek coordinates, grouped by stride index.
// Within one stride the coordinates keep insertion order, which is the
// order a PositionProvider must replay them in.
type PositionRecorder struct {
	strides map[int][]uint64
}

// NewPositionRecorder creates an empty recorder.
func NewPositionRecorder() *PositionRecorder {
	return &PositionRecorder{strides: make(map[int][]uint64)}
}

// Add appends one coordinate to the given stride.
func (r *PositionRecorder) Add(strideIndex int, position uint64) {
	r.strides[strideIndex] = append(r.strides[strideIndex], position)
}

// Positions returns the coordinates recorded for the given stride, in
// recording order. The returned slice is owned by the recorder.
func (r *PositionRecorder) Positions(strideIndex int) []uint64 {
	return r.strides[strideIndex]
}

// PositionProvider is a cursor over a flat coordinate list. Each consumer
// in the decode chain calls Next once per coordinate it recorded.
type PositionProvider struct {
	positions []uint64
	index     int
}

// NewPositionProvider creates a provider over the given coordinates.
func NewPositionProvider(positions []uint64) *PositionProvider {
	return &PositionProvider{positions: positions}
}

// Next consumes and returns the next coordinate.
// Panics if the provider is exhausted; running out of coordinates means
// the caller paired the provider with the wrong stream stack.
func (p *PositionProvider) Next() uint64 {
	pos := p.positions[p.index]
	p.index++

	return pos
}

// Remaining returns the number of unconsumed coordinates.
func (p *PositionProvider) Remaining() int {
	return len(p.positions) - p.index
}

// outputConfig holds the settings shared by output stream constructors.
type outputConfig struct {
	blockSize int
}

// inputConfig holds the settings shared by input stream constructors.
type inputConfig struct {
	name      string
	blockSize int
}

// OutputOption configures an output stream constructor.
type OutputOption = options.Option[*outputConfig]

// InputOption configures an input stream constructor.
type InputOption = options.Option[*inputConfig]

// WithBlockSize sets the window size handed out by an output stream. For
// compressed streams this is also the unit of compression. The size must
// fit the 23-bit block header length field.
func WithBlockSize(size int) OutputOption {
	return func(cfg *outputConfig) error {
		if size <= 0 || size > maxBlockLength {
			return errBlockSizeRange(size)
		}
		cfg.blockSize = size

		return nil
	}
}

// WithStreamName attaches a diagnostic name to an input stream.
func WithStreamName(name string) InputOption {
	return options.NoError(func(cfg *inputConfig) {
		cfg.name = name
	})
}

// WithReadBlockSize bounds the window size returned by an input stream.
// Mostly useful in tests to force window boundaries at awkward offsets.
func WithReadBlockSize(size int) InputOption {
	return func(cfg *inputConfig) error {
		if size <= 0 {
			return errBlockSizeRange(size)
		}
		cfg.blockSize = size

		return nil
	}
}
