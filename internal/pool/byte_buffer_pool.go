package pool

import "sync"

// Default sizing for pooled stream buffers. RLE output for a single column
// stream is usually small; 8KiB covers a typical row group while the
// threshold keeps pathological buffers out of the pool.
const (
	StreamBufferDefaultSize  = 1024 * 8
	StreamBufferMaxThreshold = 1024 * 256
)

// ByteBuffer is a growable byte slice used as the backing store of buffered
// output streams. Windows handed to the RLE encoders are sub-slices of B,
// so ByteBuffer must not reallocate while a window is outstanding; growth
// happens only between windows.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates a ByteBuffer with the given initial capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, defaultSize)}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Len returns the number of bytes currently in the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// Reset empties the buffer while retaining its allocation.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Truncate shrinks the buffer to n bytes.
// Panics if n is negative or beyond the current length.
func (bb *ByteBuffer) Truncate(n int) {
	if n < 0 || n > len(bb.B) {
		panic("Truncate: invalid length")
	}
	bb.B = bb.B[:n]
}

// ExtendOrGrow lengthens the buffer by n bytes, reallocating if the
// capacity is insufficient, and returns the newly appended region.
func (bb *ByteBuffer) ExtendOrGrow(n int) []byte {
	start := len(bb.B)
	if cap(bb.B)-start < n {
		bb.grow(n)
	}
	bb.B = bb.B[:start+n]

	return bb.B[start:]
}

// grow reallocates so at least requiredBytes more fit without another
// reallocation. Small buffers grow by the default size, larger ones by a
// quarter of their capacity.
func (bb *ByteBuffer) grow(requiredBytes int) {
	growBy := StreamBufferDefaultSize
	if cap(bb.B) > 4*StreamBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// ByteBufferPool pools ByteBuffers to avoid per-stream allocations.
// Buffers above maxThreshold are discarded instead of pooled.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool producing buffers of defaultSize and
// refusing to retain buffers larger than maxThreshold.
func NewByteBufferPool(defaultSize, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}
	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var streamDefaultPool = NewByteBufferPool(StreamBufferDefaultSize, StreamBufferMaxThreshold)

// GetStreamBuffer retrieves a ByteBuffer from the default stream pool.
func GetStreamBuffer() *ByteBuffer {
	return streamDefaultPool.Get()
}

// PutStreamBuffer returns a ByteBuffer to the default stream pool.
func PutStreamBuffer(bb *ByteBuffer) {
	streamDefaultPool.Put(bb)
}
