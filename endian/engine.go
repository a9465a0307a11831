// Package endian provides byte order utilities for binary encoding and
// decoding.
//
// It combines the standard library's ByteOrder and AppendByteOrder
// interfaces into a single EndianEngine. The boolean RLE decoder uses the
// little-endian engine to move 64-bit lanes through its LSB-first bit
// buffers, and the stream layer uses it for checksum trailers.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary
// into a single interface. It is satisfied by binary.LittleEndian and
// binary.BigEndian, so engines are immutable, stateless, and safe for
// concurrent use.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine. Little-endian is
// the natural order for LSB-first bitmaps: byte k of a bitmap holds logical
// bits 8k..8k+7, which is exactly how a little-endian uint64 lays out its
// bytes.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
