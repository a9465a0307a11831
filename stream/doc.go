// Package stream provides the byte sinks and sources the RLE codec writes
// to and reads from, plus the position bookkeeping that makes encoded
// streams seekable.
//
// # Sinks and sources
//
// An encoder owns exactly one OutputStream and a decoder owns exactly one
// InputStream for the lifetime of the instance. The window-based API
// (NextBuffer / BackUp) lets the codec write and read without per-byte
// interface calls: the stream hands out a writable or readable slice and
// the codec consumes it. Unused tail bytes of a writable window are
// returned with BackUp; input streams have no BackUp.
//
// Implementations:
//   - BufferedOutputStream: in-memory sink over a pooled byte buffer
//   - SeekableArrayInputStream: bounded-window reader over a byte slice
//   - CompressedOutputStream / CompressedInputStream: the same, with
//     block-at-a-time compression framed by 3-byte ORC-style headers
//
// # Positions
//
// A PositionRecorder accumulates uint64 coordinates per stride; a
// PositionProvider replays them in the same order. Uncompressed streams
// contribute one coordinate (absolute byte offset); compressed streams
// contribute two (compressed block start, offset inside the decompressed
// block). The RLE encoders then append their own coordinates after these,
// and the RLE decoders consume them in the same order.
package stream
