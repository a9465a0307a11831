// Package compress provides the block codecs used by the stream layer.
//
// The RLE codec itself never compresses; compression is layered by the
// stream implementations, one block at a time. Each block is compressed
// independently so a reader can seek to a recorded block boundary and
// decompress from there without replaying the stream.
//
// Available codecs:
//   - NoOp: pass-through, for incompressible or tiny streams
//   - Zlib: DEFLATE, the ORC-family default, via klauspost/compress
//   - Zstd: best ratio; gozstd with cgo, klauspost/compress without
//   - S2: snappy-compatible, fastest
//   - LZ4: fast with slightly better ratio than S2 on RLE output
//
// Select a codec with compress.CreateCodec or compress.GetCodec using the
// format.CompressionType enum.
package compress
