// Package rle implements the byte and boolean run-length codecs used to
// persist single-byte column streams and bit streams.
//
// # Wire format
//
// A stream is a concatenation of segments, each a signed header byte h
// followed by payload. h >= 0 encodes a repeat of h+3 copies of the next
// payload byte (runs of 3..130); h < 0 encodes -h literal bytes copied
// verbatim (1..128). The number of logical values is carried out-of-band
// by the caller, as in the rest of the column reader stack.
//
// # Byte and boolean variants
//
// NewByteEncoder and NewByteDecoder move whole bytes. NewBoolEncoder packs
// eight booleans per byte, MSB-first on the wire, before handing the bytes
// to the byte engine; NewBoolDecoder reverses each decoded byte into
// LSB-first order so bit i of the output bitmap is the i-th logical value.
//
// # Nulls
//
// Both codecs take an optional null mask (a set bit marks an absent value,
// see internal/bits). Encoders skip null positions entirely; decoders
// consume no payload for them. The byte decoder leaves null positions
// untouched; the boolean decoder clears their bits.
//
// # Seeking
//
// Encoders record positions per stride through a stream.PositionRecorder:
// the sink's coordinates, then the staged literal count, and for booleans
// the bit offset inside the current byte. A decoder seeded with the same
// coordinates via SeekToRowGroup resumes exactly at that row. Skips are
// deferred and fused into the next read, so seek followed by Next walks
// the stream once.
package rle
