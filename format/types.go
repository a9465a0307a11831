package format

type (
	EncodingType    uint8
	CompressionType uint8
)

const (
	TypeByteRLE    EncodingType = 0x1 // TypeByteRLE represents byte run-length encoding.
	TypeBooleanRLE EncodingType = 0x2 // TypeBooleanRLE represents bit-packed boolean run-length encoding.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZlib CompressionType = 0x2 // CompressionZlib represents zlib (DEFLATE) compression.
	CompressionZstd CompressionType = 0x3 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x4 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x5 // CompressionLZ4 represents LZ4 compression.
)

func (e EncodingType) String() string {
	switch e {
	case TypeByteRLE:
		return "ByteRLE"
	case TypeBooleanRLE:
		return "BooleanRLE"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZlib:
		return "Zlib"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
