// Package format defines small tagged-enum types shared across the storage
// engine and the metadata export path.
package format

// LogicVariant identifies which multi-valued logic domain a signal's
// changes are packed in.
type LogicVariant uint8

const (
	// Two is the {0,1} domain, 8 units per byte.
	Two LogicVariant = 0x1
	// Four is the {0,1,X,Z} domain, 4 units per byte.
	Four LogicVariant = 0x2
	// Nine is the full IEEE 1164 nine-value domain, 2 units per byte.
	Nine LogicVariant = 0x3
)

func (v LogicVariant) String() string {
	switch v {
	case Two:
		return "Two"
	case Four:
		return "Four"
	case Nine:
		return "Nine"
	default:
		return "Unknown"
	}
}

// UnitsPerByte returns how many logic units of this variant pack into one
// byte.
func (v LogicVariant) UnitsPerByte() int {
	switch v {
	case Two:
		return 8
	case Four:
		return 4
	case Nine:
		return 2
	default:
		return 0
	}
}

// BitsPerUnit returns the number of bits one unit of this variant occupies.
func (v LogicVariant) BitsPerUnit() int {
	switch v {
	case Two:
		return 1
	case Four:
		return 2
	case Nine:
		return 4
	default:
		return 0
	}
}

type (
	// EncodingType tags the encoding used for an exported metadata table.
	EncodingType uint8
	// CompressionType tags the compression algorithm applied to a
	// metadata export payload.
	CompressionType uint8
)

const (
	TypeRaw EncodingType = 0x1 // TypeRaw represents raw, unencoded data.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (e EncodingType) String() string {
	switch e {
	case TypeRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
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
