package format

type (
	ValueType       uint8
	StringStrategy  uint8
	ByteOrder       uint8
	CompressionType uint8
)

// Value tags are part of the wire format. TypeUndefined must stay 0 so a
// zeroed tag array reads as all-absent.
const (
	TypeUndefined ValueType = 0x0 // TypeUndefined represents an absent value.
	TypeDate      ValueType = 0x1 // TypeDate represents a calendar day in UTC.
	TypeString    ValueType = 0x2 // TypeString represents a text value.
	TypeNumber    ValueType = 0x3 // TypeNumber represents a float64 value.
	TypeBoolean   ValueType = 0x4 // TypeBoolean represents a boolean value.

	StrategyDirect     StringStrategy = 0x1 // StrategyDirect writes each string as a length-prefixed pool entry.
	StrategyDictionary StringStrategy = 0x2 // StrategyDictionary deduplicates repeated strings.
	StrategyBatch      StringStrategy = 0x3 // StrategyBatch defers transcoding to a single join at serialization.

	BigEndian    ByteOrder = 0x0 // BigEndian is the default byte order of the column buffers.
	LittleEndian ByteOrder = 0x1 // LittleEndian byte order.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

// FixedWidth returns the number of fixed-region bytes a value of type t occupies.
func (t ValueType) FixedWidth() int {
	switch t {
	case TypeNumber:
		return 8
	case TypeDate, TypeString:
		return 4
	case TypeBoolean:
		return 1
	default:
		return 0
	}
}

// IsValid reports whether t is one of the five known tags.
func (t ValueType) IsValid() bool {
	return t <= TypeBoolean
}

func (t ValueType) String() string {
	switch t {
	case TypeUndefined:
		return "Undefined"
	case TypeDate:
		return "Date"
	case TypeString:
		return "String"
	case TypeNumber:
		return "Number"
	case TypeBoolean:
		return "Boolean"
	default:
		return "Unknown"
	}
}

// IsValid reports whether s is a known string strategy.
func (s StringStrategy) IsValid() bool {
	return s >= StrategyDirect && s <= StrategyBatch
}

func (s StringStrategy) String() string {
	switch s {
	case StrategyDirect:
		return "Direct"
	case StrategyDictionary:
		return "Dictionary"
	case StrategyBatch:
		return "Batch"
	default:
		return "Unknown"
	}
}

// ParseStringStrategy parses a case-sensitive lower-case strategy name.
func ParseStringStrategy(name string) (StringStrategy, bool) {
	switch name {
	case "direct":
		return StrategyDirect, true
	case "dictionary", "dict":
		return StrategyDictionary, true
	case "batch":
		return StrategyBatch, true
	default:
		return 0, false
	}
}

func (o ByteOrder) String() string {
	switch o {
	case BigEndian:
		return "BigEndian"
	case LittleEndian:
		return "LittleEndian"
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

// ParseCompressionType parses a lower-case compression name.
func ParseCompressionType(name string) (CompressionType, bool) {
	switch name {
	case "none", "":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}
