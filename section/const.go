package section

const (
	// Bit masks of FrameFlag.Options
	EndiannessMask   = 0x0002 // Mask for endianness bit (bit 1)
	ReservedBitsMask = 0x000D // Mask for reserved bits (bits 0, 2, 3)
	MagicNumberMask  = 0xFFF0 // Mask for magic number (bits 4-15)

	// MagicFrameV1Opt is the version 1 magic number of the column frame format.
	MagicFrameV1Opt = 0xEC10
)

const (
	HeaderSize = 44 // fixed frame header size in bytes
)
