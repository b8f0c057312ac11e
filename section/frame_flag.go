package section

import (
	"github.com/arloliu/bytecol/errs"
	"github.com/arloliu/bytecol/format"
)

// FrameFlag is the packed flag field at the start of a frame header.
type FrameFlag struct {
	// Options packs the endianness bit (bit 1, set for big-endian) and the
	// magic number (bits 4-15). Bits 0, 2 and 3 are reserved and zero.
	Options uint16

	// Strategy is the format.StringStrategy of the column.
	Strategy uint8

	// Compression is the format.CompressionType of the body.
	Compression uint8
}

// NewFrameFlag returns a flag for a big-endian, direct, uncompressed frame.
func NewFrameFlag() FrameFlag {
	flag := FrameFlag{
		Options:     MagicFrameV1Opt,
		Strategy:    uint8(format.StrategyDirect),
		Compression: uint8(format.CompressionNone),
	}
	flag.WithBigEndian()

	return flag
}

// IsBigEndian returns whether header fields and payloads are big-endian.
func (f FrameFlag) IsBigEndian() bool {
	return (f.Options & EndiannessMask) != 0
}

// WithBigEndian sets big-endian byte order.
func (f *FrameFlag) WithBigEndian() {
	f.Options |= EndiannessMask
}

// WithLittleEndian sets little-endian byte order.
func (f *FrameFlag) WithLittleEndian() {
	f.Options &^= EndiannessMask
}

// ByteOrder returns the byte order named by the endianness bit.
func (f FrameFlag) ByteOrder() format.ByteOrder {
	if f.IsBigEndian() {
		return format.BigEndian
	}

	return format.LittleEndian
}

// SetByteOrder sets the endianness bit from order.
func (f *FrameFlag) SetByteOrder(order format.ByteOrder) {
	if order == format.LittleEndian {
		f.WithLittleEndian()
	} else {
		f.WithBigEndian()
	}
}

// GetMagicNumber returns the magic number bits.
func (f FrameFlag) GetMagicNumber() uint16 {
	return f.Options & MagicNumberMask
}

// GetStrategy returns the string strategy.
func (f FrameFlag) GetStrategy() format.StringStrategy {
	return format.StringStrategy(f.Strategy)
}

// SetStrategy sets the string strategy.
func (f *FrameFlag) SetStrategy(strategy format.StringStrategy) {
	f.Strategy = uint8(strategy)
}

// GetCompression returns the body compression.
func (f FrameFlag) GetCompression() format.CompressionType {
	return format.CompressionType(f.Compression)
}

// SetCompression sets the body compression.
func (f *FrameFlag) SetCompression(compression format.CompressionType) {
	f.Compression = uint8(compression)
}

// Validate checks the magic number, the reserved bits and the enum fields.
func (f FrameFlag) Validate() error {
	if f.GetMagicNumber() != MagicFrameV1Opt {
		return errs.ErrInvalidMagicNumber
	}

	if (f.Options & ReservedBitsMask) != 0 {
		return errs.ErrInvalidHeaderFlags
	}

	if !f.GetStrategy().IsValid() {
		return errs.ErrInvalidHeaderFlags
	}

	switch f.GetCompression() {
	case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
	default:
		return errs.ErrInvalidHeaderFlags
	}

	return nil
}
