package section

import (
	"fmt"

	"github.com/arloliu/bytecol/endian"
	"github.com/arloliu/bytecol/errs"
)

// FrameHeader is the fixed-size header of a column frame.
type FrameHeader struct {
	Flag FrameFlag // 4 bytes, offset 0-3

	// Length is the number of rows.
	Length uint32 // offset 4-7
	// ByteOffset is the fixed region cursor.
	ByteOffset uint32 // offset 8-11
	// StringOffset is the pool cursor, or the string count for batch pools.
	StringOffset uint32 // offset 12-15
	// StringCount is the number of strings in a batch pool.
	StringCount uint32 // offset 16-19
	// BufferSize is the size of the main buffer.
	BufferSize uint32 // offset 20-23
	// StringBufferSize is the size of the string pool.
	StringBufferSize uint32 // offset 24-27
	// BodySize is the number of body bytes following the header, after
	// compression.
	BodySize uint32 // offset 28-31
	// Separator is the code point joining batch strings, zero otherwise.
	Separator uint32 // offset 32-35
	// Checksum is the xxHash64 of the uncompressed body.
	Checksum uint64 // offset 36-43
}

// NewFrameHeader creates a header with a default flag.
func NewFrameHeader() *FrameHeader {
	return &FrameHeader{Flag: NewFrameFlag()}
}

// RawBodySize returns the size of the uncompressed body.
func (h *FrameHeader) RawBodySize() int {
	return int(h.BufferSize) + int(h.StringBufferSize)
}

// Parse parses the header from the first HeaderSize bytes of data.
func (h *FrameHeader) Parse(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("%w: %d bytes, need %d", errs.ErrInvalidHeaderSize, len(data), HeaderSize)
	}

	// The options field is little-endian regardless of the endianness bit.
	h.Flag.Options = uint16(data[0]) | (uint16(data[1]) << 8)
	h.Flag.Strategy = data[2]
	h.Flag.Compression = data[3]

	if err := h.Flag.Validate(); err != nil {
		return err
	}

	engine := h.GetEndianEngine()
	h.Length = engine.Uint32(data[4:8])
	h.ByteOffset = engine.Uint32(data[8:12])
	h.StringOffset = engine.Uint32(data[12:16])
	h.StringCount = engine.Uint32(data[16:20])
	h.BufferSize = engine.Uint32(data[20:24])
	h.StringBufferSize = engine.Uint32(data[24:28])
	h.BodySize = engine.Uint32(data[28:32])
	h.Separator = engine.Uint32(data[32:36])
	h.Checksum = engine.Uint64(data[36:44])

	return nil
}

// Bytes serializes the header.
func (h *FrameHeader) Bytes() []byte {
	b := make([]byte, HeaderSize)
	h.WriteTo(b)

	return b
}

// WriteTo serializes the header into the first HeaderSize bytes of b.
func (h *FrameHeader) WriteTo(b []byte) {
	_ = b[HeaderSize-1]

	b[0] = byte(h.Flag.Options)
	b[1] = byte(h.Flag.Options >> 8)
	b[2] = h.Flag.Strategy
	b[3] = h.Flag.Compression

	engine := h.GetEndianEngine()
	engine.PutUint32(b[4:8], h.Length)
	engine.PutUint32(b[8:12], h.ByteOffset)
	engine.PutUint32(b[12:16], h.StringOffset)
	engine.PutUint32(b[16:20], h.StringCount)
	engine.PutUint32(b[20:24], h.BufferSize)
	engine.PutUint32(b[24:28], h.StringBufferSize)
	engine.PutUint32(b[28:32], h.BodySize)
	engine.PutUint32(b[32:36], h.Separator)
	engine.PutUint64(b[36:44], h.Checksum)
}

// GetEndianEngine returns the endian engine named by the flag.
func (h *FrameHeader) GetEndianEngine() endian.EndianEngine {
	if h.Flag.IsBigEndian() {
		return endian.GetBigEndianEngine()
	}

	return endian.GetLittleEndianEngine()
}
