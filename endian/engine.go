// Package endian maps the column byte order flag to byte order engines.
//
// Column buffers default to big-endian so that the fixed region and the
// offset table are byte-compatible with buffers produced by DataView-style
// writers. Little-endian is available for hosts that want native-order reads.
//
// # Basic Usage
//
//	engine := endian.ForByteOrder(format.BigEndian)
//	engine.PutUint32(buf[off:], ref)
//	buf = engine.AppendUint64(buf, bits)
//
// # Thread Safety
//
// All functions and methods in this package are safe for concurrent use.
// The returned EndianEngine instances are immutable and stateless.
package endian

import (
	"encoding/binary"
	"unsafe"

	"github.com/arloliu/bytecol/format"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() binary.ByteOrder {
	var i uint16 = 0x0100

	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// NativeByteOrder returns the format flag matching the host byte order.
func NativeByteOrder() format.ByteOrder {
	if CheckEndianness() == binary.BigEndian {
		return format.BigEndian
	}

	return format.LittleEndian
}

// ForByteOrder returns the engine for a column byte order flag.
// Unknown flags fall back to big-endian.
func ForByteOrder(order format.ByteOrder) EndianEngine {
	if order == format.LittleEndian {
		return GetLittleEndianEngine()
	}

	return GetBigEndianEngine()
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
