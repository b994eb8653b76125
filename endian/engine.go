// Package endian provides the little-endian byte-order engine used by
// bitio and the body codecs.
//
// OpenCTM's wire format is strictly little-endian (spec §4.1, §6), unlike
// the teacher package this is adapted from (which supports both orders).
// The engine abstraction is kept anyway: it lets bitio pick a fast
// unsafe-copy path when the host is already little-endian and fall back to
// a per-element Put loop otherwise, without duplicating the read/write
// call sites.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// Engine combines ByteOrder and AppendByteOrder from encoding/binary into a
// single interface, matching binary.LittleEndian's method set.
type Engine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// LittleEndian is the single engine instance used throughout this module.
var LittleEndian Engine = binary.LittleEndian

// CheckEndianness inspects the host's native byte order using a fixed
// 16-bit pattern.
func CheckEndianness() binary.ByteOrder {
	var i uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNativeLittleEndian reports whether the host's native byte order is
// little-endian, enabling a direct memory-copy fast path for float/int
// slice serialization instead of a per-element Put loop.
func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}
