// Package endian provides the byte order used to lay out metadata buffers.
//
// Binary chunks consumed by glTF readers are little-endian, so
// GetLittleEndianEngine is the default everywhere in structmeta. The
// big-endian engine exists for hosts that embed the buffers in their own
// big-endian containers.
//
// # Basic Usage
//
//	engine := endian.GetLittleEndianEngine()
//	buf := engine.AppendUint32(nil, 100) // [0x64 0x00 0x00 0x00]
//
// An EndianEngine is both a binary.ByteOrder and a binary.AppendByteOrder,
// which lets encoders either append into a growing buffer or write in place
// into a pre-sized one.
//
// # Thread Safety
//
// All functions and methods in this package are safe for concurrent use.
// The returned EndianEngine instances are immutable and stateless.
package endian

import "encoding/binary"

// EndianEngine writes and reads fixed-width integers in one byte order.
// binary.LittleEndian and binary.BigEndian both satisfy it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// IsLittleEndian reports whether engine writes the least significant byte first.
func IsLittleEndian(engine EndianEngine) bool {
	return engine.Uint16([]byte{0x01, 0x00}) == 1
}

// Name returns a short human readable name for engine, used in log fields.
func Name(engine EndianEngine) string {
	if engine == nil {
		return "unknown"
	}
	if IsLittleEndian(engine) {
		return "little"
	}

	return "big"
}
