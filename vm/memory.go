package vm

import "fmt"

// MemSize is the emulator's flat address space: 65,536 bytes (spec §4.7).
const MemSize = 65536

// Memory is the emulator's flat, zero-initialized byte array. Unlike the
// teacher's segmented model this ISA has no regions or permissions — the
// whole space is readable and writable uniformly (spec §4.7 has no
// segment/permission concept to carry forward).
type Memory struct {
	bytes [MemSize]byte
}

// Load copies b into memory starting at address, typically 0 (spec
// §4.7 Load: "copy data || code starting at memory address offset").
func (m *Memory) Load(address uint32, b []byte) error {
	end := uint64(address) + uint64(len(b))
	if end > MemSize {
		return fmt.Errorf("vm: load of %d bytes at 0x%04x exceeds memory", len(b), address)
	}
	copy(m.bytes[address:], b)
	return nil
}

// ReadWord reads a little-endian u32 at address, wrapping on overflow of
// the address space (spec §5: a runaway PC reads zero bytes as NOPs
// until it wraps, rather than faulting).
func (m *Memory) ReadWord(address uint32) uint32 {
	b0 := m.bytes[address%MemSize]
	b1 := m.bytes[(address+1)%MemSize]
	b2 := m.bytes[(address+2)%MemSize]
	b3 := m.bytes[(address+3)%MemSize]
	return uint32(b0) | uint32(b1)<<8 | uint32(b2)<<16 | uint32(b3)<<24
}

// WriteWord writes a little-endian u32 at address, wrapping on overflow.
func (m *Memory) WriteWord(address, value uint32) {
	m.bytes[address%MemSize] = byte(value)
	m.bytes[(address+1)%MemSize] = byte(value >> 8)
	m.bytes[(address+2)%MemSize] = byte(value >> 16)
	m.bytes[(address+3)%MemSize] = byte(value >> 24)
}

// ReadByte reads a single byte at address, wrapping on overflow.
func (m *Memory) ReadByte(address uint32) byte {
	return m.bytes[address%MemSize]
}

// WriteByte writes a single byte at address, wrapping on overflow.
func (m *Memory) WriteByte(address uint32, value byte) {
	m.bytes[address%MemSize] = value
}
