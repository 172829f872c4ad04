package chip8

// Memory layout constants
const (
	MemorySize     = 0x1000
	ProgramStart   = 0x200
	MaxProgramSize = MemorySize - ProgramStart

	addressMask = MemorySize - 1

	glyphSize  = 5
	glyphCount = 16
)

var fontset = [glyphCount * glyphSize]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the 4 KB address space of the VM. Every address is masked to the
// array size, so reads and writes never leave the array.
type Memory [MemorySize]uint8

func newMemory() *Memory {
	m := &Memory{}
	copy(m[:], fontset[:])
	return m
}

// Read returns the byte at addr.
func (m *Memory) Read(addr uint16) uint8 {
	return m[addr&addressMask]
}

// Write stores v at addr.
func (m *Memory) Write(addr uint16, v uint8) {
	m[addr&addressMask] = v
}

// Opcode returns the big-endian instruction word at addr.
func (m *Memory) Opcode(addr uint16) Opcode {
	return NewOpcode(m.Read(addr), m.Read(addr+1))
}

// GlyphAddress returns the address of the built-in sprite for the hex digit d.
func GlyphAddress(d uint8) uint16 {
	return uint16(d&0xF) * glyphSize
}
