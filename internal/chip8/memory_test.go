package chip8

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestMemoryFontset(t *testing.T) {
	m := newMemory()
	for i, b := range fontset {
		assert.Equal(t, b, m.Read(uint16(i)))
	}
	assert.Equal(t, uint8(0), m.Read(ProgramStart))
}

func TestMemoryAddressMask(t *testing.T) {
	m := newMemory()
	m.Write(0x1234, 0xAB)
	assert.Equal(t, uint8(0xAB), m.Read(0x234))
	assert.Equal(t, uint8(0xAB), m.Read(0xF234))
}

func TestMemoryOpcode(t *testing.T) {
	m := newMemory()
	m.Write(0x300, 0x12)
	m.Write(0x301, 0x34)
	assert.Equal(t, Opcode(0x1234), m.Opcode(0x300))

	// the second byte wraps to address 0
	m.Write(0xFFF, 0xA0)
	assert.Equal(t, Opcode(0xA0F0), m.Opcode(0xFFF))
}

func TestGlyphAddress(t *testing.T) {
	assert.Equal(t, uint16(0), GlyphAddress(0))
	assert.Equal(t, uint16(50), GlyphAddress(0xA))
	assert.Equal(t, uint16(75), GlyphAddress(0xF))
	assert.Equal(t, uint16(5), GlyphAddress(0x21))
}
