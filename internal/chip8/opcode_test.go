package chip8

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestOpcodeNibbles(t *testing.T) {
	a, b, c, d := Opcode(0xD12F).Nibbles()
	assert.Equal(t, uint8(0xD), a)
	assert.Equal(t, uint8(0x1), b)
	assert.Equal(t, uint8(0x2), c)
	assert.Equal(t, uint8(0xF), d)
	assert.Equal(t, Opcode(0xD12F), NewOpcode(0xD1, 0x2F))
}

func TestDecode(t *testing.T) {
	tests := []struct {
		opcode Opcode
		name   string
		shape  Shape
		text   string
	}{
		{0x00E0, "cls", ShapeNone, "(00E0) cls"},
		{0x00EE, "ret", ShapeNone, "(00EE) ret"},
		{0x1234, "jp", ShapeAddress, "(1234) jp   $234"},
		{0x2300, "call", ShapeAddress, "(2300) call $300"},
		{0x3A12, "se", ShapeRegConst, "(3A12) se   VA, $12"},
		{0x4A12, "sne", ShapeRegConst, "(4A12) sne  VA, $12"},
		{0x5120, "se", ShapeRegs, "(5120) se   V1, V2"},
		{0x6A12, "ld", ShapeRegConst, "(6A12) ld   VA, $12"},
		{0x7A12, "add", ShapeRegConst, "(7A12) add  VA, $12"},
		{0x8120, "ld", ShapeRegs, "(8120) ld   V1, V2"},
		{0x8121, "or", ShapeRegs, "(8121) or   V1, V2"},
		{0x8122, "and", ShapeRegs, "(8122) and  V1, V2"},
		{0x8123, "xor", ShapeRegs, "(8123) xor  V1, V2"},
		{0x8124, "add", ShapeRegs, "(8124) add  V1, V2"},
		{0x8125, "sub", ShapeRegs, "(8125) sub  V1, V2"},
		{0x8126, "shr", ShapeRegs, "(8126) shr  V1, V2"},
		{0x8127, "subn", ShapeRegs, "(8127) subn V1, V2"},
		{0x812E, "shl", ShapeRegs, "(812E) shl  V1, V2"},
		{0x9120, "sne", ShapeRegs, "(9120) sne  V1, V2"},
		{0xA234, "ld", ShapeAddress, "(A234) ld   $234"},
		{0xB234, "jp", ShapeAddress, "(B234) jp   $234"},
		{0xC10F, "rnd", ShapeRegConst, "(C10F) rnd  V1, $0F"},
		{0xD125, "drw", ShapeRegsConst, "(D125) drw  V1, V2, $5"},
		{0xE19E, "skp", ShapeReg, "(E19E) skp  V1"},
		{0xE1A1, "sknp", ShapeReg, "(E1A1) sknp V1"},
		{0xF107, "ld", ShapeReg, "(F107) ld   V1"},
		{0xF10A, "ld", ShapeReg, "(F10A) ld   V1"},
		{0xF115, "ld", ShapeReg, "(F115) ld   V1"},
		{0xF118, "ld", ShapeReg, "(F118) ld   V1"},
		{0xF11E, "add", ShapeReg, "(F11E) add  V1"},
		{0xF129, "ld", ShapeReg, "(F129) ld   V1"},
		{0xF133, "ld", ShapeReg, "(F133) ld   V1"},
		{0xF155, "ld", ShapeReg, "(F155) ld   V1"},
		{0xF165, "ld", ShapeReg, "(F165) ld   V1"},
	}

	for _, tt := range tests {
		t.Run(tt.opcode.String(), func(t *testing.T) {
			in := tt.opcode.Decode()
			assert.True(t, in.Known())
			assert.Equal(t, tt.name, in.Name)
			assert.Equal(t, tt.shape, in.Operands.Shape)
			assert.Equal(t, tt.text, in.String())
		})
	}
}

func TestDecodeUnknown(t *testing.T) {
	for _, op := range []Opcode{0x0000, 0x0123, 0x00E1, 0x5121, 0x812F, 0x9121, 0xE100, 0xF1FF} {
		in := op.Decode()
		assert.False(t, in.Known())
		assert.Equal(t, unknownName, in.Name)
		assert.Equal(t, ShapeNone, in.Operands.Shape)
		assert.NotNil(t, in.exec)
	}
}

func TestDecodeOperands(t *testing.T) {
	ops := decodeOperands(0xD12F, ShapeRegsConst)
	assert.Equal(t, uint8(1), ops.X)
	assert.Equal(t, uint8(2), ops.Y)
	assert.Equal(t, uint8(0xF), ops.Const)

	ops = decodeOperands(0xA9BC, ShapeAddress)
	assert.Equal(t, uint16(0x9BC), ops.Addr)
	assert.Equal(t, "$9BC", ops.String())

	ops = decodeOperands(0x3A7F, ShapeRegConst)
	assert.Equal(t, uint8(0xA), ops.X)
	assert.Equal(t, uint8(0x7F), ops.Const)
}

func TestEveryOpcodeDecodes(t *testing.T) {
	for op := 0; op <= 0xFFFF; op++ {
		in := Opcode(op).Decode()
		assert.NotNil(t, in.exec)
		assert.True(t, in.Name != "")
	}
}

func TestShapeString(t *testing.T) {
	assert.Equal(t, "none", ShapeNone.String())
	assert.Equal(t, "regs+const", ShapeRegsConst.String())
	assert.Equal(t, "shape(9)", Shape(9).String())
}
