package chip8

import "fmt"

// Opcode is a raw 16-bit instruction word.
type Opcode uint16

// NewOpcode combines two consecutive memory cells big-endian.
func NewOpcode(hi, lo uint8) Opcode {
	return Opcode(uint16(hi)<<8 | uint16(lo))
}

// Nibbles splits the opcode into its four 4-bit fields, most significant first.
func (o Opcode) Nibbles() (uint8, uint8, uint8, uint8) {
	return uint8(o >> 12 & 0xF), uint8(o >> 8 & 0xF), uint8(o >> 4 & 0xF), uint8(o & 0xF)
}

func (o Opcode) class() uint8   { return uint8(o >> 12) }
func (o Opcode) x() uint8       { return uint8(o >> 8 & 0xF) } // the lower 4 bits of the high byte
func (o Opcode) y() uint8       { return uint8(o >> 4 & 0xF) } // the upper 4 bits of the low byte
func (o Opcode) n() uint8       { return uint8(o & 0xF) }
func (o Opcode) kk() uint8      { return uint8(o & 0xFF) }
func (o Opcode) nnn() uint16    { return uint16(o & 0xFFF) }
func (o Opcode) String() string { return fmt.Sprintf("%04X", uint16(o)) }

// Shape names the operand layout of an instruction.
type Shape uint8

// Operand shapes
const (
	ShapeNone      Shape = iota // no operands
	ShapeAddress                // 12-bit address (nnn)
	ShapeReg                    // register (x)
	ShapeRegs                   // registers (x, y)
	ShapeRegConst               // register + 8-bit constant (x, kk)
	ShapeRegsConst              // registers + 4-bit constant (x, y, n)
)

func (s Shape) String() string {
	switch s {
	case ShapeNone:
		return "none"
	case ShapeAddress:
		return "address"
	case ShapeReg:
		return "reg"
	case ShapeRegs:
		return "regs"
	case ShapeRegConst:
		return "reg+const"
	case ShapeRegsConst:
		return "regs+const"
	default:
		return fmt.Sprintf("shape(%d)", uint8(s))
	}
}

// Operands holds the decoded fields of an instruction. Only the fields that
// belong to Shape are meaningful.
type Operands struct {
	Shape Shape
	Addr  uint16 // nnn
	X     uint8
	Y     uint8
	Const uint8 // kk or n
}

// decodeOperands extracts the operand fields for shape. Register indexes are
// nibbles, so they are always inside the register file.
func decodeOperands(o Opcode, shape Shape) Operands {
	ops := Operands{Shape: shape}
	switch shape {
	case ShapeAddress:
		ops.Addr = o.nnn()
	case ShapeReg:
		ops.X = o.x()
	case ShapeRegs:
		ops.X, ops.Y = o.x(), o.y()
	case ShapeRegConst:
		ops.X, ops.Const = o.x(), o.kk()
	case ShapeRegsConst:
		ops.X, ops.Y, ops.Const = o.x(), o.y(), o.n()
	}
	return ops
}

func (o Operands) String() string {
	switch o.Shape {
	case ShapeAddress:
		return fmt.Sprintf("$%03X", o.Addr)
	case ShapeReg:
		return fmt.Sprintf("V%X", o.X)
	case ShapeRegs:
		return fmt.Sprintf("V%X, V%X", o.X, o.Y)
	case ShapeRegConst:
		return fmt.Sprintf("V%X, $%02X", o.X, o.Const)
	case ShapeRegsConst:
		return fmt.Sprintf("V%X, V%X, $%X", o.X, o.Y, o.Const)
	default:
		return ""
	}
}

// Decode looks the opcode up in the instruction table and extracts its
// operands. Unknown opcodes decode into a no-op instruction named "???".
func (o Opcode) Decode() Instruction {
	e := lookup(o)
	return Instruction{
		Opcode:   o,
		Name:     e.name,
		Operands: decodeOperands(o, e.shape),
		exec:     e.exec,
	}
}
