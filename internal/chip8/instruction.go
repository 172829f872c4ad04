package chip8

// Follows the CHIP-8 technical reference found at http://devernay.free.fr/hacks/chip8/C8TECH10.HTM

import (
	"fmt"

	isa "github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/log"
)

// execFunc runs an instruction against the VM. It reports whether the display
// has to be redrawn.
type execFunc func(vm *VM, o Operands) (bool, error)

// Instruction is a decoded opcode bound to its execution routine.
type Instruction struct {
	Opcode   Opcode
	Name     string
	Operands Operands

	exec execFunc
}

// Known reports whether the opcode matched an entry of the instruction table.
func (in Instruction) Known() bool {
	return in.Name != unknownName
}

func (in Instruction) String() string {
	if in.Operands.Shape == ShapeNone {
		return fmt.Sprintf("(%s) %s", in.Opcode, in.Name)
	}
	return fmt.Sprintf("(%s) %-4s %s", in.Opcode, in.Name, in.Operands)
}

const unknownName = "???"

type entry struct {
	name  string
	shape Shape
	exec  execFunc
}

// class groups the instructions sharing a leading nibble. Either the whole
// class is a single instruction, or selector picks one of the variants.
type class struct {
	single   *entry
	selector func(Opcode) uint8
	variants map[uint8]*entry
}

var (
	unknownEntry = &entry{name: unknownName, shape: ShapeNone, exec: opUnknown}

	instructionTable = buildInstructionTable()
)

func lowNibble(o Opcode) uint8 { return o.n() }
func lowByte(o Opcode) uint8   { return o.kk() }

func buildInstructionTable() [16]class {
	var t [16]class

	t[0x0] = class{selector: lowByte, variants: map[uint8]*entry{
		0xE0: {isa.ClsName, ShapeNone, opCls},
		0xEE: {isa.RetName, ShapeNone, opRet},
	}}
	t[0x1] = class{single: &entry{isa.JpName, ShapeAddress, opJp}}
	t[0x2] = class{single: &entry{isa.CallName, ShapeAddress, opCall}}
	t[0x3] = class{single: &entry{isa.SeName, ShapeRegConst, opSeConst}}
	t[0x4] = class{single: &entry{isa.SneName, ShapeRegConst, opSneConst}}
	t[0x5] = class{selector: lowNibble, variants: map[uint8]*entry{
		0x0: {isa.SeName, ShapeRegs, opSeRegs},
	}}
	t[0x6] = class{single: &entry{isa.LdName, ShapeRegConst, opLdConst}}
	t[0x7] = class{single: &entry{isa.AddName, ShapeRegConst, opAddConst}}
	t[0x8] = class{selector: lowNibble, variants: map[uint8]*entry{
		0x0: {isa.LdName, ShapeRegs, opLdRegs},
		0x1: {isa.OrName, ShapeRegs, opOr},
		0x2: {isa.AndName, ShapeRegs, opAnd},
		0x3: {isa.XorName, ShapeRegs, opXor},
		0x4: {isa.AddName, ShapeRegs, opAddRegs},
		0x5: {isa.SubName, ShapeRegs, opSub},
		0x6: {isa.ShrName, ShapeRegs, opShr},
		0x7: {isa.SubnName, ShapeRegs, opSubn},
		0xE: {isa.ShlName, ShapeRegs, opShl},
	}}
	t[0x9] = class{selector: lowNibble, variants: map[uint8]*entry{
		0x0: {isa.SneName, ShapeRegs, opSneRegs},
	}}
	t[0xA] = class{single: &entry{isa.LdName, ShapeAddress, opLdI}}
	t[0xB] = class{single: &entry{isa.JpName, ShapeAddress, opJpOffset}}
	t[0xC] = class{single: &entry{isa.RndName, ShapeRegConst, opRnd}}
	t[0xD] = class{single: &entry{isa.DrwName, ShapeRegsConst, opDrw}}
	t[0xE] = class{selector: lowByte, variants: map[uint8]*entry{
		0x9E: {isa.SkpName, ShapeReg, opSkp},
		0xA1: {isa.SknpName, ShapeReg, opSknp},
	}}
	t[0xF] = class{selector: lowByte, variants: map[uint8]*entry{
		0x07: {isa.LdName, ShapeReg, opLdVxDT},
		0x0A: {isa.LdName, ShapeReg, opLdKey},
		0x15: {isa.LdName, ShapeReg, opLdDTVx},
		0x18: {isa.LdName, ShapeReg, opLdSTVx},
		0x1E: {isa.AddName, ShapeReg, opAddI},
		0x29: {isa.LdName, ShapeReg, opLdGlyph},
		0x33: {isa.LdName, ShapeReg, opLdBCD},
		0x55: {isa.LdName, ShapeReg, opStoreRegs},
		0x65: {isa.LdName, ShapeReg, opLoadRegs},
	}}
	return t
}

// lookup maps an opcode to its table entry. It never fails, unknown patterns
// map to the logging no-op.
func lookup(o Opcode) *entry {
	c := instructionTable[o.class()]
	if c.single != nil {
		return c.single
	}
	if c.selector == nil {
		return unknownEntry
	}
	if e, ok := c.variants[c.selector(o)]; ok {
		return e
	}
	return unknownEntry
}

func opUnknown(vm *VM, _ Operands) (bool, error) {
	vm.logger.Warn("Unknown opcode",
		log.Hex("opcode", uint16(vm.opcode)),
		log.Hex("address", vm.opAddr))
	return false, nil
}

// CLS
func opCls(vm *VM, _ Operands) (bool, error) {
	vm.display.Clear()
	return true, nil
}

// RET
func opRet(vm *VM, _ Operands) (bool, error) {
	addr, err := vm.stack.Pop()
	if err != nil {
		return false, err
	}
	vm.pc = addr
	return false, nil
}

// JP nnn
func opJp(vm *VM, o Operands) (bool, error) {
	vm.pc = o.Addr
	return false, nil
}

// CALL nnn
func opCall(vm *VM, o Operands) (bool, error) {
	if err := vm.stack.Push(vm.pc); err != nil {
		return false, err
	}
	vm.pc = o.Addr
	return false, nil
}

// SE Vx, kk
func opSeConst(vm *VM, o Operands) (bool, error) {
	if vm.v[o.X] == o.Const {
		vm.incPC()
	}
	return false, nil
}

// SNE Vx, kk
func opSneConst(vm *VM, o Operands) (bool, error) {
	if vm.v[o.X] != o.Const {
		vm.incPC()
	}
	return false, nil
}

// SE Vx, Vy
func opSeRegs(vm *VM, o Operands) (bool, error) {
	if vm.v[o.X] == vm.v[o.Y] {
		vm.incPC()
	}
	return false, nil
}

// SNE Vx, Vy
func opSneRegs(vm *VM, o Operands) (bool, error) {
	if vm.v[o.X] != vm.v[o.Y] {
		vm.incPC()
	}
	return false, nil
}

// LD Vx, kk
func opLdConst(vm *VM, o Operands) (bool, error) {
	vm.v[o.X] = o.Const
	return false, nil
}

// ADD Vx, kk. Wraps around without touching VF.
func opAddConst(vm *VM, o Operands) (bool, error) {
	vm.v[o.X] += o.Const
	return false, nil
}

// LD Vx, Vy
func opLdRegs(vm *VM, o Operands) (bool, error) {
	vm.v[o.X] = vm.v[o.Y]
	return false, nil
}

// OR Vx, Vy
func opOr(vm *VM, o Operands) (bool, error) {
	vm.v[o.X] |= vm.v[o.Y]
	vm.logicFlag()
	return false, nil
}

// AND Vx, Vy
func opAnd(vm *VM, o Operands) (bool, error) {
	vm.v[o.X] &= vm.v[o.Y]
	vm.logicFlag()
	return false, nil
}

// XOR Vx, Vy
func opXor(vm *VM, o Operands) (bool, error) {
	vm.v[o.X] ^= vm.v[o.Y]
	vm.logicFlag()
	return false, nil
}

// ADD Vx, Vy
func opAddRegs(vm *VM, o Operands) (bool, error) {
	sum := uint16(vm.v[o.X]) + uint16(vm.v[o.Y])
	vm.v[o.X] = uint8(sum)
	vm.setFlag(sum > 0xFF)
	return false, nil
}

// SUB Vx, Vy
func opSub(vm *VM, o Operands) (bool, error) {
	lhs, rhs := vm.v[o.X], vm.v[o.Y]
	vm.v[o.X] = vm.subtract(lhs, rhs)
	vm.setFlag(lhs >= rhs)
	return false, nil
}

// SUBN Vx, Vy
func opSubn(vm *VM, o Operands) (bool, error) {
	lhs, rhs := vm.v[o.Y], vm.v[o.X]
	vm.v[o.X] = vm.subtract(lhs, rhs)
	vm.setFlag(lhs >= rhs)
	return false, nil
}

// SHR Vx {, Vy}
func opShr(vm *VM, o Operands) (bool, error) {
	v := vm.shiftSource(o)
	vm.v[o.X] = v >> 1
	vm.setFlag(v&0x01 == 0x01)
	return false, nil
}

// SHL Vx {, Vy}
func opShl(vm *VM, o Operands) (bool, error) {
	v := vm.shiftSource(o)
	vm.v[o.X] = v << 1
	vm.setFlag(v&0x80 == 0x80)
	return false, nil
}

// LD I, nnn
func opLdI(vm *VM, o Operands) (bool, error) {
	vm.i = o.Addr
	return false, nil
}

// JP V0, nnn
func opJpOffset(vm *VM, o Operands) (bool, error) {
	base := vm.v[0]
	if vm.quirks.Has(QuirkJumpUsesVX) {
		base = vm.v[o.Addr>>8&0xF]
	}
	vm.pc = o.Addr + uint16(base)
	return false, nil
}

// RND Vx, kk
func opRnd(vm *VM, o Operands) (bool, error) {
	vm.v[o.X] = uint8(vm.rng.Intn(256)) & o.Const
	return false, nil
}

// DRW Vx, Vy, n
func opDrw(vm *VM, o Operands) (bool, error) {
	vm.v[0xF] = 0
	sprite := make([]uint8, o.Const)
	for row := range sprite {
		sprite[row] = vm.memory.Read(vm.i + uint16(row))
	}
	if vm.display.DrawSprite(vm.v[o.X], vm.v[o.Y], sprite) {
		vm.v[0xF] = 1
	}
	return true, nil
}

// SKP Vx
func opSkp(vm *VM, o Operands) (bool, error) {
	if vm.keypad.Pressed(vm.v[o.X]) {
		vm.incPC()
	}
	return false, nil
}

// SKNP Vx
func opSknp(vm *VM, o Operands) (bool, error) {
	if !vm.keypad.Pressed(vm.v[o.X]) {
		vm.incPC()
	}
	return false, nil
}

// LD Vx, DT
func opLdVxDT(vm *VM, o Operands) (bool, error) {
	vm.v[o.X] = vm.delayTimer
	return false, nil
}

// LD Vx, K
func opLdKey(vm *VM, o Operands) (bool, error) {
	vm.awaitKey(o.X)
	return false, nil
}

// LD DT, Vx
func opLdDTVx(vm *VM, o Operands) (bool, error) {
	vm.delayTimer = vm.v[o.X]
	return false, nil
}

// LD ST, Vx
func opLdSTVx(vm *VM, o Operands) (bool, error) {
	vm.soundTimer = vm.v[o.X]
	return false, nil
}

// ADD I, Vx. I may grow past 12 bits, nothing wraps it back.
func opAddI(vm *VM, o Operands) (bool, error) {
	vm.i += uint16(vm.v[o.X])
	return false, nil
}

// LD F, Vx
func opLdGlyph(vm *VM, o Operands) (bool, error) {
	vm.i = GlyphAddress(vm.v[o.X])
	return false, nil
}

// LD B, Vx
func opLdBCD(vm *VM, o Operands) (bool, error) {
	v := vm.v[o.X]
	vm.memory.Write(vm.i, v/100)
	vm.memory.Write(vm.i+1, (v/10)%10)
	vm.memory.Write(vm.i+2, v%10)
	return false, nil
}

// LD [I], Vx
func opStoreRegs(vm *VM, o Operands) (bool, error) {
	for r := uint16(0); r <= uint16(o.X); r++ {
		vm.memory.Write(vm.i+r, vm.v[r])
	}
	vm.moveIndex(o.X)
	return false, nil
}

// LD Vx, [I]
func opLoadRegs(vm *VM, o Operands) (bool, error) {
	for r := uint16(0); r <= uint16(o.X); r++ {
		vm.v[r] = vm.memory.Read(vm.i + r)
	}
	vm.moveIndex(o.X)
	return false, nil
}
