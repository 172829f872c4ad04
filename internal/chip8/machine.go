package chip8

import (
	"fmt"

	"github.com/mnafees/chopper/v2/emulator"
)

// Compile-time check to ensure Machine implements emulator.Machine.
var _ emulator.Machine = (*Machine)(nil)

// Machine adapts the VM to the frontend facing emulator.Machine interface.
type Machine struct {
	*VM
}

// NewMachine returns a VM wrapped as an emulator.Machine.
func NewMachine(vm *VM) *Machine {
	return &Machine{VM: vm}
}

// Name returns the machine name.
func (m *Machine) Name() string {
	return "CHIP-8"
}

// ScreenSize returns the display dimensions.
func (m *Machine) ScreenSize() (int, int) {
	return ScreenWidth, ScreenHeight
}

// State converts a VM snapshot into the machine independent representation.
func (m *Machine) State() emulator.State {
	s := m.Snapshot()
	regs := make([]emulator.Register, 0, len(s.V)+5)
	for i, v := range s.V {
		regs = append(regs, emulator.Register{Name: fmt.Sprintf("V%X", i), Value: uint32(v), Width: 8})
	}
	regs = append(regs,
		emulator.Register{Name: "DT", Value: uint32(s.DT), Width: 8},
		emulator.Register{Name: "ST", Value: uint32(s.ST), Width: 8},
		emulator.Register{Name: "I", Value: uint32(s.I), Width: 16},
		emulator.Register{Name: "PC", Value: uint32(s.PC), Width: 16},
	)

	stack := make([]uint32, len(s.Stack))
	for i, addr := range s.Stack {
		stack[i] = uint32(addr)
	}

	st := emulator.State{
		Registers: regs,
		PC:        uint32(s.PC),
		Index:     uint32(s.I),
		Stack:     stack,
		Memory:    s.Memory[:],
		Halted:    s.Fault,
		Cycles:    s.Cycles,
	}
	if s.Awaiting {
		st.Waiting = fmt.Sprintf("key press into V%X", s.AwaitRegister)
	}
	return st
}

// Disassemble decodes count instructions starting at addr.
func (m *Machine) Disassemble(addr uint32, count int) []emulator.Line {
	ins := m.VM.Disassemble(uint16(addr), count)
	lines := make([]emulator.Line, len(ins))
	for i, in := range ins {
		lines[i] = emulator.Line{
			Address:  (addr + uint32(i)*2) & 0xFFFF,
			Code:     in.Opcode.String(),
			Name:     in.Name,
			Operands: in.Operands.String(),
		}
	}
	return lines
}
