package chip8

// Snapshot is a read-only copy of the VM state.
type Snapshot struct {
	V      [16]uint8
	I      uint16
	PC     uint16
	DT     uint8
	ST     uint8
	Stack  []uint16
	Memory Memory

	Awaiting      bool
	AwaitRegister uint8
	Fault         error
	Cycles        uint64
}

// Snapshot copies the current VM state. It never mutates the VM.
func (vm *VM) Snapshot() Snapshot {
	reg, awaiting := vm.AwaitingKey()
	return Snapshot{
		V:             vm.v,
		I:             vm.i,
		PC:            vm.pc,
		DT:            vm.delayTimer,
		ST:            vm.soundTimer,
		Stack:         vm.stack.Addresses(),
		Memory:        *vm.memory,
		Awaiting:      awaiting,
		AwaitRegister: reg,
		Fault:         vm.fault,
		Cycles:        vm.cycles,
	}
}
