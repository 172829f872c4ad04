package chip8

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

const cyclePeriod = time.Second / DefaultClockHz

func newTestVM(t *testing.T, quirks Quirks, program ...uint8) *VM {
	t.Helper()
	vm := New(log.NewTestLogger(t), Config{Quirks: quirks, Seed: 1})
	assert.NoError(t, vm.LoadProgram(program))
	return vm
}

func step(t *testing.T, vm *VM, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := vm.Step()
		assert.NoError(t, err)
	}
}

func TestNew(t *testing.T) {
	vm := New(log.NewTestLogger(t), DefaultConfig())
	assert.Equal(t, uint16(ProgramStart), vm.PC())
	assert.Equal(t, uint16(0), vm.I())
	assert.Equal(t, uint8(0xF0), vm.memory.Read(0))
	assert.Equal(t, cyclePeriod, vm.cyclePeriod)
}

func TestLoadProgram(t *testing.T) {
	vm := New(log.NewTestLogger(t), DefaultConfig())
	assert.NoError(t, vm.LoadProgram([]byte{0x12, 0x34}))
	assert.Equal(t, uint8(0x12), vm.memory.Read(ProgramStart))
	assert.Equal(t, uint8(0x34), vm.memory.Read(ProgramStart+1))

	assert.NoError(t, vm.LoadProgram(make([]byte, MaxProgramSize)))

	err := vm.LoadProgram(make([]byte, MaxProgramSize+1))
	assert.True(t, errors.Is(err, ErrProgramTooLarge))
}

func TestLoadProgramFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "test.ch8")
	assert.NoError(t, os.WriteFile(filename, []byte{0x60, 0x0A}, 0o600))

	vm := New(log.NewTestLogger(t), DefaultConfig())
	assert.NoError(t, vm.LoadProgramFile(filename))
	step(t, vm, 1)
	assert.Equal(t, uint8(0x0A), vm.V(0))

	err := vm.LoadProgramFile(filepath.Join(t.TempDir(), "missing.ch8"))
	assert.ErrorContains(t, err, "loading program")
}

func TestAdvanceWithoutProgram(t *testing.T) {
	vm := New(log.NewTestLogger(t), DefaultConfig())
	_, err := vm.Advance(time.Second)
	assert.True(t, errors.Is(err, ErrNoProgram))
	_, err = vm.Step()
	assert.True(t, errors.Is(err, ErrNoProgram))
}

func TestLoadAndAdd(t *testing.T) {
	vm := newTestVM(t, DefaultQuirks, 0x60, 0x0A, 0x70, 0x05)
	_, err := vm.Advance(2 * cyclePeriod)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0x0F), vm.V(0))
	assert.Equal(t, uint16(0x204), vm.PC())
}

func TestAdvanceCarriesRemainder(t *testing.T) {
	vm := newTestVM(t, 0, 0x70, 0x01, 0x12, 0x00) // ADD V0, 1; JP $200

	_, err := vm.Advance(cyclePeriod / 2)
	assert.NoError(t, err)
	assert.Equal(t, uint16(ProgramStart), vm.PC())

	_, err = vm.Advance(cyclePeriod / 2)
	assert.NoError(t, err)
	assert.Equal(t, uint16(ProgramStart+2), vm.PC())

	_, err = vm.Advance(10*cyclePeriod + cyclePeriod/2)
	assert.NoError(t, err)
	assert.Equal(t, uint64(11), vm.Snapshot().Cycles)
	assert.Equal(t, uint8(6), vm.V(0))
}

func TestAdvanceReportsRedraw(t *testing.T) {
	vm := newTestVM(t, 0,
		0x60, 0x01, // LD V0, 1
		0x00, 0xE0, // CLS
		0x12, 0x04, // JP $204
	)
	redraw, err := vm.Advance(cyclePeriod)
	assert.NoError(t, err)
	assert.False(t, redraw)

	redraw, err = vm.Advance(cyclePeriod)
	assert.NoError(t, err)
	assert.True(t, redraw)

	redraw, err = vm.Advance(10 * cyclePeriod)
	assert.NoError(t, err)
	assert.False(t, redraw)
}

func TestTimers(t *testing.T) {
	vm := newTestVM(t, 0,
		0x60, 0x02, // LD V0, 2
		0xF0, 0x15, // LD DT, V0
		0xF0, 0x18, // LD ST, V0
		0x12, 0x06, // JP $206
	)
	step(t, vm, 3)
	assert.Equal(t, uint8(2), vm.DelayTimer())
	assert.True(t, vm.Sounding())

	_, err := vm.Advance(TimerPeriod - 1)
	assert.NoError(t, err)
	assert.Equal(t, uint8(2), vm.DelayTimer())

	_, err = vm.Advance(1)
	assert.NoError(t, err)
	assert.Equal(t, uint8(1), vm.DelayTimer())
	assert.Equal(t, uint8(1), vm.SoundTimer())

	_, err = vm.Advance(TimerPeriod)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0), vm.DelayTimer())
	assert.False(t, vm.Sounding())

	_, err = vm.Advance(3 * TimerPeriod)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0), vm.DelayTimer())
	assert.Equal(t, uint8(0), vm.SoundTimer())
}

func TestStepDoesNotTickTimers(t *testing.T) {
	vm := newTestVM(t, 0, 0x60, 0x05, 0xF0, 0x15, 0x12, 0x04)
	step(t, vm, 20)
	assert.Equal(t, uint8(5), vm.DelayTimer())
}

func TestAwaitKey(t *testing.T) {
	vm := newTestVM(t, 0,
		0xF3, 0x0A, // LD V3, K
		0x60, 0x01, // LD V0, 1
		0x12, 0x04, // JP $204
	)
	vm.delayTimer = 10

	step(t, vm, 1)
	reg, awaiting := vm.AwaitingKey()
	assert.True(t, awaiting)
	assert.Equal(t, uint8(3), reg)

	// cycles pass without fetching, timers keep running
	_, err := vm.Advance(TimerPeriod)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x202), vm.PC())
	assert.Equal(t, uint8(0), vm.V(0))
	assert.Equal(t, uint8(9), vm.DelayTimer())

	// releases do not resolve the wait
	vm.SetKey(0xB, false)
	_, awaiting = vm.AwaitingKey()
	assert.True(t, awaiting)

	vm.KeyDown('c') // keypad B
	_, awaiting = vm.AwaitingKey()
	assert.False(t, awaiting)
	assert.Equal(t, uint8(0xB), vm.V(3))

	step(t, vm, 1)
	assert.Equal(t, uint8(1), vm.V(0))
}

func TestKeyDownUp(t *testing.T) {
	vm := newTestVM(t, 0, 0x12, 0x00)
	vm.KeyDown('Q')
	assert.True(t, vm.keypad.Pressed(0x4))
	vm.KeyUp('q')
	assert.False(t, vm.keypad.Pressed(0x4))

	vm.KeyDown('p') // unmapped
	for k := uint8(0); k < KeyCount; k++ {
		assert.False(t, vm.keypad.Pressed(k))
	}
}

func TestStackOverflowHalts(t *testing.T) {
	vm := newTestVM(t, 0, 0x22, 0x00) // CALL $200
	step(t, vm, StackDepth)

	_, err := vm.Step()
	assert.True(t, errors.Is(err, ErrStackOverflow))
	assert.ErrorContains(t, err, "$200")
	assert.True(t, errors.Is(vm.Fault(), ErrStackOverflow))

	_, err = vm.Advance(time.Second)
	assert.True(t, errors.Is(err, ErrStackOverflow))
	_, err = vm.Step()
	assert.True(t, errors.Is(err, ErrStackOverflow))
}

func TestStackUnderflowHalts(t *testing.T) {
	vm := newTestVM(t, 0, 0x00, 0xEE)
	_, err := vm.Advance(time.Second)
	assert.True(t, errors.Is(err, ErrStackUnderflow))
	assert.Equal(t, uint64(1), vm.Snapshot().Cycles)
}

func TestSnapshotDoesNotMutate(t *testing.T) {
	vm := newTestVM(t, 0, 0x22, 0x04, 0x00, 0x00, 0xF5, 0x0A)
	step(t, vm, 2)

	a := vm.Snapshot()
	b := vm.Snapshot()
	assert.Equal(t, a.PC, b.PC)
	assert.Equal(t, a.Stack, b.Stack)
	assert.Equal(t, a.Memory, b.Memory)
	assert.True(t, a.Awaiting)
	assert.Equal(t, uint8(5), a.AwaitRegister)
	assert.Equal(t, []uint16{0x202}, a.Stack)

	a.Memory[ProgramStart] = 0xFF
	a.Stack[0] = 0
	assert.Equal(t, uint8(0x22), vm.memory.Read(ProgramStart))
	assert.Equal(t, []uint16{0x202}, vm.Snapshot().Stack)
}

func TestDisassemble(t *testing.T) {
	vm := newTestVM(t, 0, 0x60, 0x0A, 0x70, 0x05, 0x00, 0x00)
	ins := vm.Disassemble(ProgramStart, 3)
	assert.Len(t, ins, 3)
	assert.Equal(t, "(600A) ld   V0, $0A", ins[0].String())
	assert.Equal(t, "(7005) add  V0, $05", ins[1].String())
	assert.False(t, ins[2].Known())
	assert.Equal(t, uint16(ProgramStart), vm.PC())
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.Defaults()
	assert.Equal(t, DefaultClockHz, cfg.ClockHz)
	assert.True(t, cfg.Seed != 0)

	cfg = Config{ClockHz: 1000, Seed: 7}
	cfg.Defaults()
	assert.Equal(t, 1000, cfg.ClockHz)
	assert.Equal(t, int64(7), cfg.Seed)
}

func TestTrace(t *testing.T) {
	vm := New(log.NewTestLogger(t), Config{Trace: true, Seed: 1})
	assert.NoError(t, vm.LoadProgram([]byte{0x60, 0x01}))
	step(t, vm, 1)
	assert.Equal(t, uint8(1), vm.V(0))
}
