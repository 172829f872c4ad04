// Package chip8 implements the CHIP-8 virtual machine: memory, registers, call
// stack, framebuffer, keypad and the two 60 Hz timers, driven by a
// fetch-decode-execute loop that is advanced by caller supplied wall-clock time.
package chip8

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/retroenv/retrogolib/log"
)

// Timing constants
const (
	DefaultClockHz = 500
	TimerHz        = 60

	TimerPeriod = time.Second / TimerHz
)

// Config contains settings that affect emulation behavior.
type Config struct {
	ClockHz int    // instruction cycles per second
	Quirks  Quirks // interpreter generation specific behaviour
	Seed    int64  // seed of the RND instruction, 0 picks a time based seed
	Trace   bool   // log every executed instruction
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		ClockHz: DefaultClockHz,
		Quirks:  DefaultQuirks,
	}
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.ClockHz <= 0 {
		c.ClockHz = DefaultClockHz
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
}

type runState uint8

const (
	stateRunning runState = iota
	stateAwaitingKey
	stateHalted
)

// VM is an emulated CHIP-8 VM
type VM struct {
	logger *log.Logger
	trace  bool
	quirks Quirks
	rng    *rand.Rand

	opcode Opcode // opcode of the current instruction
	opAddr uint16 // address the current instruction was fetched from

	v          [16]uint8 // 16 general purpose 8-bit registers, VF doubles as flag
	i          uint16    // register that is generally used to store memory addresses
	pc         uint16    // program counter
	delayTimer uint8
	soundTimer uint8
	stack      Stack
	memory     *Memory
	display    Display
	keypad     Keypad

	state    runState
	awaitReg uint8 // target register while awaiting a key press
	fault    error // stack fault that halted the machine
	loaded   bool

	cyclePeriod time.Duration
	cycleAcc    time.Duration // time not yet converted into instruction cycles
	timerAcc    time.Duration // time not yet converted into timer ticks
	cycles      uint64
}

// New creates a new instance of an emulated CHIP-8 VM with the built-in glyph
// sprites loaded and the program counter at ProgramStart.
func New(logger *log.Logger, cfg Config) *VM {
	cfg.Defaults()
	return &VM{
		logger:      logger,
		trace:       cfg.Trace,
		quirks:      cfg.Quirks,
		rng:         rand.New(rand.NewSource(cfg.Seed)),
		pc:          ProgramStart,
		memory:      newMemory(),
		cyclePeriod: time.Second / time.Duration(cfg.ClockHz),
	}
}

// LoadProgram copies a program into memory starting at ProgramStart.
func (vm *VM) LoadProgram(data []byte) error {
	if len(data) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, at most %d fit", ErrProgramTooLarge, len(data), MaxProgramSize)
	}
	copy(vm.memory[ProgramStart:], data)
	vm.loaded = true
	vm.logger.Info("Program loaded",
		log.Int("size", len(data)),
		log.String("quirks", vm.quirks.String()))
	return nil
}

// LoadProgramFile reads a program from disk and loads it.
func (vm *VM) LoadProgramFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("loading program: %w", err)
	}
	return vm.LoadProgram(data)
}

// Advance converts elapsed wall-clock time into whole instruction cycles and
// whole timer ticks, carrying the remainder to the next call. It reports
// whether any executed instruction changed the display.
func (vm *VM) Advance(elapsed time.Duration) (bool, error) {
	if err := vm.runnable(); err != nil {
		return false, err
	}

	vm.cycleAcc += elapsed
	vm.timerAcc += elapsed

	redraw := false
	for vm.cycleAcc >= vm.cyclePeriod {
		vm.cycleAcc -= vm.cyclePeriod
		draw, err := vm.cycle()
		redraw = redraw || draw
		if err != nil {
			return redraw, err
		}
	}

	for vm.timerAcc >= TimerPeriod {
		vm.timerAcc -= TimerPeriod
		vm.TickTimers()
	}
	return redraw, nil
}

// Step executes a single instruction cycle without touching the timers.
func (vm *VM) Step() (bool, error) {
	if err := vm.runnable(); err != nil {
		return false, err
	}
	return vm.cycle()
}

// TickTimers decrements the delay and sound timers once.
func (vm *VM) TickTimers() {
	if vm.delayTimer > 0 {
		vm.delayTimer--
	}
	if vm.soundTimer > 0 {
		vm.soundTimer--
	}
}

func (vm *VM) runnable() error {
	if !vm.loaded {
		return ErrNoProgram
	}
	return vm.fault
}

func (vm *VM) cycle() (bool, error) {
	if vm.state != stateRunning {
		return false, nil
	}

	in := vm.fetch().Decode()
	if vm.trace {
		vm.logger.Debug("Execute",
			log.Hex("address", vm.opAddr),
			log.String("instruction", in.String()))
	}

	redraw, err := in.exec(vm, in.Operands)
	vm.cycles++
	if err != nil {
		vm.halt(fmt.Errorf("%s at $%03X: %w", in.Name, vm.opAddr, err))
		return redraw, vm.fault
	}
	return redraw, nil
}

// fetch reads the instruction at PC and moves PC past it, before the
// instruction runs.
func (vm *VM) fetch() Opcode {
	vm.opAddr = vm.pc
	vm.opcode = vm.memory.Opcode(vm.pc)
	vm.incPC()
	return vm.opcode
}

func (vm *VM) incPC() {
	vm.pc += 2
}

func (vm *VM) setFlag(set bool) {
	if set {
		vm.v[0xF] = 1
	} else {
		vm.v[0xF] = 0
	}
}

func (vm *VM) logicFlag() {
	if vm.quirks.Has(QuirkVFReset) {
		vm.v[0xF] = 0
	}
}

// subtract returns lhs-rhs. When the subtraction borrows, the result is the
// 8-bit wrapped difference or, with QuirkSubtractOffByOne, 0xFF-(rhs-lhs).
func (vm *VM) subtract(lhs, rhs uint8) uint8 {
	if lhs < rhs && vm.quirks.Has(QuirkSubtractOffByOne) {
		return 0xFF - (rhs - lhs)
	}
	return lhs - rhs
}

func (vm *VM) shiftSource(o Operands) uint8 {
	if vm.quirks.Has(QuirkShiftUsesVY) {
		vm.v[o.X] = vm.v[o.Y]
	}
	return vm.v[o.X]
}

func (vm *VM) moveIndex(x uint8) {
	if vm.quirks.Has(QuirkMemoryMovesIndex) {
		vm.i += uint16(x) + 1
	}
}

func (vm *VM) awaitKey(reg uint8) {
	vm.state = stateAwaitingKey
	vm.awaitReg = reg
}

func (vm *VM) resolveKey(key uint8) {
	vm.v[vm.awaitReg] = key
	vm.state = stateRunning
}

func (vm *VM) halt(err error) {
	vm.state = stateHalted
	vm.fault = err
	vm.logger.Warn("Machine halted", log.Err(err))
}

// SetKey sets the pressed state of a hex key. Pressing a key while the VM is
// waiting for one stores the key in the waiting register and resumes execution.
func (vm *VM) SetKey(key uint8, pressed bool) {
	key &= 0xF
	vm.keypad.set(key, pressed)
	if pressed && vm.state == stateAwaitingKey {
		vm.resolveKey(key)
	}
}

// KeyDown presses the keypad key mapped to a host key. Unmapped keys are ignored.
func (vm *VM) KeyDown(host rune) {
	if key, ok := HostKey(host); ok {
		vm.SetKey(key, true)
	}
}

// KeyUp releases the keypad key mapped to a host key. Unmapped keys are ignored.
func (vm *VM) KeyUp(host rune) {
	if key, ok := HostKey(host); ok {
		vm.SetKey(key, false)
	}
}

// Pixels returns a row-major copy of the display.
func (vm *VM) Pixels() []bool {
	return vm.display.Pixels()
}

// Pixel returns whether the pixel at (x, y) is set.
func (vm *VM) Pixel(x, y int) bool {
	return vm.display.Pixel(x, y)
}

// Sounding reports whether the buzzer is on.
func (vm *VM) Sounding() bool {
	return vm.soundTimer > 0
}

// AwaitingKey returns the target register while the VM waits for a key press.
func (vm *VM) AwaitingKey() (uint8, bool) {
	return vm.awaitReg, vm.state == stateAwaitingKey
}

// Fault returns the error that halted the VM, if any.
func (vm *VM) Fault() error {
	return vm.fault
}

// PC returns the program counter.
func (vm *VM) PC() uint16 {
	return vm.pc
}

// V returns the value of register x.
func (vm *VM) V(x uint8) uint8 {
	return vm.v[x&0xF]
}

// I returns the index register.
func (vm *VM) I() uint16 {
	return vm.i
}

// DelayTimer returns the value of DT
func (vm *VM) DelayTimer() uint8 {
	return vm.delayTimer
}

// SoundTimer returns the value of ST
func (vm *VM) SoundTimer() uint8 {
	return vm.soundTimer
}

// Disassemble decodes count instructions starting at addr without executing them.
func (vm *VM) Disassemble(addr uint16, count int) []Instruction {
	out := make([]Instruction, 0, count)
	for n := 0; n < count; n++ {
		out = append(out, vm.memory.Opcode(addr).Decode())
		addr += 2
	}
	return out
}
