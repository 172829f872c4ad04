// Package emulator defines the capability set every emulated machine offers to
// the frontends, so that windowing, audio and inspection code never depends on
// a concrete machine.
package emulator

import (
	"fmt"
	"strings"
	"time"
)

// Kind identifies an emulated machine type.
type Kind string

// Supported machines
const (
	Chip8 Kind = "chip8"
)

// Kinds lists all supported machines.
var Kinds = []Kind{Chip8}

// ParseKind returns the machine kind matching name, case-insensitively.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds {
		if strings.EqualFold(string(k), name) {
			return k, nil
		}
	}
	names := make([]string, len(Kinds))
	for i, k := range Kinds {
		names[i] = string(k)
	}
	return "", fmt.Errorf("unsupported machine: %s. Valid options: %s", name, strings.Join(names, ", "))
}

// Machine is an emulated machine driven by a frontend.
type Machine interface {
	// Name returns a short human readable machine name.
	Name() string
	// LoadProgram copies a ROM image into the machine.
	LoadProgram(data []byte) error
	// Advance runs the machine for the elapsed wall-clock time and reports
	// whether the screen has to be redrawn.
	Advance(elapsed time.Duration) (bool, error)
	// Step executes a single instruction.
	Step() (bool, error)

	// ScreenSize returns the framebuffer dimensions in pixels.
	ScreenSize() (width, height int)
	// Pixels returns a row-major copy of the framebuffer.
	Pixels() []bool
	// Sounding reports whether the machine is currently producing a tone.
	Sounding() bool

	// KeyDown and KeyUp forward host keyboard symbols. Machines ignore keys
	// they have no mapping for.
	KeyDown(key rune)
	KeyUp(key rune)

	// State returns a read-only snapshot for inspectors.
	State() State
	// Disassemble decodes count instructions starting at addr.
	Disassemble(addr uint32, count int) []Line
}

// Register is a named register value of a State.
type Register struct {
	Name  string
	Value uint32
	Width int // in bits
}

// String formats the value with as many hex digits as the register width needs.
func (r Register) String() string {
	digits := (r.Width + 3) / 4
	return fmt.Sprintf("0x%0*X", digits, r.Value)
}

// State is a machine independent view on the machine internals.
type State struct {
	Registers []Register
	PC        uint32
	Index     uint32   // address register used to centre memory views
	Stack     []uint32 // oldest first
	Memory    []byte
	Waiting   string // non-empty while the machine is blocked, describes on what
	Halted    error
	Cycles    uint64
}

// Line is a disassembled instruction.
type Line struct {
	Address  uint32
	Code     string // raw opcode in hex
	Name     string
	Operands string
}
