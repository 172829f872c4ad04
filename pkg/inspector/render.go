package inspector

import (
	"fmt"
	"io"

	"github.com/mnafees/chopper/v2/emulator"
	"github.com/retroenv/retrogolib/set"
)

const bytesPerRow = 16

// memoryWindow returns the first address of a rows high memory dump that
// contains index, keeping index roughly in the middle.
func memoryWindow(index uint32, size, rows int) uint32 {
	if rows <= 0 || size <= 0 {
		return 0
	}
	span := rows * bytesPerRow
	if span >= size {
		return 0
	}
	start := int(index&^(bytesPerRow-1)) - (rows/2)*bytesPerRow
	if start < 0 {
		start = 0
	}
	if start > size-span {
		start = size - span
	}
	return uint32(start)
}

// renderMemory dumps rows lines of 16 bytes around the index register. The
// byte at the index register is marked.
func renderMemory(w io.Writer, st emulator.State, rows int) {
	start := memoryWindow(st.Index, len(st.Memory), rows)
	for row := 0; row < rows; row++ {
		addr := int(start) + row*bytesPerRow
		if addr >= len(st.Memory) {
			return
		}
		fmt.Fprintf(w, "%03X:", addr)
		for col := 0; col < bytesPerRow && addr+col < len(st.Memory); col++ {
			sep := " "
			if uint32(addr+col) == st.Index {
				sep = ">"
			}
			fmt.Fprintf(w, "%s%02X", sep, st.Memory[addr+col])
		}
		fmt.Fprintln(w)
	}
}

func renderRegisters(w io.Writer, st emulator.State) {
	for i, reg := range st.Registers {
		if i%2 == 1 {
			fmt.Fprint(w, "  ")
		}
		fmt.Fprintf(w, "%-2s %s", reg.Name, reg)
		if i%2 == 1 || i == len(st.Registers)-1 {
			fmt.Fprintln(w)
		}
	}

	fmt.Fprintf(w, "cycles %d\n", st.Cycles)
	switch {
	case st.Halted != nil:
		fmt.Fprintf(w, "HALTED: %v\n", st.Halted)
	case st.Waiting != "":
		fmt.Fprintf(w, "waiting for %s\n", st.Waiting)
	}
}

// renderStack lists the return addresses, most recent first.
func renderStack(w io.Writer, st emulator.State) {
	if len(st.Stack) == 0 {
		fmt.Fprintln(w, "empty")
		return
	}
	for i := len(st.Stack) - 1; i >= 0; i-- {
		fmt.Fprintf(w, "%2d: $%03X\n", i, st.Stack[i])
	}
}

// renderInstructions prints disassembled lines, marking the current
// instruction and breakpoints.
func renderInstructions(w io.Writer, lines []emulator.Line, pc uint32, breakpoints set.Set[uint32]) {
	for _, l := range lines {
		marker := ' '
		if breakpoints.Contains(l.Address) {
			marker = '*'
		}
		cursor := ' '
		if l.Address == pc {
			cursor = '>'
		}
		fmt.Fprintf(w, "%c%c $%03X  %s  %-4s %s\n", marker, cursor, l.Address, l.Code, l.Name, l.Operands)
	}
}
