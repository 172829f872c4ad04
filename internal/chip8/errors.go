package chip8

import "errors"

var (
	// ErrStackOverflow is returned when a CALL is executed with a full stack.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrStackUnderflow is returned when a RET is executed with an empty stack.
	ErrStackUnderflow = errors.New("stack underflow")
	// ErrProgramTooLarge is returned when a program does not fit between
	// ProgramStart and the end of memory.
	ErrProgramTooLarge = errors.New("program size exceeds the maximum size")
	// ErrNoProgram is returned when the VM is advanced before a program was loaded.
	ErrNoProgram = errors.New("no program loaded")
)
