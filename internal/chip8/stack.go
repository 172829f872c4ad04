package chip8

// StackDepth is the number of return addresses the call stack can hold.
const StackDepth = 16

// Stack is the bounded call stack of return addresses.
type Stack struct {
	slots [StackDepth]uint16
	sp    uint8
}

// Push stores a return address.
func (s *Stack) Push(addr uint16) error {
	if int(s.sp) == StackDepth {
		return ErrStackOverflow
	}
	s.slots[s.sp] = addr
	s.sp++
	return nil
}

// Pop removes and returns the most recent return address.
func (s *Stack) Pop() (uint16, error) {
	if s.sp == 0 {
		return 0, ErrStackUnderflow
	}
	s.sp--
	return s.slots[s.sp], nil
}

// Len returns the number of addresses on the stack.
func (s *Stack) Len() int {
	return int(s.sp)
}

// Addresses returns a copy of the stack contents, oldest first.
func (s *Stack) Addresses() []uint16 {
	out := make([]uint16, s.sp)
	copy(out, s.slots[:s.sp])
	return out
}
