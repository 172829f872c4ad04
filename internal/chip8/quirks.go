package chip8

import "strings"

// Quirks selects between behaviours that differ across CHIP-8 interpreter
// generations.
type Quirks uint8

// Quirk flags
const (
	// QuirkMemoryMovesIndex leaves I advanced by x+1 after Fx55 and Fx65.
	QuirkMemoryMovesIndex Quirks = 1 << iota
	// QuirkSubtractOffByOne computes a borrowing SUB/SUBN as 0xFF-(rhs-lhs)
	// instead of the 8-bit wrapped difference.
	QuirkSubtractOffByOne
	// QuirkShiftUsesVY copies Vy into Vx before 8xy6 and 8xyE shift it.
	QuirkShiftUsesVY
	// QuirkJumpUsesVX makes Bnnn add Vx, x being the high nibble of nnn,
	// instead of V0.
	QuirkJumpUsesVX
	// QuirkVFReset clears VF after OR, AND and XOR.
	QuirkVFReset
)

// DefaultQuirks matches the COSMAC VIP index behaviour and the
// later shift convention.
const DefaultQuirks = QuirkMemoryMovesIndex

var quirkNames = []struct {
	q    Quirks
	name string
}{
	{QuirkMemoryMovesIndex, "index"},
	{QuirkSubtractOffByOne, "sub"},
	{QuirkShiftUsesVY, "shift"},
	{QuirkJumpUsesVX, "jump"},
	{QuirkVFReset, "vf"},
}

// Has reports whether all flags of q are set.
func (qs Quirks) Has(q Quirks) bool {
	return qs&q == q
}

// With returns the set with q switched on or off.
func (qs Quirks) With(q Quirks, on bool) Quirks {
	if on {
		return qs | q
	}
	return qs &^ q
}

func (qs Quirks) String() string {
	var names []string
	for _, n := range quirkNames {
		if qs.Has(n.q) {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}
