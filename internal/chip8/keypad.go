package chip8

// KeyCount is the number of keys on the hex keypad.
const KeyCount = 16

// Keypad holds the pressed state of the 16 hex keys.
type Keypad [KeyCount]bool

// Pressed reports whether key is held. Only the low nibble of key is used.
func (k *Keypad) Pressed(key uint8) bool {
	return k[key&0xF]
}

func (k *Keypad) set(key uint8, pressed bool) {
	k[key&0xF] = pressed
}

// Maps keys from a QWERTY keyboard to the keypad used by CHIP-8
// +--------+--------+--------+--------+
// | 1 -> 1 | 2 -> 2 | 3 -> 3 | 4 -> C |
// +--------+--------+--------+--------+
// | Q -> 4 | W -> 5 | E -> 6 | R -> D |
// +--------+--------+--------+--------+
// | A -> 7 | S -> 8 | D -> 9 | F -> E |
// +--------+--------+--------+--------+
// | Z -> A | X -> 0 | C -> B | V -> F |
// +--------+--------+--------+--------+
var keymap = map[rune]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// HostKey translates a host keyboard symbol into a keypad index. Upper case
// letters are accepted as well.
func HostKey(r rune) (uint8, bool) {
	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	k, ok := keymap[r]
	return k, ok
}
