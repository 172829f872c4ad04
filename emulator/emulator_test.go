package emulator

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Kind
		wantErr bool
	}{
		{"lower case", "chip8", Chip8, false},
		{"mixed case", "CHIP8", Chip8, false},
		{"unknown", "nes", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, err := ParseKind(tt.input)
			if tt.wantErr {
				assert.ErrorContains(t, err, "unsupported machine")
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, kind)
		})
	}
}

func TestRegisterString(t *testing.T) {
	assert.Equal(t, "0x0A", Register{Name: "V0", Value: 0xA, Width: 8}.String())
	assert.Equal(t, "0x0200", Register{Name: "PC", Value: 0x200, Width: 16}.String())
	assert.Equal(t, "0x5", Register{Name: "N", Value: 5, Width: 4}.String())
}
